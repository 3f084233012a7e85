package logger

import (
	"io"
	"log"
	"os"
)

var (
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

// InitLogger инициализирует логеры с записью в файл и консоль.
// Если путь к файлу не задан, пишем только в консоль.
func InitLogger(logFilePath string) error {
	var out io.Writer = os.Stdout

	if logFilePath != "" {
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		// Мультиплексируем вывод в файл и консоль
		out = io.MultiWriter(os.Stdout, logFile)
	}

	Info = log.New(out, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	Warning = log.New(out, "WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(out, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

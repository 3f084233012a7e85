package main

import (
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"techSupportBotGo/bot"
	"techSupportBotGo/config"
	"techSupportBotGo/database"
	"techSupportBotGo/logger"
	"techSupportBotGo/tickets"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Парсим флаги командной строки
	configPath := flag.String("config", "config.json", "Путь к конфигурационному файлу")
	flag.Parse()

	// Подхватываем .env, если он есть (токен бота и т.п.)
	_ = godotenv.Load()

	// Загружаем конфигурацию
	err := config.LoadConfig(*configPath)
	if err != nil {
		panic("Ошибка загрузки конфигурации: " + err.Error())
	}

	// Инициализируем логер
	err = logger.InitLogger(config.AppConfig.LogFile)
	if err != nil {
		panic("Ошибка инициализации логера: " + err.Error())
	}
	logger.Info.Println("Логер инициализирован")

	// Подключаемся к базе данных
	err = database.Connect()
	if err != nil {
		logger.Error.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	logger.Info.Println("Подключение к базе данных установлено")

	// Часовой пояс, в котором фиксируется время создания тикетов
	loc, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		logger.Error.Fatalf("Ошибка загрузки часового пояса %s: %v", config.AppConfig.Timezone, err)
	}

	// Собираем ядро выдачи тикетов
	store := database.NewStore(database.DB, config.AppConfig.Database.Driver)
	issuer := tickets.NewIssuer(store, loc)
	sessions := tickets.NewSessions()

	// Инициализируем Telegram бота
	botAPI, err := tgbotapi.NewBotAPI(config.AppConfig.TelegramToken)
	if err != nil {
		logger.Error.Fatalf("Ошибка инициализации Telegram бота: %v", err)
	}
	logger.Info.Printf("Авторизован как %s", botAPI.Self.UserName)

	handler := bot.New(botAPI, issuer, store, sessions, loc)

	// Канал для перехвата сигналов завершения
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Получаем обновления через long polling
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := botAPI.GetUpdatesChan(updateConfig)

	var wg sync.WaitGroup

	logger.Info.Println("Начинаем обработку сообщений")

loop:
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						logger.Error.Printf("Восстановление после паники при обработке обновления: %v", r)
					}
				}()
				handler.HandleUpdate(upd)
			}(update)
		case <-sigChan:
			logger.Info.Println("Получен сигнал завершения, останавливаем прием обновлений...")
			botAPI.StopReceivingUpdates()
			break loop
		}
	}

	logger.Info.Println("Ожидание завершения активных обработчиков...")
	// Канал для сигнализации о завершении wg.Wait()
	waitGroupDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitGroupDone)
	}()

	// Устанавливаем таймаут для ожидания
	select {
	case <-waitGroupDone:
		logger.Info.Println("Все обработчики успешно завершили работу.")
	case <-time.After(30 * time.Second):
		logger.Error.Println("Тайм-аут ожидания завершения обработчиков. Некоторые задачи могли не завершиться.")
	}

	// Закрываем соединение с базой данных и завершаем программу
	logger.Info.Println("Закрываем соединения...")
	database.CloseDB()
	logger.Info.Println("Бот завершает работу")
}

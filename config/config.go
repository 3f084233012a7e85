package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// SupportContact описывает один контакт поддержки, на которого
// строится deep link
type SupportContact struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Config содержит все настройки приложения
type Config struct {
	TelegramToken string `json:"telegram_token"`
	Database      struct {
		Driver   string `json:"driver"` // "postgres" или "sqlite3"
		Host     string `json:"host"`
		Port     int    `json:"port"`
		User     string `json:"user"`
		Password string `json:"password"`
		DBName   string `json:"dbname"`
		SSLMode  string `json:"sslmode"`
		Path     string `json:"path"` // путь к файлу для sqlite3
	} `json:"database"`
	LogFile  string `json:"log_file"`
	Timezone string `json:"timezone"`

	BotVersion string `json:"bot_version"`
	BotUpdated string `json:"bot_updated"`

	SupportContacts  []SupportContact  `json:"support_contacts"`
	LinktreeURL      string            `json:"linktree_url"`
	ScriptLinkDocs   string            `json:"script_link_docs"`
	ScriptLinkIphone string            `json:"script_link_iphone"`
	VideoLinks       map[string]string `json:"video_links"` // ссылки на видео по платформам
	TechPDF          map[string]string `json:"tech_pdf"`    // пути к PDF по сервисам
}

// Глобальная переменная конфигурации
var AppConfig Config

// LoadConfig загружает конфигурацию из файла. Токен бота может быть
// переопределен переменной окружения TELEGRAM_TOKEN; отсутствие токена
// делает запуск невозможным и проверяется здесь, а не в рантайме.
func LoadConfig(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(&AppConfig)
	if err != nil {
		return err
	}

	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		AppConfig.TelegramToken = token
	}
	if AppConfig.TelegramToken == "" {
		return fmt.Errorf("не задан токен бота: укажите telegram_token в конфигурации или TELEGRAM_TOKEN в окружении")
	}

	applyDefaults()
	return nil
}

// applyDefaults заполняет необязательные поля значениями по умолчанию
func applyDefaults() {
	if AppConfig.Database.Driver == "" {
		AppConfig.Database.Driver = "sqlite3"
	}
	if AppConfig.Database.Driver == "sqlite3" && AppConfig.Database.Path == "" {
		AppConfig.Database.Path = "tickets.db"
	}
	if AppConfig.Timezone == "" {
		AppConfig.Timezone = "Europe/Paris"
	}
	if AppConfig.BotVersion == "" {
		AppConfig.BotVersion = "v1.3"
	}
}

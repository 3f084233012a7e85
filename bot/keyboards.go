package bot

import (
	"fmt"

	"techSupportBotGo/config"
	"techSupportBotGo/tickets"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Создаем клавиатуру выбора языка (стартовый экран)
func GetLangKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Français 🇫🇷", "lang_fr"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("English 🇬🇧", "lang_en"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛠 Version", "show_version"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", "show_stats"),
		),
	}

	if link := config.AppConfig.LinktreeURL; link != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🌐 Linktree", link),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Создаем клавиатуру выбора сервиса
func GetTechKeyboard(locale tickets.Locale) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "tech_amazon"), "tech_amazon"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "tech_apple"), "tech_apple"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "tech_refundall"), "tech_refundall"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "btn_home"), "go_home"),
		),
	)
}

// Создаем клавиатуру выбора платформы
func GetPlatformKeyboard(locale tickets.Locale) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "pc"), "platform_pc"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "iphone"), "platform_iphone"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "android"), "platform_android"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "btn_home"), "go_home"),
		),
	)
}

// Создаем клавиатуру действий для выбранной платформы.
// PDF доступен только на PC, ссылка на скрипт зависит от платформы.
func GetActionsKeyboard(locale tickets.Locale, platform tickets.Platform) tgbotapi.InlineKeyboardMarkup {
	cfg := config.AppConfig
	var rows [][]tgbotapi.InlineKeyboardButton

	if platform == tickets.PlatformPC {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "btn_pdf"), "send_pdf"),
		))
	}

	scriptLink := cfg.ScriptLinkDocs
	if platform == tickets.PlatformIPhone {
		scriptLink = cfg.ScriptLinkIphone
	}
	if scriptLink != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(Text(locale, "btn_script"), scriptLink),
		))
	}

	if video, ok := cfg.VideoLinks[string(platform)]; ok && video != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(Text(locale, "btn_video"), video),
		))
	}

	// Кнопки контактов поддержки, по числу контактов в конфигурации
	var supportRow []tgbotapi.InlineKeyboardButton
	for i, contact := range cfg.SupportContacts {
		label := fmt.Sprintf(Text(locale, "btn_support"), contact.DisplayName)
		supportRow = append(supportRow, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("support_%d", i)))
	}
	if len(supportRow) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(supportRow...))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(Text(locale, "btn_home"), "go_home"),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(Text(locale, "btn_back"), "step_platform"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Создаем клавиатуру экрана готового тикета: ссылка на контакт
// поддержки, QR код той же ссылки и возврат в меню
func GetSupportKeyboard(locale tickets.Locale, contactURL string, contactIdx int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(Text(locale, "open_support"), contactURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "btn_qr"), fmt.Sprintf("qr_%d", contactIdx)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "btn_home"), "go_home"),
		),
	)
}

// Создаем простую клавиатуру с возвратом в меню
func GetBackHomeKeyboard(locale tickets.Locale) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(Text(locale, "btn_home"), "go_home"),
		),
	)
}

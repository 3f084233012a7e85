package bot

import (
	"techSupportBotGo/tickets"
)

// Статическая таблица локализованных строк с ключом (локаль, ключ).
// Загружается один раз и после старта не меняется.
var texts = map[tickets.Locale]map[string]string{
	tickets.LocaleFR: {
		"choose_lang":     "Choisissez votre langue :",
		"choose_tech":     "Choisis ton service :",
		"tech_amazon":     "📦 Tech Amazon",
		"tech_apple":      "🍎 Tech Apple",
		"tech_refundall":  "🎁 Tech Refund All (PayPal, Rbnb, PCS…)",
		"choose_platform": "Choisis ta plateforme :",
		"choose_action":   "Choisis ton action :",
		"pc":              "💻 PC",
		"iphone":          "🍎 iPhone",
		"android":         "🤖 Android",

		"btn_pdf":     "📄 PDF",
		"btn_video":   "🎥 Vidéo",
		"btn_script":  "📜 Lien du script",
		"btn_support": "🛠 Support %s",
		"btn_qr":      "📷 QR code",
		"btn_back":    "⬅ Retour",

		"btn_home":    "🏠 Menu principal",
		"btn_version": "🛠 Version du bot",
		"btn_stats":   "📊 Statistiques",

		"support_ready": "🎟 Ticket: %s\nClique ci-dessous pour contacter le support :",
		"support_error": "⚠️ Support temporairement indisponible, réessaie dans un instant.",
		"missing_file":  "❌ Erreur : fichier introuvable.",
		"open_support":  "➡️ Ouvrir le support",
		"qr_caption":    "📷 Scanne ce QR code pour ouvrir le support",

		"version_text": "🛠 *Version du bot*\n\n• Version: `%s`\n• Dernière MAJ: `%s`",
	},
	tickets.LocaleEN: {
		"choose_lang":     "Please choose your language:",
		"choose_tech":     "Choose your service:",
		"tech_amazon":     "📦 Amazon Tech",
		"tech_apple":      "🍎 Apple Tech",
		"tech_refundall":  "🎁 Tech Refund All (PayPal, Rbnb, PCS…)",
		"choose_platform": "Choose your platform:",
		"choose_action":   "Choose your action:",
		"pc":              "💻 PC",
		"iphone":          "🍎 iPhone",
		"android":         "🤖 Android",

		"btn_pdf":     "📄 PDF",
		"btn_video":   "🎥 Video",
		"btn_script":  "📜 Script Link",
		"btn_support": "🛠 %s Support",
		"btn_qr":      "📷 QR code",
		"btn_back":    "⬅ Back",

		"btn_home":    "🏠 Main menu",
		"btn_version": "🛠 Bot version",
		"btn_stats":   "📊 Statistics",

		"support_ready": "🎟 Ticket: %s\nClick below to contact support:",
		"support_error": "⚠️ Support temporarily unavailable, please try again.",
		"missing_file":  "❌ Error: file not found.",
		"open_support":  "➡️ Open support",
		"qr_caption":    "📷 Scan this QR code to open support",

		"version_text": "🛠 *Bot version*\n\n• Version: `%s`\n• Last update: `%s`",
	},
}

// Text возвращает локализованную строку. Неизвестная локаль
// откатывается на французский, как в исходном боте.
func Text(locale tickets.Locale, key string) string {
	table, ok := texts[locale]
	if !ok {
		table = texts[tickets.LocaleFR]
	}
	if s, ok := table[key]; ok {
		return s
	}
	return texts[tickets.LocaleFR][key]
}

package bot

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"techSupportBotGo/config"
	"techSupportBotGo/database"
	"techSupportBotGo/logger"
	"techSupportBotGo/tickets"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/skip2/go-qrcode"
)

// Handler обрабатывает обновления Telegram и ведет пользователя по меню:
// язык -> сервис -> платформа -> действие
type Handler struct {
	api      *tgbotapi.BotAPI
	issuer   *tickets.Issuer
	store    *database.Store
	sessions *tickets.Sessions
	loc      *time.Location
}

// New создает обработчик с внедренными зависимостями
func New(api *tgbotapi.BotAPI, issuer *tickets.Issuer, store *database.Store, sessions *tickets.Sessions, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		api:      api,
		issuer:   issuer,
		store:    store,
		sessions: sessions,
		loc:      loc,
	}
}

// HandleUpdate обрабатывает одно обновление от Telegram API
func (h *Handler) HandleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.handleCallback(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	logger.Info.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			h.handleStart(update.Message)
		default:
			// Неизвестные команды возвращают на стартовый экран
			h.handleStart(update.Message)
		}
	}
}

// Обработчик команды /start: приветствие и выбор языка
func (h *Handler) handleStart(message *tgbotapi.Message) {
	sess := h.sessions.Get(message.From.ID)
	sess.Reset()

	msg := tgbotapi.NewMessage(message.Chat.ID, h.startText())
	msg.ReplyMarkup = GetLangKeyboard()
	SafeSendMessage(h.api, msg)
}

// startText собирает динамическое приветствие с текущим временем по Парижу
func (h *Handler) startText() string {
	now := time.Now().In(h.loc).Format("15:04")
	return fmt.Sprintf("👋 Bienvenue ! Il est %s.\n\nChoisissez votre langue :", now)
}

// handleCallback маршрутизирует нажатия inline-кнопок
func (h *Handler) handleCallback(query *tgbotapi.CallbackQuery) {
	// Подтверждаем нажатие, чтобы у пользователя пропали "часики"
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warning.Printf("Ошибка при подтверждении callback: %v", err)
	}

	if query.Message == nil {
		return
	}

	userID := query.From.ID
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID
	sess := h.sessions.Get(userID)
	data := query.Data

	switch {
	case data == "go_home":
		// Возврат домой сбрасывает выбор и активный тикет
		sess.Reset()
		h.editText(chatID, messageID, h.startText(), GetLangKeyboard())

	case data == "show_version":
		text := fmt.Sprintf(Text(sess.Locale(), "version_text"), config.AppConfig.BotVersion, config.AppConfig.BotUpdated)
		h.editMarkdown(chatID, messageID, text, GetBackHomeKeyboard(sess.Locale()))

	case data == "show_stats":
		h.editMarkdown(chatID, messageID, h.statsText(sess.Locale()), GetBackHomeKeyboard(sess.Locale()))

	case strings.HasPrefix(data, "lang_"):
		locale := tickets.Locale(strings.TrimPrefix(data, "lang_"))
		if !locale.Valid() {
			locale = tickets.LocaleFR
		}
		sess.SetLocale(locale)
		h.editText(chatID, messageID, Text(locale, "choose_tech"), GetTechKeyboard(locale))

	case strings.HasPrefix(data, "tech_"):
		service := tickets.Service(strings.TrimPrefix(data, "tech_"))
		if !service.Valid() {
			logger.Warning.Printf("Неизвестный сервис в callback: %s", data)
			return
		}
		sess.SetService(service)
		h.incrementClick(database.StatTechClicks, string(service))
		h.editText(chatID, messageID, Text(sess.Locale(), "choose_platform"), GetPlatformKeyboard(sess.Locale()))

	case strings.HasPrefix(data, "platform_"):
		platform := tickets.Platform(strings.TrimPrefix(data, "platform_"))
		if !platform.Valid() {
			logger.Warning.Printf("Неизвестная платформа в callback: %s", data)
			return
		}
		sess.SetPlatform(platform)
		h.incrementClick(database.StatPlatformClicks, string(platform))
		h.editText(chatID, messageID, Text(sess.Locale(), "choose_action"), GetActionsKeyboard(sess.Locale(), platform))

	case data == "step_platform":
		// Шаг назад к выбору платформы
		h.editText(chatID, messageID, Text(sess.Locale(), "choose_platform"), GetPlatformKeyboard(sess.Locale()))

	case data == "send_pdf":
		h.sendTechPDF(chatID, sess)

	case strings.HasPrefix(data, "support_"):
		h.handleSupport(chatID, messageID, sess, query, strings.TrimPrefix(data, "support_"))

	case strings.HasPrefix(data, "qr_"):
		h.handleSupportQR(chatID, sess, query, strings.TrimPrefix(data, "qr_"))

	default:
		logger.Warning.Printf("Неизвестный callback: %s", data)
	}
}

// handleSupport выдает (или переиспользует) тикет и показывает ссылку
// на контакт поддержки. Текст обращения кодируется в deep link.
func (h *Handler) handleSupport(chatID int64, messageID int, sess *tickets.Session, query *tgbotapi.CallbackQuery, idxStr string) {
	contact, idx, ok := supportContact(idxStr)
	if !ok {
		logger.Warning.Printf("Некорректный индекс контакта поддержки: %s", idxStr)
		return
	}

	ticket, err := h.issueSupportTicket(sess, query.From.ID, query.From.UserName)
	if err != nil {
		// Пользователь не должен увидеть номер, которого нет в базе
		logger.Error.Printf("Ошибка при выдаче тикета для пользователя %d: %v", query.From.ID, err)
		h.editText(chatID, messageID, Text(sess.Locale(), "support_error"), GetBackHomeKeyboard(sess.Locale()))
		return
	}

	contactURL, err := h.buildContactURL(contact, ticket, sess.Locale())
	if err != nil {
		logger.Error.Printf("Ошибка при сборке ссылки поддержки: %v", err)
		h.editText(chatID, messageID, Text(sess.Locale(), "support_error"), GetBackHomeKeyboard(sess.Locale()))
		return
	}

	text := fmt.Sprintf(Text(sess.Locale(), "support_ready"), ticket.DisplayCode())
	h.editText(chatID, messageID, text, GetSupportKeyboard(sess.Locale(), contactURL, idx))
}

// issueSupportTicket выдает (или переиспользует) тикет для текущего выбора
// сессии. Счетчик обращений растет только после успешной записи тикета:
// неудачный поход в базу не должен искажать статистику.
func (h *Handler) issueSupportTicket(sess *tickets.Session, userID int64, userName string) (*tickets.Ticket, error) {
	service, platform := selectionOrDefault(sess)

	ticket, err := h.issuer.IssueOrReuse(sess, userID, userName, service, platform, sess.Locale())
	if err != nil {
		return nil, err
	}

	h.incrementClick(database.StatSupportRequests, "total")
	return ticket, nil
}

// handleSupportQR отправляет QR код той же ссылки поддержки. Благодаря
// кэшу активного тикета ссылка совпадает с показанной на экране тикета.
func (h *Handler) handleSupportQR(chatID int64, sess *tickets.Session, query *tgbotapi.CallbackQuery, idxStr string) {
	contact, _, ok := supportContact(idxStr)
	if !ok {
		logger.Warning.Printf("Некорректный индекс контакта поддержки: %s", idxStr)
		return
	}

	service, platform := selectionOrDefault(sess)

	ticket, err := h.issuer.IssueOrReuse(sess, query.From.ID, query.From.UserName, service, platform, sess.Locale())
	if err != nil {
		logger.Error.Printf("Ошибка при выдаче тикета для QR: %v", err)
		SendErrorMessage(h.api, chatID, Text(sess.Locale(), "support_error"))
		return
	}

	contactURL, err := h.buildContactURL(contact, ticket, sess.Locale())
	if err != nil {
		logger.Error.Printf("Ошибка при сборке ссылки для QR: %v", err)
		SendErrorMessage(h.api, chatID, Text(sess.Locale(), "support_error"))
		return
	}

	png, err := qrcode.Encode(contactURL, qrcode.Medium, 256)
	if err != nil {
		logger.Error.Printf("Ошибка при генерации QR-кода: %v", err)
		SendErrorMessage(h.api, chatID, Text(sess.Locale(), "support_error"))
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("qr_ticket_%s.png", ticket.DisplayCode()),
		Bytes: png,
	})
	photo.Caption = Text(sess.Locale(), "qr_caption")
	safeSend(h.api, photo)
}

// buildContactURL собирает deep link на контакт поддержки с текстом обращения
func (h *Handler) buildContactURL(contact config.SupportContact, ticket *tickets.Ticket, locale tickets.Locale) (string, error) {
	serviceLabel := Text(locale, "tech_"+string(ticket.Service))
	platformLabel := Text(locale, string(ticket.Platform))
	message := tickets.FormatSupportMessage(ticket, serviceLabel, platformLabel)
	return tickets.BuildContactLink("https://t.me/"+contact.Username, message)
}

// sendTechPDF отправляет PDF инструкцию для выбранного сервиса
func (h *Handler) sendTechPDF(chatID int64, sess *tickets.Session) {
	service, _ := selectionOrDefault(sess)

	filePath := config.AppConfig.TechPDF[string(service)]
	if filePath == "" {
		SendErrorMessage(h.api, chatID, Text(sess.Locale(), "missing_file"))
		return
	}
	if _, err := os.Stat(filePath); err != nil {
		logger.Error.Printf("PDF не найден: %s: %v", filePath, err)
		SendErrorMessage(h.api, chatID, Text(sess.Locale(), "missing_file"))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	safeSend(h.api, doc)
}

// statsText собирает экран статистики: общий счетчик тикетов,
// обращения в поддержку и клики по сервисам и платформам
func (h *Handler) statsText(locale tickets.Locale) string {
	total, err := h.store.CountTickets()
	if err != nil {
		logger.Error.Printf("Ошибка при подсчете тикетов: %v", err)
	}
	stats, err := h.store.GetClickStats()
	if err != nil {
		logger.Error.Printf("Ошибка при чтении статистики кликов: %v", err)
		stats = &database.ClickStats{
			TechClicks:     map[string]int64{},
			PlatformClicks: map[string]int64{},
		}
	}

	if locale == tickets.LocaleEN {
		return fmt.Sprintf(
			"📊 *Statistics*\n\n"+
				"Total tickets (counter): `%d`\n"+
				"Support requests: `%d`\n\n"+
				"*Clicks by Tech*\n"+
				"📦 Amazon: `%d`\n"+
				"🍎 Apple: `%d`\n"+
				"🎁 Refund All: `%d`\n\n"+
				"*Clicks by Platform*\n"+
				"💻 PC: `%d`\n"+
				"🍎 iPhone: `%d`\n"+
				"🤖 Android: `%d`",
			total, stats.SupportRequests,
			stats.TechClicks["amazon"], stats.TechClicks["apple"], stats.TechClicks["refundall"],
			stats.PlatformClicks["pc"], stats.PlatformClicks["iphone"], stats.PlatformClicks["android"],
		)
	}
	return fmt.Sprintf(
		"📊 *Statistiques*\n\n"+
			"Tickets total (compteur): `%d`\n"+
			"Demandes support: `%d`\n\n"+
			"*Clics par Tech*\n"+
			"📦 Amazon: `%d`\n"+
			"🍎 Apple: `%d`\n"+
			"🎁 Refund All: `%d`\n\n"+
			"*Clics par Plateforme*\n"+
			"💻 PC: `%d`\n"+
			"🍎 iPhone: `%d`\n"+
			"🤖 Android: `%d`",
		total, stats.SupportRequests,
		stats.TechClicks["amazon"], stats.TechClicks["apple"], stats.TechClicks["refundall"],
		stats.PlatformClicks["pc"], stats.PlatformClicks["iphone"], stats.PlatformClicks["android"],
	)
}

// incrementClick обновляет счетчик кликов. Статистика не критична,
// поэтому ошибка только логируется.
func (h *Handler) incrementClick(kind, key string) {
	if err := h.store.IncrementClick(kind, key); err != nil {
		logger.Warning.Printf("Не удалось обновить счетчик %s/%s: %v", kind, key, err)
	}
}

// selectionOrDefault возвращает выбор из сессии, подставляя значения
// по умолчанию, как в исходном боте, если меню было пропущено
func selectionOrDefault(sess *tickets.Session) (tickets.Service, tickets.Platform) {
	service := sess.Service()
	if service == "" {
		service = tickets.ServiceRefundAll
	}
	platform := sess.Platform()
	if platform == "" {
		platform = tickets.PlatformPC
	}
	return service, platform
}

// supportContact возвращает контакт поддержки по индексу из callback
func supportContact(idxStr string) (config.SupportContact, int, bool) {
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(config.AppConfig.SupportContacts) {
		return config.SupportContact{}, 0, false
	}
	return config.AppConfig.SupportContacts[idx], idx, true
}

// editText изменяет текст и клавиатуру существующего сообщения
func (h *Handler) editText(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	if _, err := h.api.Send(edit); err != nil {
		logger.Error.Printf("Ошибка при редактировании сообщения: %v", err)
	}
}

// editMarkdown то же, но с разметкой Markdown
func (h *Handler) editMarkdown(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	edit.ParseMode = "Markdown"
	if _, err := h.api.Send(edit); err != nil {
		logger.Error.Printf("Ошибка при редактировании сообщения: %v", err)
	}
}

// SendErrorMessage отправляет сообщение об ошибке
func SendErrorMessage(bot *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	SafeSendMessage(bot, msg)
}

// Вспомогательная функция для безопасной отправки сообщений
func SafeSendMessage(bot *tgbotapi.BotAPI, msg tgbotapi.MessageConfig) {
	if _, err := bot.Send(msg); err != nil {
		logger.Error.Printf("Ошибка при отправке сообщения: %v", err)
	}
}

// Функция для безопасной отправки любого Chattable (документы, фото и т.д.)
func safeSend(bot *tgbotapi.BotAPI, chattable tgbotapi.Chattable) {
	if _, err := bot.Send(chattable); err != nil {
		logger.Error.Printf("Ошибка при отправке: %v", err)
	}
}

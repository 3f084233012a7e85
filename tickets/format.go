package tickets

import (
	"fmt"
	"net/url"
)

// FormatSupportMessage собирает текст обращения в поддержку: номер
// тикета, дата и время по Парижу, выбранные сервис и платформа,
// личность заявителя. Шаблон выбирается по локали тикета.
func FormatSupportMessage(t *Ticket, serviceLabel, platformLabel string) string {
	dateNow := t.CreatedAt.Format("02/01/2006")
	timeNow := t.CreatedAt.Format("15:04")

	if t.Locale == LocaleEN {
		return fmt.Sprintf(
			"🎟 Ticket: %s\n🇬🇧 Support Request\n\nDate: %s\nTime: %s\n\nTech: %s\nPlatform: %s\nUser: %s",
			t.DisplayCode(), dateNow, timeNow, serviceLabel, platformLabel, t.Identity(),
		)
	}
	return fmt.Sprintf(
		"🎟 Ticket: %s\n🇫🇷 Demande Support\n\nDate: %s\nHeure: %s\n\nTech: %s\nPlateforme: %s\nUtilisateur: %s",
		t.DisplayCode(), dateNow, timeNow, serviceLabel, platformLabel, t.Identity(),
	)
}

// BuildContactLink кодирует текст обращения в параметр text базового URL.
// Экранируются все небезопасные для query-компонента символы (пробелы,
// &, #, не-ASCII), так что обратное декодирование возвращает текст
// байт в байт.
func BuildContactLink(baseURL, messageText string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("некорректный базовый URL %q: %w", baseURL, err)
	}

	q := u.Query()
	q.Set("text", messageText)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

package bot

import (
	"errors"
	"path/filepath"
	"testing"

	"techSupportBotGo/database"
	"techSupportBotGo/logger"
	"techSupportBotGo/tickets"
)

// failStore имитирует недоступное хранилище тикетов
type failStore struct{}

func (failStore) CreateTicket(*tickets.Ticket) (int64, error) {
	return 0, errors.New("база недоступна")
}

func (failStore) CountTickets() (int64, error) { return 0, nil }

func TestIssueSupportTicketCountsOnlySuccess(t *testing.T) {
	if err := logger.InitLogger(""); err != nil {
		t.Fatalf("инициализация логера: %v", err)
	}

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("открытие базы: %v", err)
	}
	defer db.Close()
	store := database.NewStore(db, "sqlite3")
	sessions := tickets.NewSessions()
	sess := sessions.Get(1)

	// Хранилище тикетов недоступно: счетчик обращений не растет
	h := New(nil, tickets.NewIssuer(failStore{}, nil), store, sessions, nil)
	if _, err := h.issueSupportTicket(sess, 1, "alice"); err == nil {
		t.Fatal("ожидалась ошибка при недоступном хранилище")
	}
	stats, err := store.GetClickStats()
	if err != nil {
		t.Fatalf("чтение статистики: %v", err)
	}
	if stats.SupportRequests != 0 {
		t.Errorf("после неудачной выдачи счетчик обращений %d, ожидался 0", stats.SupportRequests)
	}

	// Успешная выдача увеличивает счетчик ровно на единицу
	h = New(nil, tickets.NewIssuer(store, nil), store, sessions, nil)
	ticket, err := h.issueSupportTicket(sess, 1, "alice")
	if err != nil {
		t.Fatalf("выдача тикета: %v", err)
	}
	if ticket.DisplayCode() != "0001" {
		t.Errorf("выдан тикет %q, ожидался 0001", ticket.DisplayCode())
	}
	stats, err = store.GetClickStats()
	if err != nil {
		t.Fatalf("чтение статистики: %v", err)
	}
	if stats.SupportRequests != 1 {
		t.Errorf("после успешной выдачи счетчик обращений %d, ожидался 1", stats.SupportRequests)
	}
}

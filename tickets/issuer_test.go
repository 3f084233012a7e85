package tickets_test

import (
	"errors"
	"sync"
	"testing"

	"techSupportBotGo/tickets"
)

// fakeStore реализует tickets.Store в памяти: счетчик под мьютексом,
// при fail=true имитирует недоступное хранилище
type fakeStore struct {
	mu   sync.Mutex
	next int64
	fail bool
}

func (s *fakeStore) CreateTicket(t *tickets.Ticket) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return 0, errors.New("база недоступна")
	}
	s.next++
	return s.next, nil
}

func (s *fakeStore) CountTickets() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next, nil
}

func (s *fakeStore) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func TestDisplayCodePadding(t *testing.T) {
	cases := []struct {
		id   int64
		want string
	}{
		{1, "0001"},
		{42, "0042"},
		{9999, "9999"},
		{10000, "10000"},
		{123456, "123456"},
	}
	for _, c := range cases {
		ticket := &tickets.Ticket{ID: c.id}
		if got := ticket.DisplayCode(); got != c.want {
			t.Errorf("DisplayCode(%d) = %q, ожидалось %q", c.id, got, c.want)
		}
	}
}

func TestIssueOrReuseSameSelection(t *testing.T) {
	store := &fakeStore{}
	issuer := tickets.NewIssuer(store, nil)
	sess := &tickets.Session{}

	first, err := issuer.IssueOrReuse(sess, 100, "alice", tickets.ServiceApple, tickets.PlatformIPhone, tickets.LocaleFR)
	if err != nil {
		t.Fatalf("первая выдача: %v", err)
	}
	second, err := issuer.IssueOrReuse(sess, 100, "alice", tickets.ServiceApple, tickets.PlatformIPhone, tickets.LocaleFR)
	if err != nil {
		t.Fatalf("повторная выдача: %v", err)
	}

	if first != second {
		t.Errorf("повторный клик выдал другой тикет: %d и %d", first.ID, second.ID)
	}
	if count, _ := store.CountTickets(); count != 1 {
		t.Errorf("в хранилище %d записей, ожидалась 1", count)
	}
}

func TestIssueOrReuseNewPlatform(t *testing.T) {
	store := &fakeStore{}
	issuer := tickets.NewIssuer(store, nil)
	sess := &tickets.Session{}
	sess.SetService(tickets.ServiceApple)
	sess.SetPlatform(tickets.PlatformIPhone)

	first, err := issuer.IssueOrReuse(sess, 100, "alice", tickets.ServiceApple, tickets.PlatformIPhone, tickets.LocaleFR)
	if err != nil {
		t.Fatalf("первая выдача: %v", err)
	}

	// Смена платформы инвалидирует активный тикет
	sess.SetPlatform(tickets.PlatformPC)
	second, err := issuer.IssueOrReuse(sess, 100, "alice", tickets.ServiceApple, tickets.PlatformPC, tickets.LocaleFR)
	if err != nil {
		t.Fatalf("выдача после смены платформы: %v", err)
	}

	if first.ID == second.ID {
		t.Errorf("после смены платформы выдан тот же номер %d", first.ID)
	}
	if count, _ := store.CountTickets(); count != 2 {
		t.Errorf("в хранилище %d записей, ожидалось 2", count)
	}
}

func TestIssueOrReuseInvalidSelection(t *testing.T) {
	store := &fakeStore{}
	issuer := tickets.NewIssuer(store, nil)
	sess := &tickets.Session{}

	_, err := issuer.IssueOrReuse(sess, 100, "", "netflix", tickets.PlatformPC, tickets.LocaleFR)
	if !errors.Is(err, tickets.ErrInvalidSelection) {
		t.Fatalf("ожидалась ErrInvalidSelection, получено: %v", err)
	}
	if count, _ := store.CountTickets(); count != 0 {
		t.Errorf("при отклоненном выборе выделен номер, записей: %d", count)
	}
}

func TestIssueOrReuseStorageError(t *testing.T) {
	store := &fakeStore{fail: true}
	issuer := tickets.NewIssuer(store, nil)
	sess := &tickets.Session{}

	_, err := issuer.IssueOrReuse(sess, 100, "", tickets.ServiceAmazon, tickets.PlatformPC, tickets.LocaleEN)
	if !errors.Is(err, tickets.ErrStorageUnavailable) {
		t.Fatalf("ожидалась ErrStorageUnavailable, получено: %v", err)
	}

	// Повтор после восстановления хранилища должен пройти и ничего
	// не взять из кэша от неудачной попытки
	store.setFail(false)
	ticket, err := issuer.IssueOrReuse(sess, 100, "", tickets.ServiceAmazon, tickets.PlatformPC, tickets.LocaleEN)
	if err != nil {
		t.Fatalf("повтор после восстановления: %v", err)
	}
	if ticket.ID != 1 {
		t.Errorf("после восстановления выдан номер %d, ожидался 1", ticket.ID)
	}
}

func TestIssueOrReuseConcurrentSessions(t *testing.T) {
	store := &fakeStore{}
	issuer := tickets.NewIssuer(store, nil)

	const n = 16
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			sess := &tickets.Session{}
			ticket, err := issuer.IssueOrReuse(sess, userID, "", tickets.ServiceRefundAll, tickets.PlatformAndroid, tickets.LocaleFR)
			if err != nil {
				t.Errorf("выдача для пользователя %d: %v", userID, err)
				return
			}
			ids <- ticket.ID
		}(int64(i))
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		if id <= 0 {
			t.Errorf("выдан неположительный номер %d", id)
		}
		if seen[id] {
			t.Errorf("номер %d выдан дважды", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("получено %d уникальных номеров, ожидалось %d", len(seen), n)
	}
}

// Два клика по поддержке могут прийти почти одновременно: каждый апдейт
// обрабатывается в своей горутине. Без смены выбора все должны получить
// один и тот же номер, а в хранилище остаться одна запись.
func TestIssueOrReuseConcurrentSameSession(t *testing.T) {
	store := &fakeStore{}
	issuer := tickets.NewIssuer(store, nil)
	sess := &tickets.Session{}

	const n = 8
	start := make(chan struct{})
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ticket, err := issuer.IssueOrReuse(sess, 100, "alice", tickets.ServiceApple, tickets.PlatformIPhone, tickets.LocaleFR)
			if err != nil {
				t.Errorf("одновременная выдача: %v", err)
				return
			}
			ids <- ticket.ID
		}()
	}
	close(start)
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != 1 {
		t.Errorf("одновременные клики без смены выбора выдали %d разных номеров", len(seen))
	}
	if count, _ := store.CountTickets(); count != 1 {
		t.Errorf("в хранилище %d записей, ожидалась 1", count)
	}
}

func TestSessionResetInvalidatesTicket(t *testing.T) {
	store := &fakeStore{}
	issuer := tickets.NewIssuer(store, nil)
	sess := &tickets.Session{}

	first, err := issuer.IssueOrReuse(sess, 7, "", tickets.ServiceApple, tickets.PlatformPC, tickets.LocaleFR)
	if err != nil {
		t.Fatalf("первая выдача: %v", err)
	}

	// Возврат "домой" сбрасывает выбор и активный тикет
	sess.Reset()
	second, err := issuer.IssueOrReuse(sess, 7, "", tickets.ServiceApple, tickets.PlatformPC, tickets.LocaleFR)
	if err != nil {
		t.Fatalf("выдача после сброса: %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("после сброса сессии выдан тот же номер %d", first.ID)
	}
}

func TestSessionLocaleChangeDropsTicket(t *testing.T) {
	store := &fakeStore{}
	issuer := tickets.NewIssuer(store, nil)
	sess := &tickets.Session{}

	first, _ := issuer.IssueOrReuse(sess, 7, "", tickets.ServiceApple, tickets.PlatformPC, tickets.LocaleFR)
	sess.SetLocale(tickets.LocaleEN)
	second, _ := issuer.IssueOrReuse(sess, 7, "", tickets.ServiceApple, tickets.PlatformPC, tickets.LocaleEN)

	if first.ID == second.ID {
		t.Errorf("после смены языка выдан тот же номер %d", first.ID)
	}
}

// Сценарий из жизни: клик по поддержке, повторный клик, смена платформы
func TestSupportClickScenario(t *testing.T) {
	store := &fakeStore{}
	issuer := tickets.NewIssuer(store, nil)
	sess := &tickets.Session{}
	sess.SetService(tickets.ServiceApple)
	sess.SetPlatform(tickets.PlatformIPhone)

	first, err := issuer.IssueOrReuse(sess, 55, "bob", tickets.ServiceApple, tickets.PlatformIPhone, tickets.LocaleFR)
	if err != nil {
		t.Fatalf("первый клик: %v", err)
	}
	if first.DisplayCode() != "0001" {
		t.Errorf("первый тикет %q, ожидался 0001", first.DisplayCode())
	}

	again, err := issuer.IssueOrReuse(sess, 55, "bob", tickets.ServiceApple, tickets.PlatformIPhone, tickets.LocaleFR)
	if err != nil {
		t.Fatalf("повторный клик: %v", err)
	}
	if again.DisplayCode() != "0001" {
		t.Errorf("повторный клик выдал %q, ожидался 0001", again.DisplayCode())
	}
	if count, _ := store.CountTickets(); count != 1 {
		t.Errorf("после повторного клика записей %d, ожидалась 1", count)
	}

	sess.SetPlatform(tickets.PlatformPC)
	next, err := issuer.IssueOrReuse(sess, 55, "bob", tickets.ServiceApple, tickets.PlatformPC, tickets.LocaleFR)
	if err != nil {
		t.Fatalf("клик после смены платформы: %v", err)
	}
	if next.DisplayCode() != "0002" {
		t.Errorf("после смены платформы выдан %q, ожидался 0002", next.DisplayCode())
	}
	if count, _ := store.CountTickets(); count != 2 {
		t.Errorf("итоговое число записей %d, ожидалось 2", count)
	}
}

func TestSessionsRegistry(t *testing.T) {
	reg := tickets.NewSessions()

	a := reg.Get(1)
	b := reg.Get(1)
	if a != b {
		t.Error("повторный Get вернул другую сессию")
	}

	reg.Drop(1)
	c := reg.Get(1)
	if a == c {
		t.Error("после Drop вернулась старая сессия")
	}
}

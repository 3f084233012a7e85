package tickets

import (
	"fmt"
	"time"
)

// Store описывает долговременное хранилище тикетов. Выделение номера и запись
// тикета объединены в одну атомарную вставку с автоинкрементом: номер,
// который вернул CreateTicket, гарантированно записан и никогда не
// будет выдан повторно, даже после перезапуска процесса. Пропуски в
// нумерации допустимы, дубликаты недопустимы.
type Store interface {
	// CreateTicket записывает тикет и возвращает выделенный номер.
	// При ошибке хранилища номер не расходуется.
	CreateTicket(t *Ticket) (int64, error)

	// CountTickets возвращает количество выданных тикетов.
	// Только для отчетности: следующий номер по нему предсказывать нельзя.
	CountTickets() (int64, error)
}

// Issuer выдает тикеты поддержки: либо возвращает уже активный тикет
// для того же выбора, либо выделяет новый номер через хранилище
type Issuer struct {
	store Store
	loc   *time.Location
}

// NewIssuer создает сервис выдачи тикетов. loc задает часовой пояс,
// в котором фиксируется время создания (у нас Europe/Paris).
func NewIssuer(store Store, loc *time.Location) *Issuer {
	if loc == nil {
		loc = time.UTC
	}
	return &Issuer{store: store, loc: loc}
}

// IssueOrReuse возвращает тикет для текущего выбора пользователя.
// Повторный клик по поддержке без смены выбора возвращает тот же тикет
// и не создает новой записи. Смена сервиса или платформы приводит к
// выдаче нового номера.
func (i *Issuer) IssueOrReuse(sess *Session, requesterID int64, requesterHandle string, service Service, platform Platform, locale Locale) (*Ticket, error) {
	if !service.Valid() || !platform.Valid() {
		return nil, fmt.Errorf("%w: service=%q platform=%q", ErrInvalidSelection, service, platform)
	}
	if !locale.Valid() {
		locale = LocaleFR
	}

	// Мьютекс сессии держится на всю связку "кэш, выделение, запись в
	// кэш": два одновременных клика одного пользователя сериализуются
	// здесь, и второй получает тикет первого вместо нового номера
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if t := sess.activeTicketLocked(service, platform); t != nil {
		return t, nil
	}

	t := &Ticket{
		CreatedAt:       time.Now().In(i.loc),
		RequesterID:     requesterID,
		RequesterHandle: requesterHandle,
		Locale:          locale,
		Service:         service,
		Platform:        platform,
	}

	id, err := i.store.CreateTicket(t)
	if err != nil {
		// Тикет не выдан и не закэширован, повтор безопасен
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	t.ID = id

	sess.cacheTicketLocked(t, service, platform)
	return t, nil
}

package tickets

import "sync"

// Session хранит текущий выбор пользователя в меню и кэш активного тикета.
// Сессия живет только в памяти: после перезапуска пользователь просто
// получит новый тикет при следующем клике, данные не портятся.
//
// Обновления одного пользователя могут обрабатываться в параллельных
// горутинах (два быстрых клика подряд), поэтому все обращения к сессии
// идут под ее мьютексом. Issuer держит этот же мьютекс на всю связку
// "проверить кэш, выделить номер, закэшировать", иначе оба клика
// промахнутся мимо кэша и получат по тикету.
type Session struct {
	mu sync.Mutex

	locale   Locale
	service  Service
	platform Platform

	// Кэш активного тикета вместе с выбором, для которого он был выдан.
	// Любая смена сервиса или платформы кэш сбрасывает.
	active         *Ticket
	activeService  Service
	activePlatform Platform
}

// Locale возвращает текущий язык сессии
func (s *Session) Locale() Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// Service возвращает выбранный сервис
func (s *Session) Service() Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.service
}

// Platform возвращает выбранную платформу
func (s *Session) Platform() Platform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.platform
}

// SetLocale запоминает язык и сбрасывает активный тикет
func (s *Session) SetLocale(locale Locale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = locale
	s.invalidateLocked()
}

// SetService запоминает выбранный сервис. Смена сервиса делает
// закэшированный тикет недействительным.
func (s *Session) SetService(service Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.service = service
	s.invalidateLocked()
}

// SetPlatform запоминает выбранную платформу. Смена платформы делает
// закэшированный тикет недействительным.
func (s *Session) SetPlatform(platform Platform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.platform = platform
	s.invalidateLocked()
}

// Reset возвращает сессию в начальное состояние (кнопка "домой")
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.service = ""
	s.platform = ""
	s.invalidateLocked()
}

// Invalidate сбрасывает кэш активного тикета
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked()
}

func (s *Session) invalidateLocked() {
	s.active = nil
	s.activeService = ""
	s.activePlatform = ""
}

// ActiveTicket возвращает закэшированный тикет, только если он был выдан
// ровно для этой пары (сервис, платформа). Любое несовпадение считается
// промахом.
func (s *Session) ActiveTicket(service Service, platform Platform) *Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTicketLocked(service, platform)
}

func (s *Session) activeTicketLocked(service Service, platform Platform) *Ticket {
	if s.active == nil {
		return nil
	}
	if s.activeService != service || s.activePlatform != platform {
		return nil
	}
	return s.active
}

// cacheTicketLocked безусловно перезаписывает кэш активного тикета.
// Вызывается только под s.mu.
func (s *Session) cacheTicketLocked(t *Ticket, service Service, platform Platform) {
	s.active = t
	s.activeService = service
	s.activePlatform = platform
}

// Sessions хранит сессии всех пользователей, карта защищена
// собственным мьютексом
type Sessions struct {
	mu     sync.Mutex
	byUser map[int64]*Session
}

// NewSessions создает пустой реестр сессий
func NewSessions() *Sessions {
	return &Sessions{byUser: make(map[int64]*Session)}
}

// Get возвращает сессию пользователя, создавая её при первом обращении
func (r *Sessions) Get(userID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.byUser[userID]
	if !ok {
		sess = &Session{locale: LocaleFR}
		r.byUser[userID] = sess
	}
	return sess
}

// Drop удаляет сессию пользователя целиком
func (r *Sessions) Drop(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
}

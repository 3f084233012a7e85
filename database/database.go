package database

import (
	"database/sql"
	"fmt"
	"time"

	"techSupportBotGo/config"
	"techSupportBotGo/logger"
	"techSupportBotGo/tickets"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Глобальное соединение, закрывается в main при завершении работы
var DB *sql.DB

// Схема хранилища. Автоинкрементный первичный ключ tickets.id и есть
// счетчик номеров: вставка выделяет следующий номер атомарно, без окна
// между чтением и записью. В SQLite ключевое слово AUTOINCREMENT
// запрещает повторное использование номеров даже после удаления строк.
var schemas = map[string][]string{
	"postgres": {
		`CREATE TABLE IF NOT EXISTS tickets (
			id BIGSERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			requester_id BIGINT NOT NULL,
			requester_handle TEXT NOT NULL DEFAULT '',
			locale TEXT NOT NULL,
			service TEXT NOT NULL,
			platform TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS click_stats (
			kind TEXT NOT NULL,
			key TEXT NOT NULL,
			clicks BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (kind, key)
		)`,
	},
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS tickets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TIMESTAMP NOT NULL,
			requester_id INTEGER NOT NULL,
			requester_handle TEXT NOT NULL DEFAULT '',
			locale TEXT NOT NULL,
			service TEXT NOT NULL,
			platform TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS click_stats (
			kind TEXT NOT NULL,
			key TEXT NOT NULL,
			clicks INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (kind, key)
		)`,
	},
}

// Connect открывает соединение согласно конфигурации и инициализирует схему
func Connect() error {
	dbConfig := config.AppConfig.Database

	var err error
	switch dbConfig.Driver {
	case "sqlite3":
		DB, err = OpenSQLite(dbConfig.Path)
	case "postgres":
		connStr := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dbConfig.Host, dbConfig.Port, dbConfig.User,
			dbConfig.Password, dbConfig.DBName, dbConfig.SSLMode,
		)
		DB, err = OpenPostgres(connStr)
	default:
		return fmt.Errorf("неизвестный драйвер базы данных: %q", dbConfig.Driver)
	}
	if err != nil {
		return err
	}

	logger.Info.Printf("База данных готова (драйвер: %s)", dbConfig.Driver)
	return nil
}

// OpenPostgres открывает Postgres с настройками пула соединений
func OpenPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := InitSchema(db, "postgres"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite открывает файловую базу SQLite. Одно соединение в пуле
// сериализует всех писателей, busy_timeout страхует от SQLITE_BUSY
// при внешних читателях файла.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path + "?_busy_timeout=5000&_journal_mode=WAL"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := InitSchema(db, "sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitSchema создает таблицы, если их еще нет
func InitSchema(db *sql.DB, driver string) error {
	stmts, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("нет схемы для драйвера %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ошибка инициализации схемы: %w", err)
		}
	}
	return nil
}

// CloseDB закрывает глобальное соединение
func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}

// Виды счетчиков кликов
const (
	StatSupportRequests = "support_requests"
	StatTechClicks      = "tech_clicks"
	StatPlatformClicks  = "platform_clicks"
)

// ClickStats содержит накопленные счетчики кликов для экрана статистики
type ClickStats struct {
	SupportRequests int64
	TechClicks      map[string]int64
	PlatformClicks  map[string]int64
}

// Store реализует tickets.Store поверх database/sql. Хранилище
// передается явно, а не через глобальную переменную, чтобы ядро выдачи
// тикетов можно было проверять изолированно.
type Store struct {
	db     *sql.DB
	driver string
}

// NewStore создает хранилище поверх открытого соединения
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// CreateTicket записывает тикет и возвращает выделенный автоинкрементом
// номер. Вставка атомарна по отношению к конкурентным вызовам: два
// клиента никогда не получат один номер.
func (s *Store) CreateTicket(t *tickets.Ticket) (int64, error) {
	if s.driver == "postgres" {
		var id int64
		err := s.db.QueryRow(
			`INSERT INTO tickets (created_at, requester_id, requester_handle, locale, service, platform)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			t.CreatedAt, t.RequesterID, t.RequesterHandle,
			string(t.Locale), string(t.Service), string(t.Platform),
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("ошибка при создании тикета: %w", err)
		}
		return id, nil
	}

	res, err := s.db.Exec(
		`INSERT INTO tickets (created_at, requester_id, requester_handle, locale, service, platform)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.CreatedAt, t.RequesterID, t.RequesterHandle,
		string(t.Locale), string(t.Service), string(t.Platform),
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании тикета: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении номера тикета: %w", err)
	}
	return id, nil
}

// CountTickets возвращает количество выданных тикетов
func (s *Store) CountTickets() (int64, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM tickets`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчете тикетов: %w", err)
	}
	return count, nil
}

// GetTicketByID возвращает тикет по номеру
func (s *Store) GetTicketByID(id int64) (*tickets.Ticket, error) {
	t := &tickets.Ticket{}
	var locale, service, platform string
	err := s.db.QueryRow(
		`SELECT id, created_at, requester_id, requester_handle, locale, service, platform
		FROM tickets WHERE id = $1`, id,
	).Scan(&t.ID, &t.CreatedAt, &t.RequesterID, &t.RequesterHandle, &locale, &service, &platform)
	if err != nil {
		return nil, err
	}
	t.Locale = tickets.Locale(locale)
	t.Service = tickets.Service(service)
	t.Platform = tickets.Platform(platform)
	return t, nil
}

// IncrementClick увеличивает счетчик кликов на единицу. Счетчики
// кликов не претендуют на точность: потеря
// инкремента при сбое допустима, падать из-за нее нельзя.
func (s *Store) IncrementClick(kind, key string) error {
	// Синтаксис upsert одинаков в Postgres и SQLite
	_, err := s.db.Exec(
		`INSERT INTO click_stats (kind, key, clicks) VALUES ($1, $2, 1)
		ON CONFLICT (kind, key) DO UPDATE SET clicks = click_stats.clicks + 1`,
		kind, key,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении счетчика %s/%s: %w", kind, key, err)
	}
	return nil
}

// GetClickStats возвращает все накопленные счетчики кликов
func (s *Store) GetClickStats() (*ClickStats, error) {
	rows, err := s.db.Query(`SELECT kind, key, clicks FROM click_stats`)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении статистики: %w", err)
	}
	defer rows.Close()

	stats := &ClickStats{
		TechClicks:     make(map[string]int64),
		PlatformClicks: make(map[string]int64),
	}

	for rows.Next() {
		var kind, key string
		var clicks int64
		if err := rows.Scan(&kind, &key, &clicks); err != nil {
			return nil, err
		}
		switch kind {
		case StatSupportRequests:
			stats.SupportRequests = clicks
		case StatTechClicks:
			stats.TechClicks[key] = clicks
		case StatPlatformClicks:
			stats.PlatformClicks[key] = clicks
		}
	}

	return stats, rows.Err()
}

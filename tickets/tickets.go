package tickets

import (
	"errors"
	"fmt"
	"time"
)

// Locale определяет язык отображения. На семантику тикета не влияет.
type Locale string

const (
	LocaleFR Locale = "fr"
	LocaleEN Locale = "en"
)

// Valid проверяет, что локаль входит в закрытый список
func (l Locale) Valid() bool {
	return l == LocaleFR || l == LocaleEN
}

// Service задает сервис, по которому запрашивается поддержка
type Service string

const (
	ServiceAmazon    Service = "amazon"
	ServiceApple     Service = "apple"
	ServiceRefundAll Service = "refundall"
)

// Valid проверяет, что сервис входит в закрытый список
func (s Service) Valid() bool {
	switch s {
	case ServiceAmazon, ServiceApple, ServiceRefundAll:
		return true
	}
	return false
}

// Platform задает платформу пользователя
type Platform string

const (
	PlatformPC      Platform = "pc"
	PlatformIPhone  Platform = "iphone"
	PlatformAndroid Platform = "android"
)

// Valid проверяет, что платформа входит в закрытый список
func (p Platform) Valid() bool {
	switch p {
	case PlatformPC, PlatformIPhone, PlatformAndroid:
		return true
	}
	return false
}

// Ошибки ядра выдачи тикетов
var (
	// ErrInvalidSelection: сервис или платформа вне закрытого списка.
	// Ошибка вызывающего кода, не повторяется автоматически.
	ErrInvalidSelection = errors.New("некорректный выбор сервиса или платформы")

	// ErrStorageUnavailable: хранилище недоступно, тикет не выдан.
	// Повтор запроса безопасен: номер при ошибке не расходуется.
	ErrStorageUnavailable = errors.New("хранилище тикетов недоступно")
)

// Ticket представляет долговременную запись одного обращения в поддержку.
// Пара (Service, Platform) после создания не меняется.
type Ticket struct {
	ID              int64
	CreatedAt       time.Time
	RequesterID     int64
	RequesterHandle string // пустая строка, если у пользователя нет username
	Locale          Locale
	Service         Service
	Platform        Platform
}

// DisplayCode возвращает номер тикета с ведущими нулями до ширины 4.
// Ширина минимальная, не обрезающая: 10000 отображается как "10000".
func (t *Ticket) DisplayCode() string {
	return fmt.Sprintf("%04d", t.ID)
}

// Identity возвращает отображаемую личность заявителя:
// @username, либо числовой ID, когда username не задан
func (t *Ticket) Identity() string {
	if t.RequesterHandle != "" {
		return "@" + t.RequesterHandle
	}
	return fmt.Sprintf("User ID: %d", t.RequesterID)
}

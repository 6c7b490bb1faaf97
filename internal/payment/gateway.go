// Package payment описывает контракт платёжного шлюза и проверку его уведомлений.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotConfigured — шлюз не настроен (нет токена доступа).
var ErrNotConfigured = errors.New("payment gateway is not configured")

// ErrInvalidPaymentID — идентификатор платежа не в формате шлюза.
var ErrInvalidPaymentID = errors.New("invalid payment id")

// Статусы платежа на стороне шлюза.
const (
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// AutoReturnApproved — шлюз сам возвращает плательщика на success после одобрения.
const AutoReturnApproved = "approved"

// Item — позиция заказа.
type Item struct {
	ID          string
	Title       string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	CurrencyID  string
}

// Payer — данные плательщика.
type Payer struct {
	Name  string
	Email string
}

// BackURLs — адреса возврата плательщика после оплаты.
type BackURLs struct {
	Success string
	Failure string
	Pending string
}

// PreferenceRequest — запрос на создание платёжной сессии (preference).
type PreferenceRequest struct {
	Items             []Item
	Payer             Payer
	BackURLs          BackURLs
	AutoReturn        string
	ExternalReference string
	NotificationURL   string
}

// Preference — созданная платёжная сессия.
type Preference struct {
	ID        string
	InitPoint string
}

// PaymentInfo — состояние платежа в шлюзе.
type PaymentInfo struct {
	ID                string
	Status            string
	ExternalReference string
}

// Gateway — платёжный шлюз.
type Gateway interface {
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}

// Disabled — шлюз-заглушка для запуска без токена: любые вызовы возвращают ErrNotConfigured.
type Disabled struct{}

func (Disabled) CreatePreference(context.Context, PreferenceRequest) (*Preference, error) {
	return nil, ErrNotConfigured
}

func (Disabled) GetPayment(context.Context, string) (*PaymentInfo, error) {
	return nil, ErrNotConfigured
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus — статус оплаты поддержки.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Terminal сообщает, что статус больше не меняется.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

// Support — денежная поддержка от (возможно анонимного) пользователя получателю.
type Support struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SupporterID *string `gorm:"index;type:varchar(36)" json:"supporter_id"`
	RecipientID string  `gorm:"not null;index;type:varchar(36)" json:"recipient_id"`

	// nil — поддержка всех элементов получателя
	TargetKind   *ItemKind `gorm:"type:varchar(16)" json:"target_kind"`
	TargetItemID *string   `gorm:"type:varchar(36)" json:"target_item_id"`

	Message       string          `gorm:"not null;type:varchar(280)" json:"message"`
	DurationDays  int             `gorm:"not null" json:"duration_days"`
	Amount        decimal.Decimal `gorm:"not null;type:numeric(12,2)" json:"amount"`
	SupporterName *string         `json:"supporter_name"`
	HideAmount    bool            `gorm:"not null" json:"hide_amount"`

	PaymentStatus      PaymentStatus `gorm:"not null;type:varchar(16);index" json:"payment_status"`
	PaymentReferenceID *string       `gorm:"uniqueIndex;type:varchar(64)" json:"payment_reference_id"`
	Completed          bool          `gorm:"not null" json:"completed"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AmountVisible — сумма видна публично, если не скрыта или цель выполнена.
func (s *Support) AmountVisible() bool {
	return !s.HideAmount || s.Completed
}

// PartySummary — публичные поля второй стороны поддержки.
type PartySummary struct {
	Name     string  `json:"name"`
	Username string  `json:"username"`
	ImageURL *string `json:"image_url"`
}

// TargetSummary — название и иконка поддержанного элемента.
type TargetSummary struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// SupportDetail — поддержка вместе с данными отправителя или получателя и элемента.
// В списке полученных заполняется Supporter, в списке отправленных Recipient.
type SupportDetail struct {
	Support
	Supporter *PartySummary  `json:"supporter,omitempty"`
	Recipient *PartySummary  `json:"recipient,omitempty"`
	Target    *TargetSummary `json:"target,omitempty"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind — вид отслеживаемого элемента.
type ItemKind string

const (
	KindAddiction ItemKind = "addiction"
	KindGoal      ItemKind = "goal"
)

// Valid сообщает, известен ли вид элемента.
func (k ItemKind) Valid() bool {
	return k == KindAddiction || k == KindGoal
}

// Tracking — накопительные поля, общие для зависимостей и целей.
type Tracking struct {
	CheckIns int  `gorm:"not null;default:0" json:"check_ins"`
	Streak   int  `gorm:"not null;default:0" json:"streak"`
	Progress int  `gorm:"not null;default:0" json:"progress"` // 0..100
	Visible  bool `gorm:"not null" json:"visible"`
}

// Addiction — привычка, от которой пользователь отказывается.
type Addiction struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID string `gorm:"not null;index;type:varchar(36)" json:"user_id"`

	Name      string          `gorm:"not null" json:"name"`
	Icon      AddictionIcon   `gorm:"not null;type:varchar(32)" json:"icon"`
	DailyCost decimal.Decimal `gorm:"not null;type:numeric(12,2)" json:"daily_cost"`
	GoalDays  int             `gorm:"not null" json:"goal_days"`

	Tracking `gorm:"embedded"`
	Saved    decimal.Decimal `gorm:"not null;type:numeric(12,2)" json:"saved"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Goal — привычка, которую пользователь вырабатывает.
type Goal struct {
	ID     string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID string `gorm:"not null;index;type:varchar(36)" json:"user_id"`

	Name        string          `gorm:"not null" json:"name"`
	Icon        GoalIcon        `gorm:"not null;type:varchar(32)" json:"icon"`
	Description *string         `gorm:"type:varchar(500)" json:"description"`
	DailyTarget decimal.Decimal `gorm:"not null;type:numeric(12,2)" json:"daily_target"`
	GoalDays    int             `gorm:"not null" json:"goal_days"`

	Tracking `gorm:"embedded"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

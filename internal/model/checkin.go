package model

import "time"

// DayLayout — формат календарного дня отметки.
const DayLayout = time.DateOnly

// CheckIn — отметка за календарный день. Одна на (item_id, day).
type CheckIn struct {
	ID       uint     `gorm:"primaryKey" json:"-"`
	ItemID   string   `gorm:"not null;type:varchar(36);uniqueIndex:idx_check_ins_item_day" json:"item_id"`
	ItemKind ItemKind `gorm:"not null;type:varchar(16)" json:"item_kind"`
	UserID   string   `gorm:"not null;index;type:varchar(36)" json:"user_id"`
	Day      string   `gorm:"not null;type:varchar(10);uniqueIndex:idx_check_ins_item_day" json:"day"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DayOf возвращает календарный день t в его собственной локации.
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

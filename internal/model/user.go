package model

import "time"

// User — серверная модель пользователя.
type User struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Login    string `gorm:"not null;uniqueIndex" json:"-"`
	Password string `gorm:"not null" json:"-"` // bcrypt-хеш

	Name     string  `gorm:"not null" json:"name"`
	Username string  `gorm:"not null;uniqueIndex" json:"username"`
	Age      int     `json:"age"`
	City     string  `json:"city"`
	Bio      *string `json:"bio"`
	ImageURL *string `json:"image_url"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

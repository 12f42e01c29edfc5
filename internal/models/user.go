package models

import (
	"time"
)

// User is an account that can authenticate against the API. Only active
// staff users may obtain tokens and write content.
type User struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `json:"-"`

	IsActive bool `gorm:"not null" json:"is_active"`
	IsStaff  bool `gorm:"not null" json:"is_staff"`
}

// CanEdit reports whether the user may obtain tokens and modify content
func (u User) CanEdit() bool {
	return u.IsActive && u.IsStaff
}

package models

import "time"

type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null;default:''" json:"-"`
	Name         *string   `json:"name,omitempty"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanLogin is false for guest accounts created from external booking requests.
func (u *User) CanLogin() bool {
	return u.PasswordHash != ""
}

package entity

import (
	"time"

	"github.com/ferreteria/ordenes-api/internal/domain/enum"
)

// User represents an operator of the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:120;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Salt         *string   `gorm:"size:64" json:"-"` // only set for legacy sha256 accounts
	DisplayName  *string   `gorm:"size:255" json:"display_name,omitempty"`
	Role         enum.Role `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == enum.RoleAdmin
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Role values for staff accounts.
const (
	RoleAdmin          = "Admin"
	RoleProjectManager = "Project Manager"
	RoleViewOnly       = "View Only"
)

// ValidRole reports whether role is one of the enumerated staff roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProjectManager, RoleViewOnly:
		return true
	}
	return false
}

// User is the canonical staff identity record.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`
	Username     string     `gorm:"type:text;not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string     `gorm:"type:text;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string     `gorm:"column:first_name" json:"first_name"`
	LastName     string     `gorm:"column:last_name" json:"last_name"`
	Role         string     `gorm:"column:role;not null;default:'View Only'" json:"role"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at" json:"last_login,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

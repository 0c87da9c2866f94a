// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"
)

// User is a marketplace account. Accounts are managed by the identity
// service; this table only backs development seeding and token minting.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password  string    `gorm:"not null;size:255" json:"-"` // bcrypt hash
	FullName  string    `gorm:"size:200" json:"full_name"`
	Role      string    `gorm:"not null;size:20;default:'customer'" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

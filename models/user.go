package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values accepted for User.Role.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User represents a forum user. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        *string   `gorm:"size:255;uniqueIndex" json:"email"`
	Organization string    `gorm:"size:255" json:"organization"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	Threads      []Thread  `json:"-"`
	Comments     []Comment `json:"-"`
	Votes        []Vote    `json:"-"`
}

// BeforeCreate fills defaults that must hold even when callers leave them zero.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsStaffRole reports whether a role may act on content its holder does
// not own.
func IsStaffRole(role string) bool {
	return role == RoleAdmin || role == RoleModerator
}

// IsStaff reports whether the user may act on content they do not own.
func (u *User) IsStaff() bool {
	return IsStaffRole(u.Role)
}

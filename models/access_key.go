package models

import "time"

// AccessKey is a single-use invitation token. When invite-gated registration
// is enabled, /register must present an unused key; the key is then bound to
// the created user and marked used.
type AccessKey struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Key       string    `gorm:"size:64;not null;uniqueIndex" json:"key"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

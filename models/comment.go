package models

import "time"

// Comment represents a reply inside a thread. ParentCommentID links replies
// into a tree; clients rebuild the nesting from the flat list.
type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ThreadID        uint      `gorm:"index;not null" json:"thread_id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id"`
	CreatedAt       time.Time `json:"created_at"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

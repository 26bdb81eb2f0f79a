package models

import "time"

// Attachment file type tags.
const (
	FileTypeImage = "image"
	FileTypeVideo = "video"
	FileTypeModel = "3d_model"
	FileTypePDF   = "pdf"
)

// Attachment is a stored file belonging to one thread. The blob itself lives
// on disk; FileURL is the public path it is served from.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ThreadID    uint      `gorm:"index;not null" json:"thread_id"`
	FileURL     string    `gorm:"size:1024;not null" json:"file_url"`
	FileType    string    `gorm:"size:32;not null" json:"file_type"`
	Description string    `gorm:"size:512" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Thread Thread `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

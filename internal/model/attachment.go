package model

import (
	"time"

	"github.com/google/uuid"
)

// Attachment holds file metadata only; byte storage lives elsewhere.
type Attachment struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TaskID     uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	Filename   string    `gorm:"not null" json:"filename"`
	URL        string    `gorm:"not null" json:"url"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Uploader *User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

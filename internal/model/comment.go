package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an append-only child of a task, stamped with its author.
type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Text      string    `gorm:"not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

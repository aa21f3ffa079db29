package model

import (
	"time"

	"github.com/google/uuid"
)

// LogEntry is a structured audit record. It stores what happened as
// discrete fields; turning an entry into a sentence is the presentation
// layer's job.
type LogEntry struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ActorID   uuid.UUID  `gorm:"type:uuid;not null" json:"actor_id"`
	Verb      string     `gorm:"not null" json:"verb"`
	Field     string     `json:"field,omitempty"`
	OldValue  string     `json:"old_value,omitempty"`
	NewValue  string     `json:"new_value,omitempty"`
	Detail    string     `json:"detail,omitempty"`
	TaskID    *uuid.UUID `gorm:"type:uuid;index" json:"task_id,omitempty"`
	TaskTitle string     `json:"task_title,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

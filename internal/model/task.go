package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the board column a task lives in.
type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// IsReservedTitle reports whether the given title collides with a status
// label. Such titles are rejected at creation and on rename.
func IsReservedTitle(title string) bool {
	return Status(title).Valid()
}

// Priority is stored as an ordinal: 0 low, 1 medium, 2 high.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityLabels = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
}

// Label renders the priority through the fixed ordinal table. Unknown
// ordinals produce an empty label.
func (p Priority) Label() string {
	return priorityLabels[p]
}

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string     `gorm:"uniqueIndex;not null" json:"title"`
	Description string     `json:"description"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'Todo'" json:"status"`
	Priority    Priority   `gorm:"not null;default:0" json:"priority"`
	AssignedTo  *uuid.UUID `gorm:"type:uuid" json:"assigned_to"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	DueDate     *time.Time `json:"due_date"`
	Version     int        `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Assignee    *User        `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Creator     *User        `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Comments    []Comment    `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

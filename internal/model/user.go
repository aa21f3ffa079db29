package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Name           string    `gorm:"not null" json:"name"`
	IsPublic       bool      `gorm:"not null;default:false" json:"is_public"`
	PublicID       *string   `gorm:"uniqueIndex" json:"public_id,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

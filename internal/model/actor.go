package model

import "github.com/google/uuid"

// Actor is the authenticated identity a mutation runs as. It is resolved
// by the auth middleware and passed down explicitly.
type Actor struct {
	ID   uuid.UUID
	Name string
}

package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrAttachmentNotFound is returned when an attachment is not found
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrVersionConflict is returned when a version-gated write loses the
	// race: the stored version no longer matches the caller's expected one.
	ErrVersionConflict = errors.New("task version conflict")
)

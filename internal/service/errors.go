package service

import (
	"errors"
	"fmt"

	"taskboard/internal/model"
)

// Validation errors. All of them fail the mutation before any write.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrTitleReserved    = errors.New("title must not equal a status label")
	ErrTitleTaken       = errors.New("a task with this title already exists")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidAssignee  = errors.New("invalid assignee id")
	ErrInvalidDueDate   = errors.New("invalid due date")
	ErrCommentRequired  = errors.New("comment text is required")
	ErrFilenameRequired = errors.New("attachment filename is required")

	// ErrNoUsers is returned when smart assign finds an empty directory.
	ErrNoUsers = errors.New("no users available for assignment")
)

// IsValidation reports whether err belongs to the validation taxonomy.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrTitleRequired, ErrTitleReserved, ErrTitleTaken,
		ErrInvalidStatus, ErrInvalidPriority, ErrInvalidAssignee,
		ErrInvalidDueDate, ErrCommentRequired, ErrFilenameRequired,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// ConflictError rejects a mutation whose expected version no longer
// matches stored state. It carries both competing states so the caller
// can choose merge, overwrite, or cancel; the server never picks.
type ConflictError struct {
	Server *model.Task
	Client model.TaskPatch
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict: task %s is at version %d", e.Server.ID, e.Server.Version)
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskboard/internal/audit"
	"taskboard/internal/model"
	"taskboard/internal/realtime"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TaskService is the mutation gateway. Every write to a task goes through
// it: validation first, then the version-gated store write, then the
// audit batch, then fan-out. Notification failures never roll anything
// back.
type TaskService struct {
	tasks      repository.TaskRepositoryInterface
	users      repository.UserRepositoryInterface
	translator *audit.Translator
	hub        realtime.Publisher
	log        *logrus.Logger
}

func NewTaskService(
	tasks repository.TaskRepositoryInterface,
	users repository.UserRepositoryInterface,
	translator *audit.Translator,
	hub realtime.Publisher,
	log *logrus.Logger,
) *TaskService {
	return &TaskService{
		tasks:      tasks,
		users:      users,
		translator: translator,
		hub:        hub,
		log:        log,
	}
}

type CreateInput struct {
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
}

// Create validates and stores a new task at version 1 with one creation
// audit entry, then notifies subscribers.
func (s *TaskService) Create(ctx context.Context, input CreateInput, actor model.Actor) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if model.IsReservedTitle(title) {
		return nil, ErrTitleReserved
	}
	taken, err := s.tasks.TitleExists(ctx, title, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrTitleTaken
	}

	status := input.Status
	if status == "" {
		status = model.StatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority.Label() == "" {
		return nil, ErrInvalidPriority
	}

	task := &model.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		Priority:    input.Priority,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   actor.ID,
		DueDate:     input.DueDate,
		Version:     1,
	}

	entry := &model.LogEntry{
		ActorID:   actor.ID,
		Verb:      audit.VerbCreated,
		TaskTitle: title,
	}
	if err := s.tasks.Create(ctx, task, entry); err != nil {
		return nil, err
	}

	s.notify(realtime.Signal(realtime.EventLogUpdated), realtime.Signal(realtime.EventTaskChanged))
	return task, nil
}

// ApplyUpdate applies a partial change set against an expected version.
// The compare and the write are a single atomic store operation; on a
// mismatch the caller gets back both the stored snapshot and its own
// attempted patch, and nothing is ever half-applied.
func (s *TaskService) ApplyUpdate(ctx context.Context, taskID uuid.UUID, expectedVersion int, patch model.TaskPatch, actor model.Actor, hint audit.Hint) (*model.Task, error) {
	current, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if expectedVersion != current.Version {
		return nil, &ConflictError{Server: current, Client: patch}
	}

	// Normalize before translation so the audit entries carry the title
	// exactly as it will be stored.
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}

	updates, err := s.buildUpdates(ctx, taskID, patch)
	if err != nil {
		return nil, err
	}

	entries := s.translator.Translate(ctx, current, patch, actor, hint)

	updated, err := s.tasks.ApplyVersioned(ctx, taskID, expectedVersion, updates, entries)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			// Lost the race after our read. Re-fetch so the conflict
			// response carries the now-current state.
			fresh, ferr := s.tasks.GetByID(ctx, taskID)
			if ferr != nil {
				return nil, ferr
			}
			return nil, &ConflictError{Server: fresh, Client: patch}
		}
		return nil, err
	}

	s.notify(realtime.Signal(realtime.EventLogUpdated), realtime.Signal(realtime.EventTaskChanged))
	return updated, nil
}

// buildUpdates turns a patch into the column map for the conditional
// UPDATE, validating as it goes. Immutable fields (id, creator, creation
// timestamp) are simply never part of a patch, so nothing can touch them.
func (s *TaskService) buildUpdates(ctx context.Context, taskID uuid.UUID, patch model.TaskPatch) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if model.IsReservedTitle(title) {
			return nil, ErrTitleReserved
		}
		taken, err := s.tasks.TitleExists(ctx, title, taskID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrTitleTaken
		}
		updates["title"] = title
	}

	if patch.Description != nil {
		updates["description"] = *patch.Description
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *patch.Status
	}

	if patch.Priority != nil {
		if patch.Priority.Label() == "" {
			return nil, ErrInvalidPriority
		}
		updates["priority"] = *patch.Priority
	}

	if patch.AssignedTo != nil {
		if *patch.AssignedTo == "" {
			updates["assigned_to"] = nil
		} else {
			id, err := uuid.Parse(*patch.AssignedTo)
			if err != nil {
				return nil, ErrInvalidAssignee
			}
			updates["assigned_to"] = id
		}
	}

	if patch.DueDate != nil {
		// An empty string means "clear the field", not a literal value.
		if *patch.DueDate == "" {
			updates["due_date"] = nil
		} else {
			due, err := time.Parse(time.RFC3339, *patch.DueDate)
			if err != nil {
				return nil, ErrInvalidDueDate
			}
			updates["due_date"] = due
		}
	}

	return updates, nil
}

// Delete removes a task as a terminal operation with exactly one audit
// entry, then notifies.
func (s *TaskService) Delete(ctx context.Context, taskID uuid.UUID, actor model.Actor) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	id := task.ID
	entry := &model.LogEntry{
		ActorID:   actor.ID,
		Verb:      audit.VerbDeleted,
		TaskID:    &id,
		TaskTitle: task.Title,
	}
	if err := s.tasks.Delete(ctx, taskID, entry); err != nil {
		return err
	}

	s.notify(realtime.Signal(realtime.EventLogUpdated), realtime.Signal(realtime.EventTaskChanged))
	return nil
}

// CommentPayload is what rides on a task_comment_added event.
type CommentPayload struct {
	TaskID  uuid.UUID      `json:"task_id"`
	Comment *model.Comment `json:"comment"`
}

// AddComment appends a comment, bumping the task version by one. The new
// comment travels inline on the notification.
func (s *TaskService) AddComment(ctx context.Context, taskID uuid.UUID, text string, actor model.Actor) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrCommentRequired
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		TaskID:   taskID,
		AuthorID: actor.ID,
		Text:     text,
	}
	id := task.ID
	entry := &model.LogEntry{
		ActorID:   actor.ID,
		Verb:      audit.VerbCommented,
		TaskID:    &id,
		TaskTitle: task.Title,
		Detail:    text,
	}
	if err := s.tasks.AppendComment(ctx, comment, entry); err != nil {
		return nil, err
	}

	s.notify(
		realtime.Signal(realtime.EventLogUpdated),
		realtime.Event{Name: realtime.EventTaskCommentAdded, Payload: CommentPayload{TaskID: taskID, Comment: comment}},
		realtime.Signal(realtime.EventTaskChanged),
	)
	return comment, nil
}

// AddAttachment stores attachment metadata, bumping the task version.
func (s *TaskService) AddAttachment(ctx context.Context, taskID uuid.UUID, filename, url string, actor model.Actor) (*model.Attachment, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, ErrFilenameRequired
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	attachment := &model.Attachment{
		TaskID:     taskID,
		Filename:   filename,
		URL:        url,
		UploadedBy: actor.ID,
	}
	id := task.ID
	entry := &model.LogEntry{
		ActorID:   actor.ID,
		Verb:      audit.VerbAttached,
		TaskID:    &id,
		TaskTitle: task.Title,
		Detail:    filename,
	}
	if err := s.tasks.AppendAttachment(ctx, attachment, entry); err != nil {
		return nil, err
	}

	s.notify(realtime.Signal(realtime.EventLogUpdated), realtime.Signal(realtime.EventTaskChanged))
	return attachment, nil
}

// RemoveAttachment deletes one attachment, bumping the task version.
func (s *TaskService) RemoveAttachment(ctx context.Context, taskID, attachmentID uuid.UUID, actor model.Actor) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	id := task.ID
	err = s.tasks.RemoveAttachment(ctx, taskID, attachmentID, func(att *model.Attachment) *model.LogEntry {
		return &model.LogEntry{
			ActorID:   actor.ID,
			Verb:      audit.VerbUnattached,
			TaskID:    &id,
			TaskTitle: task.Title,
			Detail:    att.Filename,
		}
	})
	if err != nil {
		return err
	}

	s.notify(realtime.Signal(realtime.EventLogUpdated), realtime.Signal(realtime.EventTaskChanged))
	return nil
}

// notify fans events out in order. The publish path is fire-and-forget:
// a missing hub is logged and the mutation result stands.
func (s *TaskService) notify(events ...realtime.Event) {
	if s.hub == nil {
		if s.log != nil {
			s.log.Warn("no hub configured, change notification dropped")
		}
		return
	}
	for _, event := range events {
		s.hub.Publish(event)
	}
}

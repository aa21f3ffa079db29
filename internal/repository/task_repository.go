package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task, entry *model.LogEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetAll(ctx context.Context) ([]model.Task, error)
	GetByCreator(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	TitleExists(ctx context.Context, title string, excludeID uuid.UUID) (bool, error)
	ApplyVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, updates map[string]interface{}, entries []model.LogEntry) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID, entry *model.LogEntry) error
	AppendComment(ctx context.Context, comment *model.Comment, entry *model.LogEntry) error
	GetComments(ctx context.Context, taskID uuid.UUID) ([]model.Comment, error)
	AppendAttachment(ctx context.Context, attachment *model.Attachment, entry *model.LogEntry) error
	GetAttachments(ctx context.Context, taskID uuid.UUID) ([]model.Attachment, error)
	RemoveAttachment(ctx context.Context, taskID, attachmentID uuid.UUID, makeEntry func(att *model.Attachment) *model.LogEntry) error
	ActiveLoad(ctx context.Context) (map[uuid.UUID]int, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create stores a new task together with its creation audit entry. Both
// rows commit or fail as a unit.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, entry *model.LogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		if entry != nil {
			entry.TaskID = &task.ID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a task with its assignee and creator resolved
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetAll retrieves every task, newest first
func (r *TaskRepository) GetAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		Order("created_at DESC").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// GetByCreator retrieves the tasks a user created, for the public board view
func (r *TaskRepository) GetByCreator(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Assignee").
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// TitleExists reports whether any task other than excludeID already uses
// the given title.
func (r *TaskRepository) TitleExists(ctx context.Context, title string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Task{}).Where("title = ?", title)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ApplyVersioned performs the compare-and-swap write. The compare and the
// write are one conditional UPDATE keyed by id+version, so a lost race can
// never half-apply: either the row still carries expectedVersion and every
// field lands together with version = expectedVersion+1, or nothing is
// written and the caller gets ErrVersionConflict. The audit batch commits
// in the same transaction as the entity write.
func (r *TaskRepository) ApplyVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, updates map[string]interface{}, entries []model.LogEntry) (*model.Task, error) {
	var updated model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates["version"] = expectedVersion + 1
		result := tx.Model(&model.Task{}).
			Where("id = ? AND version = ?", id, expectedVersion).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Task{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrTaskNotFound
			}
			return ErrVersionConflict
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Assignee").Preload("Creator").First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a task and writes its single deletion audit entry
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID, entry *model.LogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Task{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		if entry != nil {
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// AppendComment adds a comment and bumps the task version by exactly one.
// Comments are append-only, so no expected version gates the write.
func (r *TaskRepository) AppendComment(ctx context.Context, comment *model.Comment, entry *model.LogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Task{}).
			Where("id = ?", comment.TaskID).
			Update("version", gorm.Expr("version + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if entry != nil {
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Author").First(comment, "id = ?", comment.ID).Error
	})
}

// GetComments retrieves a task's comments in insertion order
func (r *TaskRepository) GetComments(ctx context.Context, taskID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	result := r.db.WithContext(ctx).
		Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}

// AppendAttachment adds attachment metadata and bumps the task version
func (r *TaskRepository) AppendAttachment(ctx context.Context, attachment *model.Attachment, entry *model.LogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Task{}).
			Where("id = ?", attachment.TaskID).
			Update("version", gorm.Expr("version + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		if err := tx.Create(attachment).Error; err != nil {
			return err
		}
		if entry != nil {
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Uploader").First(attachment, "id = ?", attachment.ID).Error
	})
}

// GetAttachments retrieves a task's attachments in upload order
func (r *TaskRepository) GetAttachments(ctx context.Context, taskID uuid.UUID) ([]model.Attachment, error) {
	var attachments []model.Attachment
	result := r.db.WithContext(ctx).
		Preload("Uploader").
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&attachments)
	if result.Error != nil {
		return nil, result.Error
	}
	return attachments, nil
}

// RemoveAttachment deletes one attachment, bumps the task version, and
// writes the audit entry built from the removed row.
func (r *TaskRepository) RemoveAttachment(ctx context.Context, taskID, attachmentID uuid.UUID, makeEntry func(att *model.Attachment) *model.LogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attachment model.Attachment
		if err := tx.First(&attachment, "id = ? AND task_id = ?", attachmentID, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttachmentNotFound
			}
			return err
		}

		result := tx.Model(&model.Task{}).
			Where("id = ?", taskID).
			Update("version", gorm.Expr("version + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}

		if err := tx.Delete(&attachment).Error; err != nil {
			return err
		}
		if makeEntry != nil {
			if entry := makeEntry(&attachment); entry != nil {
				if err := tx.Create(entry).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ActiveLoad counts non-Done tasks per assignee in a single grouped query
func (r *TaskRepository) ActiveLoad(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []struct {
		AssignedTo uuid.UUID
		Count      int
	}
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("assigned_to, COUNT(*) AS count").
		Where("assigned_to IS NOT NULL AND status <> ?", model.StatusDone).
		Group("assigned_to").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	load := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		load[row.AssignedTo] = row.Count
	}
	return load, nil
}

package service

import (
	"context"

	"taskboard/internal/audit"
	"taskboard/internal/model"

	"github.com/google/uuid"
)

// SmartAssign assigns the task to the least-loaded user, where load is
// the count of a user's assigned tasks whose status is not Done. Ties
// break on directory enumeration order, which is ascending user id. The
// assignment itself goes through ApplyUpdate, so it carries the usual
// version bump, audit entry, and notifications.
//
// The read of the load counts is not atomic with other concurrent
// SmartAssign calls; two racing calls may pick the same user, and that
// temporary imbalance is accepted.
func (s *TaskService) SmartAssign(ctx context.Context, taskID uuid.UUID, actor model.Actor) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}

	load, err := s.tasks.ActiveLoad(ctx)
	if err != nil {
		return nil, err
	}

	chosen := users[0]
	for _, user := range users[1:] {
		if load[user.ID] < load[chosen.ID] {
			chosen = user
		}
	}

	assignee := chosen.ID.String()
	patch := model.TaskPatch{AssignedTo: &assignee}
	return s.ApplyUpdate(ctx, taskID, task.Version, patch, actor, audit.Hint{SmartAssign: true})
}

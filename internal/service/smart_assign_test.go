package service_test

import (
	"context"
	"testing"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// directoryUsers returns users already in enumeration order (ascending
// id), the order the repository guarantees.
func directoryUsers(n int) []model.User {
	users := make([]model.User, n)
	for i := range users {
		users[i] = model.User{ID: uuid.New(), Name: "User"}
	}
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			if users[j].ID.String() < users[i].ID.String() {
				users[i], users[j] = users[j], users[i]
			}
		}
	}
	return users
}

func expectAssignment(t *testing.T, tasks *MockTaskRepository, task *model.Task, expected uuid.UUID) {
	t.Helper()
	updated := *task
	updated.Version = task.Version + 1
	assignee := expected
	updated.AssignedTo = &assignee

	tasks.On("ApplyVersioned", mock.Anything, task.ID, task.Version,
		mock.MatchedBy(func(updates map[string]interface{}) bool {
			id, ok := updates["assigned_to"].(uuid.UUID)
			return ok && id == expected
		}),
		mock.Anything,
	).Return(&updated, nil)
}

func TestSmartAssign_PicksLeastLoadedUser(t *testing.T) {
	svc, tasks, users, hub := newTestService()
	task := storedTask(1)

	directory := directoryUsers(2)
	u1, u2 := directory[0], directory[1]

	tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	users.On("GetAll", mock.Anything).Return(directory, nil)
	// U1 has nothing active, U2 carries three tasks.
	tasks.On("ActiveLoad", mock.Anything).Return(map[uuid.UUID]int{u2.ID: 3}, nil)
	users.On("GetByID", mock.Anything, u1.ID).Return(&u1, nil)
	expectAssignment(t, tasks, task, u1.ID)

	result, err := svc.SmartAssign(context.Background(), task.ID, actor())

	assert.NoError(t, err)
	assert.Equal(t, u1.ID, *result.AssignedTo)
	assert.Equal(t, 2, result.Version)
	assert.NotEmpty(t, hub.events)
	tasks.AssertExpectations(t)
}

func TestSmartAssign_MinimumAmongMany(t *testing.T) {
	svc, tasks, users, _ := newTestService()
	task := storedTask(1)

	directory := directoryUsers(3)
	load := map[uuid.UUID]int{
		directory[0].ID: 2,
		directory[1].ID: 1,
		directory[2].ID: 4,
	}

	tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	users.On("GetAll", mock.Anything).Return(directory, nil)
	tasks.On("ActiveLoad", mock.Anything).Return(load, nil)
	users.On("GetByID", mock.Anything, directory[1].ID).Return(&directory[1], nil)
	expectAssignment(t, tasks, task, directory[1].ID)

	result, err := svc.SmartAssign(context.Background(), task.ID, actor())

	assert.NoError(t, err)
	assert.Equal(t, directory[1].ID, *result.AssignedTo)
}

func TestSmartAssign_TieBreaksOnEnumerationOrder(t *testing.T) {
	svc, tasks, users, _ := newTestService()
	task := storedTask(1)

	// All users equally loaded: the first in directory order wins.
	directory := directoryUsers(3)

	tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	users.On("GetAll", mock.Anything).Return(directory, nil)
	tasks.On("ActiveLoad", mock.Anything).Return(map[uuid.UUID]int{}, nil)
	users.On("GetByID", mock.Anything, directory[0].ID).Return(&directory[0], nil)
	expectAssignment(t, tasks, task, directory[0].ID)

	result, err := svc.SmartAssign(context.Background(), task.ID, actor())

	assert.NoError(t, err)
	assert.Equal(t, directory[0].ID, *result.AssignedTo)
}

func TestSmartAssign_EmptyDirectoryFailsExplicitly(t *testing.T) {
	svc, tasks, users, hub := newTestService()
	task := storedTask(1)

	tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	users.On("GetAll", mock.Anything).Return([]model.User{}, nil)

	_, err := svc.SmartAssign(context.Background(), task.ID, actor())

	assert.ErrorIs(t, err, service.ErrNoUsers)
	assert.Empty(t, hub.events)
}

func TestSmartAssign_TaskNotFound(t *testing.T) {
	svc, tasks, _, _ := newTestService()
	id := uuid.New()

	tasks.On("GetByID", mock.Anything, id).Return(nil, repository.ErrTaskNotFound)

	_, err := svc.SmartAssign(context.Background(), id, actor())

	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestSmartAssign_RacingCommitSurfacesConflict(t *testing.T) {
	svc, tasks, users, _ := newTestService()
	task := storedTask(1)
	fresh := *task
	fresh.Version = 2

	directory := directoryUsers(1)

	tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil).Once()
	users.On("GetAll", mock.Anything).Return(directory, nil)
	tasks.On("ActiveLoad", mock.Anything).Return(map[uuid.UUID]int{}, nil)
	users.On("GetByID", mock.Anything, directory[0].ID).Return(&directory[0], nil)
	// ApplyUpdate reads the task again before the CAS.
	tasks.On("GetByID", mock.Anything, task.ID).Return(&fresh, nil)

	_, err := svc.SmartAssign(context.Background(), task.ID, actor())

	var conflict *service.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, 2, conflict.Server.Version)
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/audit"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/realtime"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task, entry *model.LogEntry) error {
	args := m.Called(ctx, task, entry)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetAll(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByCreator(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) TitleExists(ctx context.Context, title string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, title, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) ApplyVersioned(ctx context.Context, id uuid.UUID, expectedVersion int, updates map[string]interface{}, entries []model.LogEntry) (*model.Task, error) {
	args := m.Called(ctx, id, expectedVersion, updates, entries)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID, entry *model.LogEntry) error {
	args := m.Called(ctx, id, entry)
	return args.Error(0)
}

func (m *MockTaskRepository) AppendComment(ctx context.Context, comment *model.Comment, entry *model.LogEntry) error {
	args := m.Called(ctx, comment, entry)
	return args.Error(0)
}

func (m *MockTaskRepository) GetComments(ctx context.Context, taskID uuid.UUID) ([]model.Comment, error) {
	args := m.Called(ctx, taskID)
	comments := args.Get(0)
	if comments == nil {
		return nil, args.Error(1)
	}
	return comments.([]model.Comment), args.Error(1)
}

func (m *MockTaskRepository) AppendAttachment(ctx context.Context, attachment *model.Attachment, entry *model.LogEntry) error {
	args := m.Called(ctx, attachment, entry)
	return args.Error(0)
}

func (m *MockTaskRepository) GetAttachments(ctx context.Context, taskID uuid.UUID) ([]model.Attachment, error) {
	args := m.Called(ctx, taskID)
	attachments := args.Get(0)
	if attachments == nil {
		return nil, args.Error(1)
	}
	return attachments.([]model.Attachment), args.Error(1)
}

func (m *MockTaskRepository) RemoveAttachment(ctx context.Context, taskID, attachmentID uuid.UUID, makeEntry func(att *model.Attachment) *model.LogEntry) error {
	args := m.Called(ctx, taskID, attachmentID, makeEntry)
	return args.Error(0)
}

func (m *MockTaskRepository) ActiveLoad(ctx context.Context) (map[uuid.UUID]int, error) {
	args := m.Called(ctx)
	load := args.Get(0)
	if load == nil {
		return nil, args.Error(1)
	}
	return load.(map[uuid.UUID]int), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users := args.Get(0)
	if users == nil {
		return nil, args.Error(1)
	}
	return users.([]model.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByPublicID(ctx context.Context, publicID string) (*model.User, error) {
	args := m.Called(ctx, publicID)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

var testActorID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func setupTaskTest() (*gin.Engine, *MockTaskRepository, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	mockTasks := new(MockTaskRepository)
	mockUsers := new(MockUserRepository)

	log := logrus.New()
	hub := realtime.NewHub(log)
	translator := audit.NewTranslator(mockUsers)
	svc := service.NewTaskService(mockTasks, mockUsers, translator, hub, log)
	taskHandler := handler.NewTaskHandler(svc, mockTasks)

	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, testActorID)
		c.Set(middleware.UserNameKey, "Test User")
	})

	r.POST("/tasks", taskHandler.Create)
	r.GET("/tasks", taskHandler.GetAll)
	r.GET("/tasks/:id", taskHandler.GetByID)
	r.PUT("/tasks/:id", taskHandler.Update)
	r.DELETE("/tasks/:id", taskHandler.Delete)
	r.POST("/tasks/:id/smart-assign", taskHandler.SmartAssign)

	return r, mockTasks, mockUsers
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateTask_Success(t *testing.T) {
	router, mockTasks, _ := setupTaskTest()

	mockTasks.On("TitleExists", mock.Anything, "Write report", uuid.Nil).Return(false, nil)
	mockTasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task"), mock.AnythingOfType("*model.LogEntry")).Return(nil)

	resp := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{
		Title:  "Write report",
		Status: "Todo",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)

	var task model.Task
	err := json.Unmarshal(resp.Body.Bytes(), &task)
	assert.NoError(t, err)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, 1, task.Version)
	mockTasks.AssertExpectations(t)
}

func TestCreateTask_ReservedTitle(t *testing.T) {
	router, mockTasks, _ := setupTaskTest()

	resp := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{
		Title: "In Progress",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTasks.AssertNotCalled(t, "Create")
}

func TestCreateTask_DuplicateTitle(t *testing.T) {
	router, mockTasks, _ := setupTaskTest()

	mockTasks.On("TitleExists", mock.Anything, "Write report", uuid.Nil).Return(true, nil)

	resp := doJSON(router, "POST", "/tasks", handler.TaskCreateRequest{
		Title: "Write report",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTasks.AssertNotCalled(t, "Create")
}

func TestGetTask_NotFound(t *testing.T) {
	router, mockTasks, _ := setupTaskTest()

	taskID := uuid.New()
	mockTasks.On("GetByID", mock.Anything, taskID).Return(nil, repository.ErrTaskNotFound)

	resp := doJSON(router, "GET", "/tasks/"+taskID.String(), nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateTask_StaleVersionReturnsConflict(t *testing.T) {
	router, mockTasks, _ := setupTaskTest()

	taskID := uuid.New()
	stored := &model.Task{
		ID:      taskID,
		Title:   "Write report",
		Status:  model.StatusInProgress,
		Version: 3,
	}
	mockTasks.On("GetByID", mock.Anything, taskID).Return(stored, nil)

	status := model.StatusDone
	resp := doJSON(router, "PUT", "/tasks/"+taskID.String(), handler.TaskUpdateRequest{
		ExpectedVersion: 1,
		Changes:         model.TaskPatch{Status: &status},
	})

	assert.Equal(t, http.StatusConflict, resp.Code)

	var body struct {
		Message       string          `json:"message"`
		ServerVersion model.Task      `json:"serverVersion"`
		ClientVersion model.TaskPatch `json:"clientVersion"`
	}
	err := json.Unmarshal(resp.Body.Bytes(), &body)
	assert.NoError(t, err)
	assert.Equal(t, "Conflict detected", body.Message)
	assert.Equal(t, 3, body.ServerVersion.Version)
	assert.Equal(t, model.StatusInProgress, body.ServerVersion.Status)
	if assert.NotNil(t, body.ClientVersion.Status) {
		assert.Equal(t, model.StatusDone, *body.ClientVersion.Status)
	}
	mockTasks.AssertNotCalled(t, "ApplyVersioned")
}

func TestUpdateTask_MissingExpectedVersion(t *testing.T) {
	router, mockTasks, _ := setupTaskTest()

	status := model.StatusDone
	resp := doJSON(router, "PUT", "/tasks/"+uuid.New().String(), map[string]interface{}{
		"changes": model.TaskPatch{Status: &status},
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTasks.AssertNotCalled(t, "GetByID")
}

func TestDeleteTask_Success(t *testing.T) {
	router, mockTasks, _ := setupTaskTest()

	taskID := uuid.New()
	stored := &model.Task{ID: taskID, Title: "Write report", Version: 1}
	mockTasks.On("GetByID", mock.Anything, taskID).Return(stored, nil)
	mockTasks.On("Delete", mock.Anything, taskID, mock.AnythingOfType("*model.LogEntry")).Return(nil)

	resp := doJSON(router, "DELETE", "/tasks/"+taskID.String(), nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	mockTasks.AssertExpectations(t)
}

func TestSmartAssign_NoUsersReturnsBadRequest(t *testing.T) {
	router, mockTasks, mockUsers := setupTaskTest()

	taskID := uuid.New()
	stored := &model.Task{ID: taskID, Title: "Write report", Version: 1}
	mockTasks.On("GetByID", mock.Anything, taskID).Return(stored, nil)
	mockUsers.On("GetAll", mock.Anything).Return([]model.User{}, nil)

	resp := doJSON(router, "POST", "/tasks/"+taskID.String()+"/smart-assign", nil)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTasks.AssertNotCalled(t, "ApplyVersioned")
}

func TestGetTasks_InvalidIDFormat(t *testing.T) {
	router, mockTasks, _ := setupTaskTest()

	resp := doJSON(router, "GET", "/tasks/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTasks.AssertNotCalled(t, "GetByID")
}

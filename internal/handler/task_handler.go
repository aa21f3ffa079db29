package handler

import (
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	service  *service.TaskService
	taskRepo repository.TaskRepositoryInterface
}

func NewTaskHandler(svc *service.TaskService, taskRepo repository.TaskRepositoryInterface) *TaskHandler {
	return &TaskHandler{
		service:  svc,
		taskRepo: taskRepo,
	}
}

// TaskCreateRequest is the creation payload
type TaskCreateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    int     `json:"priority" binding:"min=0,max=2"`
	AssignedTo  *string `json:"assigned_to"`
	DueDate     *string `json:"due_date"`
}

// TaskUpdateRequest carries a partial field set plus the expected version
type TaskUpdateRequest struct {
	ExpectedVersion int             `json:"expected_version" binding:"required,min=1"`
	Changes         model.TaskPatch `json:"changes"`
	DragAndDrop     bool            `json:"drag_and_drop"`
}

// CommentRequest is the comment creation payload
type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AttachmentRequest is the attachment metadata payload
type AttachmentRequest struct {
	Filename string `json:"filename" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

// Create creates a new task
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	input := service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      model.Status(req.Status),
		Priority:    model.Priority(req.Priority),
	}
	if req.AssignedTo != nil && *req.AssignedTo != "" {
		id, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
			return
		}
		input.AssignedTo = &id
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date format"})
			return
		}
		input.DueDate = due
	}

	task, err := h.service.Create(c.Request.Context(), input, actor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetAll lists every task with assignee and creator resolved
func (h *TaskHandler) GetAll(c *gin.Context) {
	tasks, err := h.taskRepo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetByID retrieves one task
func (h *TaskHandler) GetByID(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update applies a version-gated partial update. A stale expected version
// yields 409 with both the stored state and the attempted change set.
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.service.ApplyUpdate(
		c.Request.Context(),
		taskID,
		req.ExpectedVersion,
		req.Changes,
		actor,
		auditHint(req.DragAndDrop),
	)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete removes a task
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), taskID, actor); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// SmartAssign assigns the task to the least-loaded user
func (h *TaskHandler) SmartAssign(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.service.SmartAssign(c.Request.Context(), taskID, actor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// AddComment appends a comment to a task
func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text required"})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), taskID, req.Text, actor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetComments lists a task's comments in insertion order
func (h *TaskHandler) GetComments(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	comments, err := h.taskRepo.GetComments(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddAttachment stores attachment metadata on a task
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	attachment, err := h.service.AddAttachment(c.Request.Context(), taskID, req.Filename, req.URL, actor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// GetAttachments lists a task's attachments in upload order
func (h *TaskHandler) GetAttachments(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	attachments, err := h.taskRepo.GetAttachments(c.Request.Context(), taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attachments"})
		return
	}
	c.JSON(http.StatusOK, attachments)
}

// RemoveAttachment deletes one attachment from a task
func (h *TaskHandler) RemoveAttachment(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}
	attachmentID, err := uuid.Parse(c.Param("attachment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment ID format"})
		return
	}

	if err := h.service.RemoveAttachment(c.Request.Context(), taskID, attachmentID, actor); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attachment removed"})
}

// writeError maps service and repository errors onto the HTTP contract.
func (h *TaskHandler) writeError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"message":       "Conflict detected",
			"serverVersion": conflict.Server,
			"clientVersion": conflict.Client,
		})
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repository.ErrAttachmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
	case errors.Is(err, service.ErrNoUsers):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func parseLimit(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"taskboard/internal/middleware"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	userRepo repository.UserRepositoryInterface
	taskRepo repository.TaskRepositoryInterface
}

func NewBoardHandler(userRepo repository.UserRepositoryInterface, taskRepo repository.TaskRepositoryInterface) *BoardHandler {
	return &BoardHandler{
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// ShareStatusResponse reports whether the caller's board is public
type ShareStatusResponse struct {
	IsPublic bool    `json:"is_public"`
	PublicID *string `json:"public_id,omitempty"`
}

// Share toggles public sharing for the caller's board, minting a share id
// on first use.
func (h *BoardHandler) Share(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.IsPublic = !user.IsPublic
	if user.IsPublic && user.PublicID == nil {
		raw := make([]byte, 16)
		if _, err := rand.Read(raw); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate share id"})
			return
		}
		publicID := hex.EncodeToString(raw)
		user.PublicID = &publicID
	}

	if err := h.userRepo.Save(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sharing"})
		return
	}

	c.JSON(http.StatusOK, ShareStatusResponse{
		IsPublic: user.IsPublic,
		PublicID: user.PublicID,
	})
}

// ShareStatus returns the caller's current sharing state
func (h *BoardHandler) ShareStatus(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), actor.ID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, ShareStatusResponse{
		IsPublic: user.IsPublic,
		PublicID: user.PublicID,
	})
}

// GetPublic serves a shared board read-only, without authentication
func (h *BoardHandler) GetPublic(c *gin.Context) {
	publicID := c.Param("public_id")

	user, err := h.userRepo.FindByPublicID(c.Request.Context(), publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Public board not found or sharing is disabled"})
		return
	}

	tasks, err := h.taskRepo.GetByCreator(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  gin.H{"name": user.Name},
		"tasks": tasks,
	})
}

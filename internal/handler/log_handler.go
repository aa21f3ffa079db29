package handler

import (
	"net/http"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	repo repository.LogRepositoryInterface
}

func NewLogHandler(repo repository.LogRepositoryInterface) *LogHandler {
	return &LogHandler{repo: repo}
}

// LogEntryResponse is a structured audit entry plus its rendered sentence
type LogEntryResponse struct {
	model.LogEntry
	Message string `json:"message"`
}

// Recent returns the newest audit entries, default 20
func (h *LogHandler) Recent(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 20)

	entries, err := h.repo.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve logs"})
		return
	}

	response := make([]LogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, LogEntryResponse{
			LogEntry: entry,
			Message:  RenderMessage(entry),
		})
	}
	c.JSON(http.StatusOK, response)
}

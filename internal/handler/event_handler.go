package handler

import (
	"io"

	"taskboard/internal/realtime"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	hub *realtime.Hub
}

func NewEventHandler(hub *realtime.Hub) *EventHandler {
	return &EventHandler{hub: hub}
}

// Stream serves the notification channel over Server-Sent Events. The
// subscription lives for the request; a reconnecting client re-fetches
// state instead of replaying missed events.
func (h *EventHandler) Stream(c *gin.Context) {
	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{
				Event: event.Name,
				Data:  event.Payload,
			})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

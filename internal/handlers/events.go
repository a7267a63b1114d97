package handlers

import (
	"io"

	"appointment-booking-server/internal/events"

	"github.com/gin-gonic/gin"
)

// EventHandler streams store changes as server-sent events.
type EventHandler struct {
	Broadcaster *events.Broadcaster
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(b *events.Broadcaster) *EventHandler {
	return &EventHandler{Broadcaster: b}
}

// Stream holds the connection open and forwards every change.
func (h *EventHandler) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	client := h.Broadcaster.Register()
	defer h.Broadcaster.Unregister(client)

	c.SSEvent("connected", "ok")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("change", message)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

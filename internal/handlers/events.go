package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"seisaku-manager/internal/eventbus"
)

const (
	eventBuffer       = 16
	heartbeatInterval = 25 * time.Second
)

// Events streams change notifications as server-sent events until the
// client goes away.
func (h *Handler) Events(c *gin.Context) {
	id, events := h.bus.Subscribe(eventBuffer)
	defer h.bus.Unsubscribe(id)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.SSEvent("ready", gin.H{"subscriber": id})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), eventPayload(ev))
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}

func eventPayload(ev eventbus.Event) gin.H {
	return gin.H{
		"id":        ev.ID,
		"type":      ev.Type,
		"projectId": ev.ProjectID,
		"createdAt": ev.CreatedAt,
	}
}

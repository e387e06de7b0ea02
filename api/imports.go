package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiaoyuanzhu-com/project-import/db"
	"github.com/xiaoyuanzhu-com/project-import/log"
	"github.com/xiaoyuanzhu-com/project-import/notifications"
)

const maxListLimit = 500

// ListImports handles GET /api/imports?limit=
func (h *Handlers) ListImports(c *gin.Context) {
	limit := db.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			RespondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	// One extra row tells whether there is more
	runs, err := h.server.Journal().List(limit + 1)
	if err != nil {
		log.Error().Err(err).Msg("failed to list imports")
		RespondError(c, http.StatusInternalServerError, "Failed to list imports")
		return
	}

	hasMore := len(runs) > limit
	if hasMore {
		runs = runs[:limit]
	}
	RespondList(c, runs, &Pagination{Limit: limit, HasMore: hasMore})
}

// ImportStream handles GET /api/imports/stream (SSE)
func (h *Handlers) ImportStream(c *gin.Context) {
	logger := log.With("sse")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	events, unsubscribe := h.server.Notifications().Subscribe()
	defer unsubscribe()

	sendSSEEvent(c, notifications.Event{
		Type:      notifications.EventConnected,
		Timestamp: time.Now().UnixMilli(),
	})
	c.Writer.Flush()

	logger.Debug().Msg("client connected to import stream")

	// Heartbeat ticker
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	shutdown := h.server.ShutdownContext()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			sendSSEEvent(c, event)
			c.Writer.Flush()

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": heartbeat\n\n")
			c.Writer.Flush()

		case <-shutdown.Done():
			return

		case <-c.Request.Context().Done():
			logger.Debug().Msg("client disconnected from import stream")
			return
		}
	}
}

func sendSSEEvent(c *gin.Context, event notifications.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event")
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", data)
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/warung_api/internal/sse"
	"github.com/GTDGit/warung_api/internal/utils"
)

var startTime = time.Now()

// Check pings one backing dependency.
type Check func(ctx context.Context) error

// HealthHandler provides health endpoint.
type HealthHandler struct {
	database Check
	redis    Check
	hub      *sse.Hub
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(database, redis Check, hub *sse.Hub) *HealthHandler {
	return &HealthHandler{database: database, redis: redis, hub: hub}
}

// GetHealth responds with service, PostgreSQL and Redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := checkStatus(ctx, h.database)
	redisStatus := checkStatus(ctx, h.redis)

	status, code := "healthy", http.StatusOK
	if dbStatus != "connected" {
		status, code = "unhealthy", http.StatusServiceUnavailable
	} else if redisStatus != "connected" {
		status = "degraded"
	}

	sseClients := 0
	if h.hub != nil {
		sseClients = h.hub.ClientCount()
	}

	utils.Success(c, code, "Service is "+status, gin.H{
		"status":     status,
		"version":    "1.0.0",
		"uptime":     int(time.Since(startTime).Seconds()),
		"database":   dbStatus,
		"redis":      redisStatus,
		"sseClients": sseClients,
	})
}

func checkStatus(ctx context.Context, check Check) string {
	if check == nil {
		return "disabled"
	}
	if err := check(ctx); err != nil {
		return "disconnected"
	}
	return "connected"
}

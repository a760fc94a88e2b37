package handlers

import (
	"context"
	"net/http"
	"time"

	"remote-admin-svc/app/clients"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	storage clients.StorageAdapter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(storage clients.StorageAdapter) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Health reports process liveness.
func (h *HealthHandler) Health(c *gin.Context) {
	respondJSON(c, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready reports readiness to serve, verifying the backing store answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		respondJSON(c, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
		return
	}
	respondJSON(c, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

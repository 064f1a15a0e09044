// Package handler contains the Gin HTTP handlers for the investor-scout API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler responds to liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Healthz returns 200 when the process is up.
// Route: GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

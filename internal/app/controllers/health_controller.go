package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudevolvers/catalog/internal/app/models/dto"
	"github.com/cloudevolvers/catalog/internal/app/services"
)

// HealthController reports service status
type HealthController struct {
	healthService services.HealthService
}

// NewHealthController creates a new HealthController
func NewHealthController(healthService services.HealthService) *HealthController {
	return &HealthController{healthService: healthService}
}

// Health reports uptime, content counts and the database status.
// It answers 503 while the pricing database is unreachable.
func (hc *HealthController) Health(c *gin.Context) {
	resp := hc.healthService.Check(c.Request.Context())
	status := http.StatusOK
	if resp.Status != dto.HealthStatusHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

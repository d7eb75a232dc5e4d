package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/askai/internal/monitoring"
)

// HealthHandler exposes liveness and readiness reports.
type HealthHandler struct {
	manager *monitoring.HealthManager
}

// NewHealthHandler constructs a HealthHandler. A nil manager reports up with no checks.
func NewHealthHandler(manager *monitoring.HealthManager) *HealthHandler {
	if manager == nil {
		manager = monitoring.NewHealthManager()
	}
	return &HealthHandler{manager: manager}
}

// Liveness handles GET /health and /health/live.
func (h *HealthHandler) Liveness(c *gin.Context) {
	report := h.manager.EvaluateLiveness(requestContext(c))
	c.JSON(statusFor(report), report)
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.manager.EvaluateReadiness(requestContext(c))
	c.JSON(statusFor(report), report)
}

func statusFor(report monitoring.HealthReport) int {
	if report.Status == monitoring.StatusDown {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/askai/internal/monitoring"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	manager := monitoring.NewHealthManager()
	manager.RegisterReadiness(monitoring.NewCheck("database", func(context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "unreachable"}
	}))
	handler := NewHealthHandler(manager)

	router := gin.New()
	router.GET("/health/live", handler.Liveness)
	router.GET("/health/ready", handler.Readiness)

	w := get(router, "/health/live")
	require.Equal(t, http.StatusOK, w.Code)

	w = get(router, "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var report monitoring.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.False(t, report.Success)
	require.Equal(t, "unreachable", report.Checks[0].Details)
}

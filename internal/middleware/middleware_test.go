package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/charlesng35/askai/pkg/logger"
	"github.com/charlesng35/askai/pkg/metrics"
	"github.com/charlesng35/askai/pkg/response"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Replace(zap.New(core))
	t.Cleanup(func() { logger.Replace(nil) })
	return logs
}

func TestRequestIDGeneratesIdentifier(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NotEmpty(t, seen)
	require.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeLogs(t)

	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", w.Body.String())

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "http", fields["module"])
	require.Equal(t, "/ping", fields["path"])
	require.Equal(t, int64(http.StatusOK), fields["status"])
	require.Equal(t, "req-1", fields["request_id"])
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeLogs(t)

	r := gin.New()
	r.Use(Recovery())
	r.POST("/ask", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var payload response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Equal(t, "internal server error", payload.Error)
	require.NotContains(t, w.Body.String(), "boom")
	require.Equal(t, 1, logs.FilterMessage("panic").Len())
}

func TestNotFoundHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.NoRoute(NotFoundHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var payload response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Equal(t, "route /missing not found", payload.Error)
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/queries/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.CollectAndCount(metrics.APILatency)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/queries/41", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/queries/42", nil))

	require.Equal(t, before+1, testutil.CollectAndCount(metrics.APILatency))
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, DefaultContentSecurityPolicy, w.Header().Get("Content-Security-Policy"))
	require.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
}

package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/charlesng35/askai/internal/app"
	"github.com/charlesng35/askai/internal/completion"
)

func fakeGemini(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": answer}}}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRuntimeConfig(t *testing.T, baseURL string) *app.Config {
	t.Helper()
	return &app.Config{
		Server:   app.ServerConfig{Port: 5000},
		Database: app.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "data", "queries.db")},
		Completion: app.CompletionConfig{
			Provider: "gemini",
			APIKey:   "test-key",
			BaseURL:  baseURL,
		},
		Monitoring: app.MonitoringConfig{
			Prometheus:    app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:        app.HealthConfig{Enabled: true},
			StatsSchedule: "@every 1h",
		},
	}
}

func TestBootstrapRuntimeServesAsk(t *testing.T) {
	gemini := fakeGemini(t, "4")
	cfg := testRuntimeConfig(t, gemini.URL)

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stack.Shutdown(context.Background()) })

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question": "2+2?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"answer": "4"}`, w.Body.String())

	count, err := stack.Store.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	w = httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "<form")

	w = httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBootstrapRuntimeLogsResolvedModel(t *testing.T) {
	cfg := testRuntimeConfig(t, "http://127.0.0.1:1")
	cfg.Completion.Model = ""

	core, logs := observer.New(zapcore.InfoLevel)
	stack, err := bootstrapRuntime(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { _ = stack.Shutdown(context.Background()) })

	entries := logs.FilterMessage("completion provider configured").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "gemini", fields["provider"])
	require.Equal(t, completion.DefaultGeminiModel, fields["model"])
}

func TestBootstrapRuntimeRejectsUnknownDriver(t *testing.T) {
	cfg := testRuntimeConfig(t, "http://127.0.0.1:1")
	cfg.Database.Driver = "oracle"

	_, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	require.Contains(t, err.Error(), "open database")
}

func TestRuntimeStackShutdownIsIdempotent(t *testing.T) {
	cfg := testRuntimeConfig(t, "http://127.0.0.1:1")

	stack, err := bootstrapRuntime(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, stack.Shutdown(context.Background()))
	require.NoError(t, stack.Shutdown(context.Background()))

	var nilStack *runtimeStack
	require.NoError(t, nilStack.Shutdown(context.Background()))
}

func TestStatsMaxAge(t *testing.T) {
	require.Equal(t, 3*time.Minute, statsMaxAge("@every 1m"))
	require.Equal(t, 15*time.Minute, statsMaxAge(" @every 5m "))
	require.Zero(t, statsMaxAge("@hourly"))
	require.Zero(t, statsMaxAge("@every soon"))
}

func TestLoadApplicationConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ASKAI_COMPLETION_API_KEY", "")

	_, err := loadApplicationConfig(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")

	cfg, err := loadApplicationConfig(filepath.Join("..", "..", "internal", "app", "testdata", "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
}

func TestRunFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ASKAI_COMPLETION_API_KEY", "")

	err := run(context.Background(), []string{"-config", t.TempDir(), "-env-file", filepath.Join(t.TempDir(), "none.env")})
	require.ErrorIs(t, err, app.ErrMissingAPIKey)
}

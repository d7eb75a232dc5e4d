package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitConfiguresGlobalLogger(t *testing.T) {
	t.Cleanup(func() { Replace(nil) })

	require.NoError(t, Init("debug", "json"))
	require.True(t, Logger().Core().Enabled(zap.DebugLevel))

	require.NoError(t, Init("warn", "console"))
	require.False(t, Logger().Core().Enabled(zap.InfoLevel))
}

func TestInitFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { Replace(nil) })

	require.NoError(t, Init("verbose", ""))
	require.True(t, Logger().Core().Enabled(zap.InfoLevel))
	require.False(t, Logger().Core().Enabled(zap.DebugLevel))
}

func TestLoggingHelpersEmitEntries(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	t.Cleanup(func() { Replace(nil) })
	Replace(zap.New(core))

	Info("info message", zap.String("k", "v"))
	Error("error message")
	Warn("warn message")
	Debug("debug message")

	entries := recorded.All()
	require.Len(t, entries, 4)

	want := []string{"info message", "error message", "warn message", "debug message"}
	for i, entry := range entries {
		require.Equal(t, want[i], entry.Message)
	}
	require.Equal(t, "v", entries[0].ContextMap()["k"])
}

func TestWithModuleAttachesModuleField(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	t.Cleanup(func() { Replace(nil) })
	Replace(zap.New(core))

	WithModule("ask").Info("module test")

	entries := recorded.All()
	require.Len(t, entries, 1)
	require.Equal(t, "ask", entries[0].ContextMap()["module"])
}

func TestReplaceNilResetsToNop(t *testing.T) {
	Replace(nil)
	require.NotNil(t, Logger())
	require.NoError(t, Sync())
}

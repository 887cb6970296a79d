package telemetry_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/havenmod/haven/internal/setup/config"
	"github.com/havenmod/haven/internal/setup/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerGetLogger(t *testing.T) {
	t.Parallel()

	logDir := t.TempDir()
	manager := telemetry.NewManager(telemetry.ServiceBot, logDir, &config.Debug{
		LogLevel:      "info",
		MaxLogsToKeep: 2,
		MaxLogLines:   100,
	})
	defer manager.Close()

	log, err := manager.GetLogger()
	require.NoError(t, err)

	log.Info("hello from test")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(filepath.Join(manager.GetCurrentSessionDir(), "main.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), manager.GetInstanceID())
}

func TestManagerRotatesSessions(t *testing.T) {
	t.Parallel()

	logDir := t.TempDir()
	old := time.Now().Add(-time.Hour)

	for _, name := range []string{"2024-01-01_00-00-00", "2024-01-02_00-00-00", "2024-01-03_00-00-00"} {
		dir := filepath.Join(logDir, name)
		require.NoError(t, os.MkdirAll(dir, os.ModePerm))
		require.NoError(t, os.Chtimes(dir, old, old))
		old = old.Add(time.Minute)
	}

	manager := telemetry.NewManager(telemetry.ServiceEval, logDir, &config.Debug{
		LogLevel:      "debug",
		MaxLogsToKeep: 2,
		MaxLogLines:   100,
	})
	defer manager.Close()

	_, err := manager.GetLogger()
	require.NoError(t, err)

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = os.Stat(filepath.Join(logDir, "2024-01-03_00-00-00"))
	require.NoError(t, err, "newest previous session is kept")
}

func TestManagerInvalidLevel(t *testing.T) {
	t.Parallel()

	manager := telemetry.NewManager(telemetry.ServiceBot, t.TempDir(), &config.Debug{
		LogLevel:      "loud",
		MaxLogsToKeep: 1,
		MaxLogLines:   10,
	})

	_, err := manager.GetLogger()
	require.Error(t, err)
}

func TestServiceTypeRequestTimeout(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Bot: config.BotConfig{RequestTimeout: 1500}}
	assert.Equal(t, 1500*time.Millisecond, telemetry.ServiceBot.GetRequestTimeout(cfg))
	assert.Equal(t, 30*time.Second, telemetry.ServiceEval.GetRequestTimeout(cfg))
	assert.Equal(t, "bot", telemetry.ServiceBot.String())
}

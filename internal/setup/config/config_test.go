package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/havenmod/haven/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCommon = `
[common]
version = 1

[common.debug]
log_level = "debug"
max_logs_to_keep = 3
max_log_lines = 500

[common.gemini]
api_key = "gemini-key"
model = "gemini-1.5-pro"
max_concurrent = 2
request_timeout = 15000
temperature = 0.2

[common.ledger]
backend = "redis"

[common.redis]
host = "localhost"
port = 6379

[common.metrics]
enabled = true
port = 9102
`

const validBot = `
[bot]
version = 1
request_timeout = 5000

[bot.discord]
token = "discord-token"
mod_channel_id = 1130000000000000001
monitored_channel_ids = [1130000000000000002, 1130000000000000003]
`

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".toml"), []byte(content), 0o600))
}

func TestLoadConfigFrom(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "common", validCommon)
	writeConfig(t, dir, "bot", validBot)

	cfg, usedPath, err := config.LoadConfigFrom([]string{filepath.Join(dir, "missing"), dir})
	require.NoError(t, err)
	assert.Equal(t, dir, usedPath)

	assert.Equal(t, "debug", cfg.Common.Debug.LogLevel)
	assert.Equal(t, "gemini-1.5-pro", cfg.Common.Gemini.Model)
	assert.EqualValues(t, 2, cfg.Common.Gemini.MaxConcurrent)
	assert.Equal(t, config.LedgerBackendRedis, cfg.Common.Ledger.Backend)
	assert.Equal(t, 9102, cfg.Common.Metrics.Port)
	assert.Equal(t, uint64(1130000000000000001), cfg.Bot.Discord.ModChannelID)
	assert.Len(t, cfg.Bot.Discord.MonitoredChannelIDs, 2)

	// Absent keys keep their defaults
	assert.Equal(t, 100, cfg.Common.Eval.Limit)
	assert.Equal(t, "Text", cfg.Common.Eval.TextColumn)
	assert.Equal(t, "oh_label", cfg.Common.Eval.LabelColumn)
}

func TestLoadConfigFromErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		common  string
		bot     string
		wantErr error
	}{
		{
			name:    "missing bot file",
			common:  validCommon,
			wantErr: config.ErrConfigFileNotFound,
		},
		{
			name:    "missing version",
			common:  "[common.gemini]\napi_key = \"k\"\n",
			bot:     validBot,
			wantErr: config.ErrConfigVersionMissing,
		},
		{
			name:    "version mismatch",
			common:  validCommon,
			bot:     "[bot]\nversion = 9\n",
			wantErr: config.ErrConfigVersionMismatch,
		},
		{
			name:    "invalid ledger backend",
			common:  strings.Replace(validCommon, `backend = "redis"`, `backend = "postgres"`, 1),
			bot:     validBot,
			wantErr: config.ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.common != "" {
				writeConfig(t, dir, "common", tt.common)
			}

			if tt.bot != "" {
				writeConfig(t, dir, "bot", tt.bot)
			}

			_, _, err := config.LoadConfigFrom([]string{dir})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "common", validCommon)
	writeConfig(t, dir, "bot", validBot)

	t.Setenv(config.EnvDiscordToken, "env-token")
	t.Setenv(config.EnvGeminiAPIKey, "env-key")

	cfg, _, err := config.LoadConfigFrom([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Bot.Discord.Token)
	assert.Equal(t, "env-key", cfg.Common.Gemini.APIKey)
}

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrConfigInvalid         = errors.New("config file failed validation")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.3.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentBotVersion    = 1
)

// Environment variables that override secrets from the config files.
const (
	EnvDiscordToken = "HAVEN_DISCORD_TOKEN"
	EnvGeminiAPIKey = "HAVEN_GEMINI_API_KEY"
)

// Ledger backends.
const (
	LedgerBackendSQLite = "sqlite"
	LedgerBackendRedis  = "redis"
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig
	Bot    BotConfig
}

// CommonConfig contains configuration shared between the bot and the evaluator.
type CommonConfig struct {
	// Version of the common config.
	Version int     `koanf:"version"`
	Debug   Debug   `koanf:"debug"`
	Gemini  Gemini  `koanf:"gemini"`
	Ledger  Ledger  `koanf:"ledger"`
	Redis   Redis   `koanf:"redis"`
	Metrics Metrics `koanf:"metrics"`
	Eval    Eval    `koanf:"eval"`
}

// BotConfig contains Discord bot specific configuration.
type BotConfig struct {
	// Version of the bot config.
	Version int `koanf:"version"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout" validate:"gte=0"`
	// Discord configuration.
	Discord Discord `koanf:"discord"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep" validate:"gte=1"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines" validate:"gte=1"`
}

// Gemini contains the classification service configuration.
type Gemini struct {
	// API key for authentication.
	APIKey string `koanf:"api_key" validate:"required"`
	// Model used for classification, explanations and resource lookups.
	Model string `koanf:"model" validate:"required"`
	// Maximum concurrent requests.
	MaxConcurrent int64 `koanf:"max_concurrent" validate:"gte=1"`
	// Per-call timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout" validate:"gte=1"`
	// Sampling temperature.
	Temperature float32 `koanf:"temperature" validate:"gte=0,lte=2"`
	// Directory for transient image downloads. Defaults to the OS temp dir.
	ImageDir string `koanf:"image_dir"`
}

// Ledger contains violation ledger storage configuration.
type Ledger struct {
	// Storage backend (sqlite or redis).
	Backend string `koanf:"backend" validate:"required,oneof=sqlite redis"`
	// Path to the SQLite database file.
	Path string `koanf:"path" validate:"required_if=Backend sqlite"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Metrics contains the prometheus endpoint configuration.
type Metrics struct {
	// Serve /metrics when enabled.
	Enabled bool `koanf:"enabled"`
	// Port to listen on.
	Port int `koanf:"port" validate:"required_if=Enabled true"`
}

// Eval contains dataset evaluation configuration.
type Eval struct {
	// Maximum number of examples to classify per run.
	Limit int `koanf:"limit" validate:"gte=1"`
	// Column holding the example text.
	TextColumn string `koanf:"text_column" validate:"required"`
	// Column holding the ground-truth label.
	LabelColumn string `koanf:"label_column" validate:"required"`
}

// Discord contains Discord bot configuration.
type Discord struct {
	// Discord bot token for authentication.
	Token string `koanf:"token" validate:"required"`
	// Channel where moderators review reports.
	ModChannelID uint64 `koanf:"mod_channel_id" validate:"required"`
	// Channels whose messages are scanned automatically.
	MonitoredChannelIDs []uint64 `koanf:"monitored_channel_ids"`
}

// LoadConfig loads the configuration from the config search paths.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadConfigFrom([]string{
		".haven",
		homeDir + "/.haven/config",
		"/etc/haven/config",
		"/app/config",
		"config",
		".",
	})
}

// LoadConfigFrom loads the configuration from the first path containing each config file.
func LoadConfigFrom(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	// Secrets may live in a .env file next to the binary
	_ = godotenv.Load()

	var usedConfigPath string

	configFiles := []string{"common", "bot"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	config := Config{
		Common: defaultCommon(),
	}
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("bot", config.Bot.Version, CurrentBotVersion); err != nil {
		return nil, "", err
	}

	applyEnvOverrides(&config)

	if err := config.Validate(); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// Validate checks the struct tags on every section.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	return nil
}

// defaultCommon returns the values used when a key is absent from common.toml.
func defaultCommon() CommonConfig {
	return CommonConfig{
		Debug: Debug{
			LogLevel:      "info",
			MaxLogsToKeep: 10,
			MaxLogLines:   10000,
		},
		Gemini: Gemini{
			Model:          "gemini-1.5-flash",
			MaxConcurrent:  4,
			RequestTimeout: 60000,
		},
		Ledger: Ledger{
			Backend: LedgerBackendSQLite,
			Path:    "data/ledger.db",
		},
		Eval: Eval{
			Limit:       100,
			TextColumn:  "Text",
			LabelColumn: "oh_label",
		},
	}
}

// applyEnvOverrides replaces secrets with values from the environment when set.
func applyEnvOverrides(config *Config) {
	if token := os.Getenv(EnvDiscordToken); token != "" {
		config.Bot.Discord.Token = token
	}

	if key := os.Getenv(EnvGeminiAPIKey); key != "" {
		config.Common.Gemini.APIKey = key
	}
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/havenmod/haven/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}

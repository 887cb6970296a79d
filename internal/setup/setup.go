package setup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"github.com/havenmod/haven/internal/ai"
	"github.com/havenmod/haven/internal/ledger"
	"github.com/havenmod/haven/internal/redis"
	"github.com/havenmod/haven/internal/setup/config"
	"github.com/havenmod/haven/internal/setup/telemetry"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ErrUnknownLedgerBackend is returned for a ledger backend the app cannot open.
var ErrUnknownLedgerBackend = errors.New("unknown ledger backend")

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config       *config.Config     // Application configuration
	Logger       *zap.Logger        // Main application logger
	LogManager   *telemetry.Manager // Log management system
	RedisManager *redis.Manager     // Redis connection manager
	Ledger       *ledger.Ledger     // Offense counters
	GenAI        *genai.Client      // Generative AI client
	Classifier   *ai.Client         // Content classifier
	metrics      *metricsServer     // Prometheus HTTP server
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType, logDir string) (*App, error) {
	// Load app configuration
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	return InitializeWithConfig(ctx, cfg, serviceType, logDir)
}

// InitializeWithConfig bootstraps the application from an already loaded config.
func InitializeWithConfig(
	ctx context.Context, cfg *config.Config, serviceType telemetry.ServiceType, logDir string,
) (*App, error) {
	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug)

	logger, err := logManager.GetLogger()
	if err != nil {
		return nil, err
	}

	// Redis manager provides connection pools when the ledger lives in Redis
	redisManager := redis.NewManager(&cfg.Common.Redis, logger)

	store, err := openLedgerStore(&cfg.Common.Ledger, redisManager)
	if err != nil {
		redisManager.Close()
		logManager.Close()
		return nil, err
	}

	offenses := ledger.New(store, logManager.GetComponentLogger("ledger"))

	// Generative AI client backs every classifier call
	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Common.Gemini.APIKey))
	if err != nil {
		_ = offenses.Close()
		redisManager.Close()
		logManager.Close()
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	images := ai.NewImageFetcher(
		&http.Client{Timeout: serviceType.GetRequestTimeout(cfg)},
		cfg.Common.Gemini.ImageDir,
		logger,
	)
	classifier := ai.New(
		ai.NewModel(genaiClient, &cfg.Common.Gemini),
		images,
		ai.OptionsFromConfig(&cfg.Common.Gemini),
		logger,
	)

	// Start metrics server if enabled
	var metricsSrv *metricsServer

	if cfg.Common.Metrics.Enabled && serviceType == telemetry.ServiceBot {
		srv, err := startMetricsServer(cfg.Common.Metrics.Port, logger)
		if err != nil {
			logger.Error("Failed to start metrics server", zap.Error(err))
		} else {
			metricsSrv = srv
		}
	}

	logger.Info("Application initialized",
		zap.String("service", serviceType.String()),
		zap.String("ledger_backend", cfg.Common.Ledger.Backend),
		zap.String("model", cfg.Common.Gemini.Model))

	// Bundle all initialized components
	return &App{
		Config:       cfg,
		Logger:       logger,
		LogManager:   logManager,
		RedisManager: redisManager,
		Ledger:       offenses,
		GenAI:        genaiClient,
		Classifier:   classifier,
		metrics:      metricsSrv,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	// Shutdown metrics server if running
	if s.metrics != nil {
		if err := s.metrics.srv.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to shutdown metrics server", zap.Error(err))
		}

		s.metrics.listener.Close()
	}

	if err := s.GenAI.Close(); err != nil {
		s.Logger.Error("Failed to close genai client", zap.Error(err))
	}

	if err := s.Ledger.Close(); err != nil {
		s.Logger.Error("Failed to close ledger", zap.Error(err))
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	s.LogManager.Close()

	// Close Redis connections last as other components might need it during cleanup
	s.RedisManager.Close()
}

// openLedgerStore opens the configured ledger backend.
func openLedgerStore(cfg *config.Ledger, redisManager *redis.Manager) (ledger.Store, error) {
	switch cfg.Backend {
	case config.LedgerBackendSQLite:
		return ledger.OpenSQLite(cfg.Path)
	case config.LedgerBackendRedis:
		client, err := redisManager.GetClient(redis.LedgerDBIndex)
		if err != nil {
			return nil, err
		}

		return ledger.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownLedgerBackend, cfg.Backend)
	}
}

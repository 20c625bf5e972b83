package config

import (
	"context"
	"fmt"
	"time"

	"github.com/akeren/jobtracker-api/config/router"
	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/internal/models"
	"github.com/akeren/jobtracker-api/pkg/constants"
	"github.com/akeren/jobtracker-api/pkg/notify"
	"github.com/akeren/jobtracker-api/pkg/spamcheck"
	"github.com/akeren/jobtracker-api/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Policy          *spamcheck.Policy
	Notifier        *notify.Dispatcher
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	AdminToken        string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		RateLimitRequests: utils.GetEnvPositiveInt("RATE_LIMIT_REQUESTS", constants.DefaultRateLimitRequests),
		RateLimitWindow:   utils.GetEnvDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow()),
		RequestTimeout:    utils.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:   utils.GetEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		AdminToken:        utils.GetEnvTrimmed("ADMIN_API_TOKEN"),
	}
}

// Cleanup releases resources in reverse dependency order: queued notifications
// drain before the stores they may read from are closed.
func (ac *ApplicationConfig) Cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), ac.shutdownTimeout())
	defer cancel()

	if ac.Notifier != nil {
		if err := ac.Notifier.Close(ctx); err != nil {
			ac.Logger.Warn("Notification queue did not drain before shutdown", "error", err)
		}
	}

	if ac.TracingShutdown != nil {
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	CloseDatabase(ac.DB, ac.Logger)
	CloseCache(ac.Cache, ac.Logger)

	ac.Logger.Info("Application cleanup completed")
}

func (ac *ApplicationConfig) shutdownTimeout() time.Duration {
	if ac.Config != nil && ac.Config.ShutdownTimeout > 0 {
		return ac.Config.ShutdownTimeout
	}
	return 15 * time.Second
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	policy, err := LoadPolicy(logger)
	if err != nil {
		return nil, err
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, NewDBConfig())
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			CloseDatabase(db, logger)
			return nil, err
		}
	}

	appConfig := NewAppConfig()
	if appConfig.AdminToken == "" {
		logger.Warn("ADMIN_API_TOKEN is not set; admin and CRUD routes will reject every request")
	}

	cache := NewCacheConfig().NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, cache, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
		AdminToken:        appConfig.AdminToken,
	})

	dispatcher, err := NewNotificationDispatcher(context.Background(), logger, routerService.MetricsRegistry())
	if err != nil {
		CloseDatabase(db, logger)
		CloseCache(cache, logger)
		return nil, fmt.Errorf("setup signup notifications: %w", err)
	}

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Policy:          policy,
		Notifier:        dispatcher,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}

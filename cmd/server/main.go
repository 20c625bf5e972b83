package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akeren/jobtracker-api/config"
	"github.com/akeren/jobtracker-api/domain"
	"github.com/akeren/jobtracker-api/internal/log"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	var autoMigrate bool
	flag.BoolVar(&autoMigrate, "auto-migrate", false, "synchronise the schema from the models before serving (development only)")
	flag.BoolVar(&autoMigrate, "m", false, "shorthand for -auto-migrate")
	flag.Parse()

	appConfig, err := config.LoadApplicationConfiguration(logger, autoMigrate)
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err.Error())
		os.Exit(1)
	}

	domain.SetupCoreDomain(appConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- appConfig.RouterService.RunHTTPServer()
	}()

	logger.Info("Job tracker API started", "env", config.GetAppEnv())

	exitCode := 0
	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received, shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Config.ShutdownTimeout)
		defer cancel()

		if err := appConfig.RouterService.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("HTTP server shutdown error", "error", err)
		} else {
			logger.Info("HTTP server shut down gracefully")
		}
	}

	appConfig.Cleanup()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	logger.Info("Graceful shutdown completed")
}

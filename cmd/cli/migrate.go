package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/akeren/jobtracker-api/config"
	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/internal/models"
	"github.com/akeren/jobtracker-api/pkg/migrations"
	"github.com/akeren/jobtracker-api/pkg/utils"
)

func runMigrate(logger *log.Logger, args []string) error {
	op := "up"
	if len(args) > 0 {
		op = args[0]
	}

	dbCfg := config.NewDBConfig()
	db, err := config.NewDatabase(logger, dbCfg)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db, logger)

	// The SQL files target postgres; a local sqlite database is synchronised from the models.
	if dbCfg.Driver == config.DriverSQLite {
		if op != "up" {
			return fmt.Errorf("migrate %s is only supported on postgres", op)
		}
		return config.AutoMigrate(logger, db, models.ModelRegistry...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get SQL DB instance: %w", err)
	}

	cfg := migrations.Config{
		Dir:    utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
		Logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch op {
	case "up":
		return migrations.Up(ctx, sqlDB, cfg)
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[1])
			}
		}
		return migrations.Down(ctx, sqlDB, cfg, steps)
	case "version":
		version, dirty, err := migrations.Version(ctx, sqlDB, cfg)
		if err != nil {
			return err
		}
		logger.Info("Schema version", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate operation %q (want up, down or version)", op)
	}
}

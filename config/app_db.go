package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akeren/jobtracker-api/internal/log"
	"github.com/akeren/jobtracker-api/pkg/retry"
	"github.com/akeren/jobtracker-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Driver          string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string // default "require"
	PingAttempts    int
}

func NewDBConfig() *DBConfig {
	return &DBConfig{
		Driver:          strings.ToLower(utils.GetEnvTrimmedOrDefault("APP_DATABASE_DRIVER", DriverPostgres)),
		SQLitePath:      utils.GetEnvTrimmedOrDefault("SQLITE_PATH", "jobtracker.db"),
		MaxIdleConns:    utils.GetEnvPositiveInt("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    utils.GetEnvPositiveInt("DB_MAX_OPEN_CONNS", 50),
		ConnMaxLifetime: utils.GetEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		SSLMode:         "require",
		PingAttempts:    utils.GetEnvPositiveInt("DB_PING_ATTEMPTS", 5),
	}
}

func (dc *DBConfig) dialector(logger *log.Logger) (gorm.Dialector, error) {
	switch dc.Driver {
	case DriverSQLite:
		logger.Info("Using SQLite database", "path", dc.SQLitePath)
		// SQLite needs foreign keys switched on per connection.
		return sqlite.Open(dc.SQLitePath + "?_foreign_keys=on"), nil
	case DriverPostgres, "":
		dsn, err := postgresDSN(logger, dc)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported APP_DATABASE_DRIVER %q (allowed: postgres, sqlite)", dc.Driver)
	}
}

func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = NewDBConfig()
	}

	dialector, err := cfg.dialector(logger)
	if err != nil {
		logger.Error("Invalid database configuration", "error", err)
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCfg := retry.DefaultConfig()
	pingCfg.MaxAttempts = cfg.PingAttempts
	pingCfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		logger.Warn("Database ping failed; retrying", "attempt", attempt, "delay", delay.String(), "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := retry.Do(ctx, pingCfg, sqlDB.PingContext); err != nil {
		logger.Error("Database ping failed", "error", err)
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", cfg.Driver)
	return gdb, nil
}

func postgresDSN(logger *log.Logger, cfg *DBConfig) (string, error) {
	if url := sanitizeEnv(utils.GetEnvTrimmed("APP_DATABASE_URL")); url != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return url, nil
	}

	host := sanitizeEnv(utils.GetEnvTrimmed("POSTGRES_HOST"))
	user := sanitizeEnv(utils.GetEnvTrimmed("POSTGRES_USER"))
	pass := sanitizeEnv(utils.GetEnvTrimmed("POSTGRES_PASSWORD"))
	dbName := sanitizeEnv(utils.GetEnvTrimmed("POSTGRES_DB_NAME"))
	ssl := sanitizeEnv(utils.GetEnvTrimmedOrDefault("POSTGRES_SSLMODE", cfg.SSLMode))
	port := utils.GetEnvPositiveInt("POSTGRES_PORT", 5432)

	var missing []string
	if host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if user == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if dbName == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}
	if len(missing) > 0 {
		logger.Error("Missing required database environment variables", "missing_vars", strings.Join(missing, ", "))
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	logger.Info("Connecting to database",
		"host", host,
		"port", port,
		"user", user,
		"dbname", dbName,
		"sslmode", ssl,
	)

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, dbName, ssl), nil
}

func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}

var ErrNilDatabase = errors.New("cannot migrate: db is nil")

// AutoMigrate is the development shortcut behind --auto-migrate; deployed
// environments run the SQL files under migrations/.
func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...any) error {
	if db == nil {
		logger.Error("Cannot migrate: db is nil")
		return ErrNilDatabase
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database schema synchronised", "models", len(models))

	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
		return
	}

	logger.Info("Database closed successfully")
}

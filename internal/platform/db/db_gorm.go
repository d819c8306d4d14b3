// Package db opens and migrates the relational store.
package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ipo_backend/internal/platform/config"
	"ipo_backend/internal/platform/db/model"
	"ipo_backend/internal/shared/apperr"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	retryInterval = 3 * time.Second
)

// Opener opens a gorm connection for a DSN. Swappable in tests.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the driver-specific DSN for cfg.
// SQLite connections always enable foreign keys.
func BuildDSN(cfg config.DBConfig) string {
	if cfg.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	}
	return cfg.Path + "?_foreign_keys=on&_busy_timeout=5000"
}

// gormConfig is shared by every driver. TranslateError maps driver
// uniqueness and foreign-key failures to gorm sentinels.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// OpenerFor returns the Opener for a driver name.
func OpenerFor(driver string) (Opener, error) {
	switch driver {
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gormConfig())
		}, nil
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig())
		}, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// ConnectWithRetry keeps calling opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		logrus.WithError(err).Warn("db connect failed, retrying")
		time.Sleep(retryInterval)
	}
}

// OpenDB connects to the configured store and migrates it when enabled.
func OpenDB(cfg config.DBConfig) (*gorm.DB, error) {
	opener, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite && cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectWithin, opener)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// SQLite allows one writer; a single connection also keeps
		// in-memory databases alive across calls.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"driver":     cfg.Driver,
		"migrations": cfg.RunMigrations,
	}).Info("database connected")
	return db, nil
}

// Migrate creates or updates every IPO table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// TranslateError wraps storage uniqueness and foreign-key failures in
// apperr.ErrConstraint. Other errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", apperr.ErrConstraint, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "23503") {
		return fmt.Errorf("%w: %s", apperr.ErrConstraint, pgErr.Message)
	}
	if strings.Contains(err.Error(), "constraint failed") {
		return fmt.Errorf("%w: %v", apperr.ErrConstraint, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a uniqueness failure.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

package main

import (
	"errors"
	"os"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ipo_backend/internal/app/di"
	"ipo_backend/internal/platform/config"
	platformdb "ipo_backend/internal/platform/db"
	"ipo_backend/internal/platform/logger"
	infraredis "ipo_backend/internal/platform/redis"
)

// app holds the connections one command invocation needs.
type app struct {
	db  *gorm.DB
	rdb *redisv9.Client
	uc  *di.Usecases
}

// openApp connects to the configured store. Logs go to stderr so command
// output on stdout stays machine-readable.
func openApp(migrate bool) (*app, error) {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	logrus.SetOutput(os.Stderr)

	if migrate {
		cfg.DB.RunMigrations = true
	}
	db, err := platformdb.OpenDB(cfg.DB)
	if err != nil {
		return nil, err
	}

	a := &app{db: db}
	if rdb, err := infraredis.NewRedisClient(cfg.Redis); err == nil {
		a.rdb = rdb
	} else if !errors.Is(err, infraredis.ErrDisabled) {
		logrus.WithError(err).Warn("Redis unavailable. Run locks are process-local.")
	}

	a.uc, err = di.NewUsecases(db, a.rdb, cfg, nil)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases every connection.
func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			logrus.WithError(err).Error("failed to close Redis client")
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logrus.WithError(err).Error("failed to close database")
		}
	}
}

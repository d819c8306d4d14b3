package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"ipo_backend/internal/app/di"
	"ipo_backend/internal/app/router"
	"ipo_backend/internal/platform/config"
	platformdb "ipo_backend/internal/platform/db"
	"ipo_backend/internal/platform/logger"
	"ipo_backend/internal/platform/metrics"
	infraredis "ipo_backend/internal/platform/redis"
	"ipo_backend/internal/shared/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// db
	db, err := platformdb.OpenDB(cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("failed to access database handle")
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logrus.WithError(err).Error("failed to close database")
		}
	}()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(cfg.Redis); err != nil {
		logrus.WithError(err).Warn("Redis unavailable. Run locks are process-local.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				logrus.WithError(err).Error("failed to close Redis client")
			}
		}()
	}

	m := metrics.New()
	uc, err := di.NewUsecases(db, rdb, cfg, m)
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" {
		logrus.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}
	if cfg.Auth.Enabled && cfg.Auth.OperatorPasswordHash == "" {
		logrus.Warn("OPERATOR_PASSWORD_HASH is not set. Operator login will always fail.")
	}

	r := router.NewRouter(di.NewHandlers(uc), router.Options{
		AllowOrigins: cfg.AllowOrigins,
		AuthEnabled:  cfg.Auth.Enabled,
		JWTSecret:    cfg.Auth.JWTSecret,
		DB:           sqlDB,
		Metrics:      m.Handler(),
		LoginLimiter: ratelimiter.NewRateLimiter(cfg.Auth.LoginLimit, cfg.Auth.LoginWindow),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.WithField("addr", cfg.ServerAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}

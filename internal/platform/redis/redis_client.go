// Package redis creates the optional Redis client.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"ipo_backend/internal/platform/config"
)

// ErrDisabled is returned when no Redis host is configured.
var ErrDisabled = errors.New("redis not configured")

// NewRedisClient connects to Redis and verifies the connection with PING.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, ErrDisabled
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logrus.WithFields(logrus.Fields{"address": cfg.Addr(), "error": err}).Error("Redis connection failed")
		_ = rdb.Close()
		return nil, err
	}

	logrus.WithField("address", cfg.Addr()).Info("Redis connection successful")
	return rdb, nil
}

package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"ipo_backend/internal/platform/lock"
)

// NewLocker creates the run Locker.
// If Redis is available, it returns a Redis-backed implementation shared by
// every replica. Otherwise, it falls back to an in-process lock.
func NewLocker(rdb *redis.Client, ttl time.Duration) lock.Locker {
	if rdb != nil {
		return lock.NewRedisLocker(rdb, "ipo:run", ttl)
	}
	return lock.NewLocalLocker()
}

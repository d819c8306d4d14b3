// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"ipo_backend/internal/feature/settings/domain"
	"ipo_backend/internal/feature/settings/usecase"
)

const (
	defaultTTL       = time.Minute
	defaultNamespace = "ipo:settings"
)

// CachingSettingsRepository decorates a SettingsRepository with Redis caching.
// Reads are served from the cache; every committed write drops the entry.
type CachingSettingsRepository struct {
	inner     usecase.SettingsRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SettingsRepository = (*CachingSettingsRepository)(nil)

// NewCachingSettingsRepository decorates a SettingsRepository with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "ipo:settings".
// A nil rdb disables caching.
func NewCachingSettingsRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SettingsRepository, namespace string) *CachingSettingsRepository {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CachingSettingsRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Atomic runs fn against the undecorated transactional repository, so reads
// inside the transaction never touch the cache, and drops the entry once
// the transaction commits.
func (c *CachingSettingsRepository) Atomic(ctx context.Context, fn func(repo usecase.SettingsRepository) error) error {
	if err := c.inner.Atomic(ctx, fn); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Upsert writes through and drops the cached rows.
func (c *CachingSettingsRepository) Upsert(ctx context.Context, rows []domain.Row) error {
	if err := c.inner.Upsert(ctx, rows); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// List returns the cached rows, falling back to the inner repository.
func (c *CachingSettingsRepository) List(ctx context.Context) ([]domain.Row, error) {
	if c.rdb == nil {
		return c.inner.List(ctx)
	}

	key := c.cacheKey()

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []domain.Row
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// Invalidate drops the cached rows. It is used after writes that bypass
// this repository, such as a full data reset.
func (c *CachingSettingsRepository) Invalidate(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.cacheKey()).Err()
}

// invalidate is Invalidate for write paths; a failure only leaves the entry
// to expire on its own.
func (c *CachingSettingsRepository) invalidate(ctx context.Context) {
	if err := c.Invalidate(ctx); err != nil {
		logrus.WithError(err).Warn("settings cache invalidation failed")
	}
}

func (c *CachingSettingsRepository) cacheKey() string {
	return c.namespace + ":rows"
}

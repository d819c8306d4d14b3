// Package lock serializes allotment and refund runs per company.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ipo_backend/internal/shared/apperr"
)

// ErrHeld is returned when another run already holds the lock.
var ErrHeld = fmt.Errorf("%w: a run is already in progress for this company", apperr.ErrConflict)

// Locker acquires a named lock. The returned release func is safe to call once.
type Locker interface {
	Acquire(ctx context.Context, name string) (release func(), err error)
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker implements Locker with SET NX PX and a token-checked release.
type RedisLocker struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	token  func() string
}

// NewRedisLocker creates a RedisLocker. Keys are "<prefix>:<name>".
// If ttl is 0, it defaults to 30 seconds.
func NewRedisLocker(rdb *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if prefix == "" {
		prefix = "lock"
	}
	return &RedisLocker{rdb: rdb, prefix: prefix, ttl: ttl, token: uuid.NewString}
}

func (l *RedisLocker) key(name string) string {
	return l.prefix + ":" + name
}

// Acquire takes the lock or fails fast with ErrHeld.
func (l *RedisLocker) Acquire(ctx context.Context, name string) (func(), error) {
	key := l.key(name)
	token := l.token()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Release on a fresh context: the request context may already be done.
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = releaseScript.Run(rctx, l.rdb, []string{key}, token).Err()
		})
	}, nil
}

// LocalLocker implements Locker in process memory.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLocker creates an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

// Acquire takes the lock or fails fast with ErrHeld.
func (l *LocalLocker) Acquire(_ context.Context, name string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[name]; ok {
		return nil, ErrHeld
	}
	l.held[name] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
	}, nil
}

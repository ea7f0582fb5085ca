package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/TilepMony-Project/flowcore/pkg/ports"
)

// ErrLockAcquire is returned when the lock cannot be acquired.
var ErrLockAcquire = errors.New("failed to acquire distributed lock")

// Locker implements ports.DistributedLocker using Redis SET NX PX. The
// execution manager uses it to keep a single active writer per workflow
// across replicas.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{client: client, prefix: prefix}
}

// Lock acquires a distributed lock for the given key.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	val := fmt.Sprintf("%d", time.Now().UnixNano())

	// Simple polling loop with backoff to acquire the lock.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			success, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
			if err != nil {
				return nil, fmt.Errorf("redis error acquiring lock: %w", err)
			}
			if success {
				return func(ctx context.Context) error {
					// Safe unlock: only delete when the value still matches,
					// so an expired-and-reacquired lock is never released by
					// the previous holder.
					script := `
						if redis.call("get", KEYS[1]) == ARGV[1] then
							return redis.call("del", KEYS[1])
						else
							return 0
						end
					`
					return l.client.Eval(ctx, script, []string{lockKey}, val).Err()
				}, nil
			}
			// Retry...
		}
	}
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const runLockKey = "autoclose:run-lock"

// RunLock serializes auto-close sweeps across service instances using a
// Redis SET NX key with a TTL. Holding the lock only prevents overlapping
// sweeps; losing Redis degrades to single-instance mutual exclusion, which
// the engine already provides locally.
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunLock builds a lock around the given client.
func NewRunLock(r *Redis, ttl time.Duration) *RunLock {
	if r == nil {
		return &RunLock{ttl: ttl}
	}
	return &RunLock{client: r.Client, ttl: ttl}
}

// TryAcquire attempts to take the lock. It returns false when another
// instance currently holds it.
func (l *RunLock) TryAcquire(ctx context.Context, token string) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	ok, err := l.client.SetNX(ctx, runLockKey, token, l.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Release drops the lock if this instance still owns it.
func (l *RunLock) Release(ctx context.Context, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	current, err := l.client.Get(ctx, runLockKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if current != token {
		return nil
	}
	return l.client.Del(ctx, runLockKey).Err()
}

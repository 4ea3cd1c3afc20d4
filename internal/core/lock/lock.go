// Package lock serializes rollup and backfill runs per tenant. Engines do
// not lock; the scheduler, HTTP handlers and CLI take the tenant lock
// around each run.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrLocked is returned by TryLock when another holder owns the key.
var ErrLocked = errors.New("lock held by another run")

// Unlock releases a lock obtained from TryLock. Releasing a lock that has
// expired and been taken by someone else is a no-op.
type Unlock func(ctx context.Context) error

// Locker hands out exclusive, expiring locks.
type Locker interface {
	// TryLock acquires key without waiting. It fails with ErrLocked when
	// the key is held. The lock expires after ttl if never released.
	TryLock(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}

// TenantKey is the lock key shared by every run touching a tenant's counters.
func TenantKey(tenantID string) string {
	return "tenant:" + tenantID
}

// WithTenant runs fn while holding the tenant's lock.
func WithTenant(ctx context.Context, l Locker, tenantID string, ttl time.Duration, fn func(ctx context.Context) error) error {
	key := TenantKey(tenantID)
	unlock, err := l.TryLock(ctx, key, ttl)
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer func() {
		// Release even if the run's context was cancelled.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := unlock(releaseCtx); err != nil {
			slog.Warn("[Lock] Failed to release lock", "key", key, "error", err)
		}
	}()

	return fn(ctx)
}

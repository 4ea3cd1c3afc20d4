package lock

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
)

type localEntry struct {
	token   string
	expires time.Time
}

// LocalLocker is an in-process Locker for single-replica deployments.
type LocalLocker struct {
	mu      sync.Mutex
	clock   quartz.Clock
	entries map[string]localEntry
}

// NewLocalLocker creates a LocalLocker. A nil clock uses the real clock.
func NewLocalLocker(clock quartz.Clock) *LocalLocker {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &LocalLocker{clock: clock, entries: make(map[string]localEntry)}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (Unlock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if e, held := l.entries[key]; held && now.Before(e.expires) {
		return nil, ErrLocked
	}

	token := uuid.NewString()
	l.entries[key] = localEntry{token: token, expires: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if e, ok := l.entries[key]; ok && e.token == token {
			delete(l.entries, key)
		}
		return nil
	}, nil
}

package repositories

import (
	"context"
	"time"
)

// Locker serializes work on a key across requests
type Locker interface {
	// WithLock runs fn while holding the lease for key. It returns
	// ErrBusy when the lease cannot be acquired in time.
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// LockOptions bounds how long a lease lives and how long callers wait for it
type LockOptions struct {
	TTL  time.Duration
	Wait time.Duration
}

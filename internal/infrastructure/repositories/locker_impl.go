package repositories

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	domainerrors "slotzi.backend/internal/domain/errors"
	domainRepos "slotzi.backend/internal/domain/repositories"
	"slotzi.backend/pkg/logger"
	redispkg "slotzi.backend/pkg/redis"
)

const lockKeyPrefix = "lock:"

var (
	acquireRedisLock = redispkg.AcquireLock
	releaseRedisLock = func(ctx context.Context, l *redispkg.Lock) error { return l.Release(ctx) }
)

// RedisLocker leases keys in Redis so every replica sees the same owner
type RedisLocker struct {
	opts domainRepos.LockOptions
}

// NewRedisLocker creates a Locker backed by the shared Redis client
func NewRedisLocker(opts domainRepos.LockOptions) domainRepos.Locker {
	return &RedisLocker{opts: opts}
}

// WithLock runs fn while holding the lease for key
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock, err := acquireRedisLock(ctx, lockKeyPrefix+key, l.opts.TTL, l.opts.Wait)
	if err != nil {
		if errors.Is(err, redispkg.ErrLockNotAcquired) {
			return domainerrors.Busy("resource is being modified, please retry")
		}
		return err
	}
	defer func() {
		if relErr := releaseRedisLock(context.WithoutCancel(ctx), lock); relErr != nil {
			logger.Warn(ctx, "Failed to release lock", zap.String("key", lock.Key()), zap.Error(relErr))
		}
	}()

	return fn(ctx)
}

// LocalLocker serializes keys within one process
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
	wait time.Duration
}

// NewLocalLocker creates an in-process Locker
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{held: make(map[string]chan struct{}), wait: wait}
}

// WithLock runs fn while holding key
func (l *LocalLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := l.acquire(ctx, key); err != nil {
		return err
	}
	defer l.release(key)
	return fn(ctx)
}

func (l *LocalLocker) acquire(ctx context.Context, key string) error {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	for {
		l.mu.Lock()
		done, busy := l.held[key]
		if !busy {
			l.held[key] = make(chan struct{})
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return domainerrors.Busy("resource is being modified, please retry")
		}
	}
}

func (l *LocalLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if done, ok := l.held[key]; ok {
		close(done)
		delete(l.held, key)
	}
}

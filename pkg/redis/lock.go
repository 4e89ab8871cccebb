package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when the lease is still held by someone else
// after the wait budget is spent.
var ErrLockNotAcquired = errors.New("lock not acquired")

// ErrLockLost is returned by Release when the lease expired and was taken over.
var ErrLockLost = errors.New("lock lost")

const lockRetryInterval = 25 * time.Millisecond

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Lock is a lease on a single key. Only the holder's token can release it.
type Lock struct {
	key   string
	token string
}

// Key returns the leased key.
func (l *Lock) Key() string {
	return l.key
}

// AcquireLock takes a lease on key for ttl, polling until wait elapses.
func AcquireLock(ctx context.Context, key string, ttl, wait time.Duration) (*Lock, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(wait)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := SetNX(ctx, key, token, ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Lock{key: key, token: token}, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockNotAcquired
		}

		timer := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Release drops the lease if it is still held by this lock.
func (l *Lock) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, client, []string{l.key}, l.token).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLockLost
	}
	return nil
}

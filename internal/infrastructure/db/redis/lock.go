package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	directoryLockKey = "lock:identity-directory"
	lockTTL          = 30 * time.Second
	// leaseMargin is how long before the key expires the holder's lease ends.
	leaseMargin = 5 * time.Second
	lockRetry   = 50 * time.Millisecond
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired holder cannot release a lock taken over by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// DirectoryLock is a single cluster-wide mutex for identity directory writes.
type DirectoryLock struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewDirectoryLock(client *redis.Client, log zerolog.Logger) *DirectoryLock {
	return &DirectoryLock{client: client, log: log}
}

// Lock blocks until the lock is acquired or ctx is done. The returned lease
// is cancelled leaseMargin before the lock key expires, or on unlock.
func (l *DirectoryLock) Lock(ctx context.Context) (context.Context, func(), error) {
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()

	for {
		acquiredAt := time.Now()
		ok, err := l.client.SetNX(ctx, directoryLockKey, token, lockTTL).Result()
		if err != nil {
			return nil, nil, fmt.Errorf("acquire directory lock: %w", err)
		}
		if ok {
			lease, cancel := context.WithDeadline(ctx, acquiredAt.Add(lockTTL-leaseMargin))
			return lease, l.unlocker(token, cancel), nil
		}

		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("acquire directory lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *DirectoryLock) unlocker(token string, cancel context.CancelFunc) func() {
	return func() {
		cancel()
		// the caller's context may already be cancelled
		releaseCtx, done := context.WithTimeout(context.Background(), defaultTimeout)
		defer done()
		if err := releaseScript.Run(releaseCtx, l.client, []string{directoryLockKey}, token).Err(); err != nil {
			l.log.Warn().Err(err).Msg("failed to release directory lock")
		}
	}
}

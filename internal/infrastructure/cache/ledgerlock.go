package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/subtrack/internal/shared/constants"
)

// ErrLockBusy is returned when another writer keeps the ledger locked past the wait budget.
var ErrLockBusy = errors.New("ledger is locked by another request")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LedgerLock serializes ledger mutations of one assignment across instances.
type LedgerLock struct {
	client  *redis.Client
	ttl     time.Duration
	maxWait time.Duration
}

func NewLedgerLock(client *redis.Client, ttl, maxWait time.Duration) *LedgerLock {
	return &LedgerLock{client: client, ttl: ttl, maxWait: maxWait}
}

func ledgerLockKey(assignmentID uint) string {
	return fmt.Sprintf("%s%d", constants.RedisKeyLedgerLock, assignmentID)
}

// Acquire blocks until the lock for assignmentID is held or maxWait elapses.
// The returned release func is safe to call once the lock has expired.
func (l *LedgerLock) Acquire(ctx context.Context, assignmentID uint) (func(), error) {
	key := ledgerLockKey(assignmentID)
	token := uuid.NewString()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 25 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (bool, error) {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return false, backoff.Permanent(fmt.Errorf("failed to acquire ledger lock: %w", err))
		}
		if !ok {
			return false, ErrLockBusy
		}
		return true, nil
	}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(l.maxWait))
	if err != nil {
		return nil, err
	}

	return func() {
		// background: the caller's ctx may already be cancelled
		_ = releaseScript.Run(context.Background(), l.client, []string{key}, token).Err()
	}, nil
}

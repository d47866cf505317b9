package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RunLockKey builds the redis key guarding a payroll run for one period.
func RunLockKey(period Period) string {
	return fmt.Sprintf("payroll:run:%s:lock", period)
}

// RunLock is an advisory per-period lock so the HTTP trigger and the scheduled
// worker do not interleave runs. The payslip unique constraint remains the
// authoritative duplicate guard; losing the lock race is a fast-fail courtesy.
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunLock constructs the lock around a redis client.
func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{client: client, ttl: ttl}
}

// Acquire takes the period lock and returns a release token.
// Returns ErrRunInProgress when another holder owns it.
func (l *RunLock) Acquire(ctx context.Context, period Period) (string, error) {
	if l == nil || l.client == nil {
		return "", nil
	}
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, RunLockKey(period), token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("run lock acquire: %w", err)
	}
	if !ok {
		return "", ErrRunInProgress
	}
	return token, nil
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Release frees the lock if the token still owns it. Expired locks release as a no-op.
func (l *RunLock) Release(ctx context.Context, period Period, token string) error {
	if l == nil || l.client == nil || token == "" {
		return nil
	}
	if err := releaseScript.Run(ctx, l.client, []string{RunLockKey(period)}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("run lock release: %w", err)
	}
	return nil
}

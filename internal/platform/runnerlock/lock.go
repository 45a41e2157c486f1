// Package runnerlock guards the reconciliation cycle with a redis lease so
// two runners never interleave read-modify-write passes over the persisted
// documents. The engine assumes a single writer; this makes that assumption
// an enforced contract instead of an operational convention.
package runnerlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"offramp/pkg/platform/sentinel"
)

// releaseScript deletes the lock only if the stored token still matches, so
// a runner that outlived its lease cannot release a successor's lock.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// commands is the subset of redis operations the lock needs.
type commands interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Lock is a lease-based mutual exclusion guard keyed per eligibility scope.
type Lock struct {
	rdb   commands
	key   string
	ttl   time.Duration
	token string
}

// New builds a lock for the given scope. The TTL bounds how long a crashed
// runner can block its replacement.
func New(rdb commands, scope string, ttl time.Duration) *Lock {
	return &Lock{
		rdb: rdb,
		key: fmt.Sprintf("offramp:runner-lock:%s", scope),
		ttl: ttl,
	}
}

// Acquire takes the lease. Returns sentinel.ErrConflict if another runner
// holds it.
func (l *Lock) Acquire(ctx context.Context) error {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire runner lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("runner lock for %s held elsewhere: %w", l.key, sentinel.ErrConflict)
	}
	l.token = token
	return nil
}

// Release gives the lease back. Safe to call when the lease already expired;
// it will not delete a lock acquired by someone else.
func (l *Lock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	token := l.token
	l.token = ""
	if err := l.rdb.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release runner lock: %w", err)
	}
	return nil
}

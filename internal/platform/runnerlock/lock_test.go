package runnerlock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offramp/pkg/platform/sentinel"
)

// fakeCommands records lock traffic without a live redis.
type fakeCommands struct {
	held      bool
	setErr    error
	evalCalls int
	lastKey   string
}

func (f *fakeCommands) SetNX(_ context.Context, key string, _ interface{}, _ time.Duration) *redis.BoolCmd {
	f.lastKey = key
	if f.setErr != nil {
		cmd := redis.NewBoolResult(false, f.setErr)
		return cmd
	}
	if f.held {
		return redis.NewBoolResult(false, nil)
	}
	f.held = true
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCommands) Eval(_ context.Context, _ string, _ []string, _ ...interface{}) *redis.Cmd {
	f.evalCalls++
	f.held = false
	return redis.NewCmdResult(int64(1), nil)
}

func TestLock(t *testing.T) {
	ctx := context.Background()

	t.Run("acquire and release", func(t *testing.T) {
		rdb := &fakeCommands{}
		lock := New(rdb, "OU=Disabled", time.Minute)

		require.NoError(t, lock.Acquire(ctx))
		assert.Equal(t, "offramp:runner-lock:OU=Disabled", rdb.lastKey)

		require.NoError(t, lock.Release(ctx))
		assert.Equal(t, 1, rdb.evalCalls)
	})

	t.Run("second acquirer gets conflict", func(t *testing.T) {
		rdb := &fakeCommands{}
		first := New(rdb, "scope", time.Minute)
		second := New(rdb, "scope", time.Minute)

		require.NoError(t, first.Acquire(ctx))
		err := second.Acquire(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, sentinel.ErrConflict))
	})

	t.Run("release without acquire is a no-op", func(t *testing.T) {
		rdb := &fakeCommands{}
		lock := New(rdb, "scope", time.Minute)
		require.NoError(t, lock.Release(ctx))
		assert.Equal(t, 0, rdb.evalCalls)
	})

	t.Run("redis failure surfaces", func(t *testing.T) {
		rdb := &fakeCommands{setErr: errors.New("connection refused")}
		lock := New(rdb, "scope", time.Minute)
		require.Error(t, lock.Acquire(ctx))
	})
}

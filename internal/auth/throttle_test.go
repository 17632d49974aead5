package auth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounters struct {
	values  map[string]int64
	ttls    map[string]time.Duration
	failErr error
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{values: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCounters) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failErr != nil {
		return redis.NewStringResult("", f.failErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.FormatInt(v, 10), nil)
}

func (f *fakeCounters) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.failErr != nil {
		return redis.NewIntResult(0, f.failErr)
	}
	f.values[key]++
	return redis.NewIntResult(f.values[key], nil)
}

func (f *fakeCounters) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCounters) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			n++
		}
		delete(f.values, k)
		delete(f.ttls, k)
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisLoginThrottle_LocksAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	counters := newFakeCounters()
	throttle := newRedisLoginThrottle(counters, 3, 10*time.Minute)

	for i := 0; i < 3; i++ {
		locked, err := throttle.Locked(ctx, "john@x.com")
		require.NoError(t, err)
		assert.False(t, locked, "attempt %d", i+1)
		require.NoError(t, throttle.RecordFailure(ctx, "john@x.com"))
	}

	locked, err := throttle.Locked(ctx, " JOHN@x.com ")
	require.NoError(t, err)
	assert.True(t, locked, "lookup folds case and whitespace")
	assert.Equal(t, 10*time.Minute, counters.ttls["login_failures:john@x.com"])

	other, err := throttle.Locked(ctx, "jane@x.com")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestRedisLoginThrottle_ResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	throttle := newRedisLoginThrottle(newFakeCounters(), 1, time.Minute)

	require.NoError(t, throttle.RecordFailure(ctx, "john@x.com"))
	locked, err := throttle.Locked(ctx, "john@x.com")
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, throttle.Reset(ctx, "john@x.com"))
	locked, err = throttle.Locked(ctx, "john@x.com")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRedisLoginThrottle_DisabledAndErrors(t *testing.T) {
	ctx := context.Background()
	counters := newFakeCounters()

	disabled := newRedisLoginThrottle(counters, 0, time.Minute)
	for i := 0; i < 10; i++ {
		require.NoError(t, disabled.RecordFailure(ctx, "john@x.com"))
	}
	locked, err := disabled.Locked(ctx, "john@x.com")
	require.NoError(t, err)
	assert.False(t, locked)

	counters.failErr = errors.New("redis down")
	broken := newRedisLoginThrottle(counters, 3, time.Minute)
	_, err = broken.Locked(ctx, "john@x.com")
	assert.ErrorIs(t, err, counters.failErr)
	assert.ErrorIs(t, broken.RecordFailure(ctx, "john@x.com"), counters.failErr)
}

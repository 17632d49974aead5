package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed logins per email and locks the email out once
// the limit is reached inside the window.
type LoginThrottle interface {
	Locked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// counterClient is the subset of the redis client used by the throttle.
type counterClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLoginThrottle keeps failure counters in redis with the window as TTL.
type RedisLoginThrottle struct {
	client      counterClient
	maxFailures int
	window      time.Duration
}

const loginFailurePrefix = "login_failures:"

// NewRedisLoginThrottle builds a throttle. maxFailures <= 0 disables locking.
func NewRedisLoginThrottle(client *redis.Client, maxFailures int, window time.Duration) *RedisLoginThrottle {
	return newRedisLoginThrottle(client, maxFailures, window)
}

func newRedisLoginThrottle(client counterClient, maxFailures int, window time.Duration) *RedisLoginThrottle {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &RedisLoginThrottle{client: client, maxFailures: maxFailures, window: window}
}

func (t *RedisLoginThrottle) key(email string) string {
	return loginFailurePrefix + strings.ToLower(strings.TrimSpace(email))
}

// Locked reports whether email has used up its failed attempts.
func (t *RedisLoginThrottle) Locked(ctx context.Context, email string) (bool, error) {
	if t.maxFailures <= 0 {
		return false, nil
	}
	raw, err := t.client.Get(ctx, t.key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "read login failures")
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return false, errors.Wrap(err, "parse login failures")
	}
	return count >= t.maxFailures, nil
}

// RecordFailure increments the counter; the first failure starts the window.
func (t *RedisLoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return errors.Wrap(err, "increment login failures")
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return errors.Wrap(err, "expire login failures")
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *RedisLoginThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil {
		return errors.Wrap(err, "reset login failures")
	}
	return nil
}

package shopauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// loginLockoutLimiter counts consecutive failed logins per user in a
// rolling Redis window. It is the attempt-velocity gate consulted by the
// login use case before it decides to lock an account; the persisted
// counter on the User record remains the fallback when Redis is down.
type loginLockoutLimiter struct {
	redis  redis.UniversalClient
	config LockoutConfig
}

func newLoginLockoutLimiter(redisClient redis.UniversalClient, cfg LockoutConfig) *loginLockoutLimiter {
	return &loginLockoutLimiter{redis: redisClient, config: cfg}
}

func (l *loginLockoutLimiter) key(userID string) string {
	return "salo:" + userID
}

// RecordFailure increments the failure counter for a user. It returns
// true when the threshold has been reached and the caller should lock
// the account.
func (l *loginLockoutLimiter) RecordFailure(ctx context.Context, userID string) (bool, error) {
	if l == nil || !l.config.Enabled || userID == "" {
		return false, nil
	}

	count, err := l.redis.Incr(ctx, l.key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}

	if count == 1 && l.config.Window > 0 {
		// TTL on first failure makes the counter a rolling window.
		if err := l.redis.Expire(ctx, l.key(userID), l.config.Window).Err(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
		}
	}

	return count >= int64(l.config.Threshold), nil
}

// Reset clears the failure counter after a successful login or a manual
// unlock.
func (l *loginLockoutLimiter) Reset(ctx context.Context, userID string) error {
	if l == nil || !l.config.Enabled || userID == "" {
		return nil
	}

	if err := l.redis.Del(ctx, l.key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	return nil
}

// FailureCount returns the current windowed failure count for a user.
func (l *loginLockoutLimiter) FailureCount(ctx context.Context, userID string) (int, error) {
	if l == nil || !l.config.Enabled || userID == "" {
		return 0, nil
	}

	count, err := l.redis.Get(ctx, l.key(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	return int(count), nil
}

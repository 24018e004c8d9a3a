package shopauth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// resetTokenMarker records redeemed password-reset token IDs in Redis so
// a captured reset link cannot be replayed within its TTL. The signed
// token itself carries no server-side state; the marker key lives only
// for the token's remaining life.
type resetTokenMarker struct {
	redis redis.UniversalClient
}

func newResetTokenMarker(redisClient redis.UniversalClient) *resetTokenMarker {
	return &resetTokenMarker{redis: redisClient}
}

func (m *resetTokenMarker) key(jti string) string {
	return "sarm:" + jti
}

// Consume marks jti as redeemed. It returns false when the token was
// already redeemed.
func (m *resetTokenMarker) Consume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if m == nil || jti == "" {
		return false, fmt.Errorf("%w: missing token id", ErrResetMarkerUnavailable)
	}
	if ttl <= 0 {
		ttl = time.Second
	}

	ok, err := m.redis.SetNX(ctx, m.key(jti), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrResetMarkerUnavailable, err)
	}
	return ok, nil
}

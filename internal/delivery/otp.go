package delivery

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// generateOTP returns a six digit numeric code from a CSPRNG.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// otpMatches compares codes in constant time.
func otpMatches(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// OTPThrottle limits verification attempts per delivery. The counter lives in
// Redis with a rolling window; if Redis is unreachable verification proceeds
// (fail-open) because gate operations must not depend on the cache.
type OTPThrottle struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	logger *zap.Logger
}

func NewOTPThrottle(rdb *redis.Client, limit int64, window time.Duration, logger ...*zap.Logger) *OTPThrottle {
	l := zap.L().Named("delivery.otp_throttle")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("delivery.otp_throttle")
	}
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &OTPThrottle{rdb: rdb, limit: limit, window: window, logger: l}
}

func (t *OTPThrottle) key(deliveryID string) string {
	return "otp_attempts:" + deliveryID
}

// Allow records one attempt and reports whether it is within the limit.
func (t *OTPThrottle) Allow(ctx context.Context, deliveryID string) bool {
	key := t.key(deliveryID)

	count, err := t.rdb.Incr(ctx, key).Result()
	if err != nil {
		t.logger.Warn("otp throttle unavailable, allowing attempt",
			zap.String("delivery_id", deliveryID),
			zap.Error(err),
		)
		return true
	}
	if count == 1 {
		if err := t.rdb.Expire(ctx, key, t.window).Err(); err != nil {
			t.logger.Warn("otp throttle expire failed", zap.Error(err))
		}
	}
	return count <= t.limit
}

// Reset clears the attempt counter after a successful verification.
func (t *OTPThrottle) Reset(ctx context.Context, deliveryID string) {
	if err := t.rdb.Del(ctx, t.key(deliveryID)).Err(); err != nil {
		t.logger.Warn("otp throttle reset failed",
			zap.String("delivery_id", deliveryID),
			zap.Error(err),
		)
	}
}

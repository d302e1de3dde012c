package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTP purposes namespace the Redis keys so a login code can never confirm a
// delivery and vice versa.
const (
	PurposeLogin    = "login"
	PurposeDelivery = "delivery"
)

var (
	ErrOTPNotFound = errors.New("verification code not found or expired")
	ErrOTPMismatch = errors.New("verification code does not match")
)

// OTPStore keeps one-time codes in Redis with a TTL. Codes are single use:
// a successful verification consumes the stored code.
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore creates a new OTP store
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

func otpKey(purpose, subject string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, subject)
}

// Set stores a code for the subject, replacing any previous one
func (s *OTPStore) Set(ctx context.Context, purpose, subject, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(purpose, subject), code, ttl).Err()
}

// Verify checks the code for the subject and consumes it on success. A failed
// attempt leaves the stored code in place so a typo does not force a resend.
func (s *OTPStore) Verify(ctx context.Context, purpose, subject, code string) error {
	key := otpKey(purpose, subject)

	stored, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrOTPNotFound
	}
	if err != nil {
		return err
	}

	if stored != code {
		return ErrOTPMismatch
	}

	return s.client.Del(ctx, key).Err()
}

// Invalidate removes any pending code for the subject
func (s *OTPStore) Invalidate(ctx context.Context, purpose, subject string) error {
	return s.client.Del(ctx, otpKey(purpose, subject)).Err()
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*OTPStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewOTPStore(client), mr
}

func TestOTPStore_VerifyConsumesCode(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, PurposeLogin, "user@example.com", "123456", time.Minute))

	require.NoError(t, store.Verify(ctx, PurposeLogin, "user@example.com", "123456"))

	// Second verification must fail: the code was consumed.
	err := store.Verify(ctx, PurposeLogin, "user@example.com", "123456")
	require.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPStore_WrongCodeDoesNotConsume(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, PurposeLogin, "user@example.com", "123456", time.Minute))

	err := store.Verify(ctx, PurposeLogin, "user@example.com", "654321")
	require.ErrorIs(t, err, ErrOTPMismatch)

	// The correct code still works after a failed attempt.
	require.NoError(t, store.Verify(ctx, PurposeLogin, "user@example.com", "123456"))
}

func TestOTPStore_ExpiredCode(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, PurposeDelivery, "sale-1", "999999", time.Minute))

	mr.FastForward(2 * time.Minute)

	err := store.Verify(ctx, PurposeDelivery, "sale-1", "999999")
	require.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPStore_PurposesAreIsolated(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, PurposeLogin, "subject", "111111", time.Minute))

	err := store.Verify(ctx, PurposeDelivery, "subject", "111111")
	require.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPStore_Invalidate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, PurposeLogin, "subject", "111111", time.Minute))
	require.NoError(t, store.Invalidate(ctx, PurposeLogin, "subject"))

	err := store.Verify(ctx, PurposeLogin, "subject", "111111")
	require.ErrorIs(t, err, ErrOTPNotFound)
}

package discount

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls    int
	ceilings map[string]float64
	err      error
}

func (r *stubResolver) ResolveCeiling(_ context.Context, employeeID uuid.UUID, productTypeID *uuid.UUID) (*float64, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	key := cacheKey(employeeID, productTypeID)
	if ceiling, ok := r.ceilings[key]; ok {
		return &ceiling, nil
	}
	return nil, nil
}

func TestMaxDiscountCachesResolverResult(t *testing.T) {
	employeeID := uuid.New()
	typeID := uuid.New()
	resolver := &stubResolver{ceilings: map[string]float64{
		cacheKey(employeeID, &typeID): 15,
	}}
	authority := NewAuthority(resolver)

	ctx := context.Background()
	require.Equal(t, 15.0, authority.MaxDiscount(ctx, employeeID, &typeID))
	require.Equal(t, 15.0, authority.MaxDiscount(ctx, employeeID, &typeID))
	require.Equal(t, 1, resolver.calls)

	// A different scope is a different cache entry.
	require.Equal(t, Unrestricted, authority.MaxDiscount(ctx, employeeID, nil))
	require.Equal(t, 2, resolver.calls)
}

func TestMaxDiscountFailsOpenAndCachesFallback(t *testing.T) {
	resolver := &stubResolver{err: errors.New("resolver down")}
	authority := NewAuthority(resolver)

	ctx := context.Background()
	employeeID := uuid.New()
	require.Equal(t, Unrestricted, authority.MaxDiscount(ctx, employeeID, nil))
	require.Equal(t, Unrestricted, authority.MaxDiscount(ctx, employeeID, nil))
	require.Equal(t, 1, resolver.calls, "fail-open fallback must be cached")
}

func TestMaxDiscountZeroCeilingIsEnforced(t *testing.T) {
	employeeID := uuid.New()
	resolver := &stubResolver{ceilings: map[string]float64{
		cacheKey(employeeID, nil): 0,
	}}
	authority := NewAuthority(resolver)

	result := authority.ValidateDiscount(context.Background(), employeeID, nil, 5)
	require.False(t, result.Valid)
	require.Equal(t, 0.0, result.MaxAllowed)
}

func TestValidateDiscountZeroRequestSkipsResolver(t *testing.T) {
	resolver := &stubResolver{err: errors.New("must not be called")}
	authority := NewAuthority(resolver)

	result := authority.ValidateDiscount(context.Background(), uuid.New(), nil, 0)
	require.True(t, result.Valid)
	require.Zero(t, resolver.calls)
}

func TestValidateDiscountCeilingIsInclusive(t *testing.T) {
	employeeID := uuid.New()
	resolver := &stubResolver{ceilings: map[string]float64{
		cacheKey(employeeID, nil): 10,
	}}
	authority := NewAuthority(resolver)

	ctx := context.Background()
	require.True(t, authority.ValidateDiscount(ctx, employeeID, nil, 10).Valid)
	require.False(t, authority.ValidateDiscount(ctx, employeeID, nil, 10.01).Valid)
}

func TestValidateDiscountScopedCeilings(t *testing.T) {
	employeeID := uuid.New()
	smartphones := uuid.New()
	// Role-wide ceiling of 10%, individual 15% ceiling for smartphones.
	resolver := &stubResolver{ceilings: map[string]float64{
		cacheKey(employeeID, &smartphones): 15,
		cacheKey(employeeID, nil):          10,
	}}
	authority := NewAuthority(resolver)
	ctx := context.Background()

	onSmartphone := authority.ValidateDiscount(ctx, employeeID, &smartphones, 12)
	require.True(t, onSmartphone.Valid)
	require.Equal(t, 15.0, onSmartphone.MaxAllowed)

	elsewhere := authority.ValidateDiscount(ctx, employeeID, nil, 12)
	require.False(t, elsewhere.Valid)
	require.Equal(t, 10.0, elsewhere.MaxAllowed)
	require.Contains(t, elsewhere.Error, "employee")

	typed := authority.ValidateDiscount(ctx, employeeID, &smartphones, 20)
	require.False(t, typed.Valid)
	require.Contains(t, typed.Error, "product type")
}

func TestClearCacheForcesRefetch(t *testing.T) {
	employeeID := uuid.New()
	resolver := &stubResolver{ceilings: map[string]float64{
		cacheKey(employeeID, nil): 25,
	}}
	authority := NewAuthority(resolver)
	ctx := context.Background()

	authority.MaxDiscount(ctx, employeeID, nil)
	authority.ClearCache()
	authority.MaxDiscount(ctx, employeeID, nil)
	require.Equal(t, 2, resolver.calls)
}

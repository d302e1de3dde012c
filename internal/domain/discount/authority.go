package discount

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Unrestricted is the ceiling applied when no limit is configured for an
// employee, or when the resolver cannot be reached. Failing open is a
// deliberate business decision: a blocked sale costs more than a temporarily
// unenforced limit. Do not change this to fail-closed without a product call.
const Unrestricted = 100.0

// Resolver answers what the configured maximum discount is for an employee,
// optionally scoped to a product type. A nil percent means no limit is
// configured (unrestricted); an explicit zero is a real, enforced restriction.
type Resolver interface {
	ResolveCeiling(ctx context.Context, employeeID uuid.UUID, productTypeID *uuid.UUID) (*float64, error)
}

// Validation is the structured outcome of a discount check. It is returned
// instead of an error so callers can render it inline.
type Validation struct {
	Valid      bool    `json:"valid"`
	MaxAllowed float64 `json:"max_allowed"`
	Error      string  `json:"error,omitempty"`
}

// Authority resolves and validates discount ceilings, memoizing resolver
// results per (employee, product type) pair for the lifetime of the instance.
// A stale ceiling is served until ClearCache; limits change rarely enough that
// the staleness window is accepted.
type Authority struct {
	resolver Resolver

	mu    sync.Mutex
	cache map[string]float64
}

// NewAuthority creates a discount authority backed by the given resolver.
func NewAuthority(resolver Resolver) *Authority {
	return &Authority{
		resolver: resolver,
		cache:    make(map[string]float64),
	}
}

// MaxDiscount returns the maximum discount percent the employee may grant,
// optionally scoped to a product type. Resolver failures are swallowed and
// degrade to Unrestricted; the fallback is cached so a failing resolver is not
// hammered within one session.
func (a *Authority) MaxDiscount(ctx context.Context, employeeID uuid.UUID, productTypeID *uuid.UUID) float64 {
	key := cacheKey(employeeID, productTypeID)

	a.mu.Lock()
	if ceiling, ok := a.cache[key]; ok {
		a.mu.Unlock()
		return ceiling
	}
	a.mu.Unlock()

	ceiling := Unrestricted
	resolved, err := a.resolver.ResolveCeiling(ctx, employeeID, productTypeID)
	switch {
	case err != nil:
		log.Printf("discount: ceiling lookup failed for %s, failing open: %v", key, err)
	case resolved != nil:
		ceiling = *resolved
	}

	a.mu.Lock()
	a.cache[key] = ceiling
	a.mu.Unlock()

	return ceiling
}

// ValidateDiscount checks a requested discount percent against the employee's
// ceiling. A request of exactly zero is always valid and never consults the
// resolver. The ceiling itself is a valid request (non-strict upper bound).
func (a *Authority) ValidateDiscount(ctx context.Context, employeeID uuid.UUID, productTypeID *uuid.UUID, requestedPercent float64) Validation {
	if requestedPercent == 0 {
		return Validation{Valid: true, MaxAllowed: Unrestricted}
	}

	maxAllowed := a.MaxDiscount(ctx, employeeID, productTypeID)
	if requestedPercent <= maxAllowed {
		return Validation{Valid: true, MaxAllowed: maxAllowed}
	}

	scope := "this employee"
	if productTypeID != nil {
		scope = "this product type"
	}
	return Validation{
		Valid:      false,
		MaxAllowed: maxAllowed,
		Error:      fmt.Sprintf("discount %.2f%% exceeds the maximum of %.2f%% allowed for %s", requestedPercent, maxAllowed, scope),
	}
}

// ClearCache drops all memoized ceilings, forcing fresh resolution. Used when
// previously resolved limits should no longer be trusted, e.g. the acting
// employee changed.
func (a *Authority) ClearCache() {
	a.mu.Lock()
	a.cache = make(map[string]float64)
	a.mu.Unlock()
}

func cacheKey(employeeID uuid.UUID, productTypeID *uuid.UUID) string {
	scope := "all"
	if productTypeID != nil {
		scope = productTypeID.String()
	}
	return employeeID.String() + ":" + scope
}

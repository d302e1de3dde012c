package composer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/voltmart/backoffice-api/internal/domain/discount"
)

type stubResolver struct {
	ceilings map[uuid.UUID]float64 // keyed by product type; nil scope uses fallback
	fallback *float64
	err      error
}

func (r *stubResolver) ResolveCeiling(_ context.Context, _ uuid.UUID, productTypeID *uuid.UUID) (*float64, error) {
	if r.err != nil {
		return nil, r.err
	}
	if productTypeID != nil {
		if ceiling, ok := r.ceilings[*productTypeID]; ok {
			return &ceiling, nil
		}
	}
	return r.fallback, nil
}

func newTestComposer(resolver discount.Resolver) *Composer {
	return New(uuid.New(), discount.NewAuthority(resolver))
}

func TestNewStartsWithOneDefaultLine(t *testing.T) {
	c := newTestComposer(&stubResolver{})

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, 1, items[0].Quantity)
	require.Equal(t, 0.0, items[0].UnitPrice)
	require.Equal(t, 0.0, items[0].DiscountPercent)
	require.Equal(t, 0.0, items[0].TaxRatePercent)
	require.Equal(t, discount.Unrestricted, items[0].MaxDiscountAllowed)
	require.True(t, c.CanSubmit())
}

func TestRemoveItemKeepsLastLine(t *testing.T) {
	c := newTestComposer(&stubResolver{})

	require.False(t, c.RemoveItem(0))
	require.Len(t, c.Items(), 1)

	c.AddItem()
	require.True(t, c.RemoveItem(1))
	require.Len(t, c.Items(), 1)
}

func TestRemoveItemShiftsValidationErrors(t *testing.T) {
	ceiling := 5.0
	c := newTestComposer(&stubResolver{fallback: &ceiling})
	ctx := context.Background()

	c.AddItem()
	c.AddItem()

	// Lines 1 and 2 both exceed the 5% ceiling.
	require.NoError(t, c.SetDiscountPercent(ctx, 1, 10))
	require.NoError(t, c.SetDiscountPercent(ctx, 2, 20))
	require.Len(t, c.Errors(), 2)

	require.True(t, c.RemoveItem(1))

	errs := c.Errors()
	require.Len(t, errs, 1)
	require.Contains(t, errs[1], "20.00%", "error for the old index 2 must now live at index 1")
	require.False(t, c.CanSubmit())
}

func TestEditsRecomputeLineTotal(t *testing.T) {
	c := newTestComposer(&stubResolver{})
	ctx := context.Background()

	require.NoError(t, c.SetUnitPrice(0, 1000))
	require.NoError(t, c.SetQuantity(0, 2))
	require.NoError(t, c.SetDiscountPercent(ctx, 0, 10))
	require.NoError(t, c.SetTaxRate(0, 18))

	items := c.Items()
	require.Equal(t, 2124.0, items[0].LineTotal)

	totals := c.Totals()
	require.Equal(t, 2000.0, totals.Subtotal)
	require.Equal(t, 200.0, totals.DiscountTotal)
	require.Equal(t, 324.0, totals.TaxTotal)
	require.Equal(t, 2124.0, totals.GrandTotal)
}

func TestSetProductResolvesCeiling(t *testing.T) {
	smartphones := uuid.New()
	c := newTestComposer(&stubResolver{ceilings: map[uuid.UUID]float64{smartphones: 15}})
	ctx := context.Background()

	require.NoError(t, c.SetProduct(ctx, 0, ProductSelection{
		ProductID:      uuid.New(),
		ProductTypeID:  &smartphones,
		UnitPrice:      499.99,
		TaxRatePercent: 16,
	}))

	item := c.Items()[0]
	require.Equal(t, 15.0, item.MaxDiscountAllowed)
	require.Equal(t, 499.99, item.UnitPrice)
	require.Equal(t, 16.0, item.TaxRatePercent)
}

func TestDiscountErrorBlocksSubmission(t *testing.T) {
	ceiling := 10.0
	c := newTestComposer(&stubResolver{fallback: &ceiling})
	ctx := context.Background()

	require.NoError(t, c.SetDiscountPercent(ctx, 0, 12))
	require.False(t, c.CanSubmit())

	// Lowering the discount back within the ceiling clears the error.
	require.NoError(t, c.SetDiscountPercent(ctx, 0, 10))
	require.True(t, c.CanSubmit())
}

func TestResolverFailureFailsOpen(t *testing.T) {
	c := newTestComposer(&stubResolver{err: errors.New("resolver down")})
	ctx := context.Background()

	require.NoError(t, c.SetDiscountPercent(ctx, 0, 80))
	require.True(t, c.CanSubmit())
	require.Equal(t, discount.Unrestricted, c.Items()[0].MaxDiscountAllowed)
}

func TestWarehouseChangeKeepsLines(t *testing.T) {
	c := newTestComposer(&stubResolver{})
	ctx := context.Background()

	require.NoError(t, c.SetProduct(ctx, 0, ProductSelection{ProductID: uuid.New(), UnitPrice: 100}))
	c.AddItem()
	require.NoError(t, c.SetProduct(ctx, 1, ProductSelection{ProductID: uuid.New(), UnitPrice: 250}))
	require.NoError(t, c.SetDiscountPercent(ctx, 1, 5))

	before := c.Items()

	warehouseID := uuid.New()
	c.SetWarehouse(&warehouseID)

	require.Equal(t, before, c.Items())
	require.Equal(t, &warehouseID, c.WarehouseID())
}

func TestSnapshotsAreCopies(t *testing.T) {
	c := newTestComposer(&stubResolver{})

	items := c.Items()
	items[0].UnitPrice = 999

	require.Equal(t, 0.0, c.Items()[0].UnitPrice)
}

func TestIndexOutOfRange(t *testing.T) {
	c := newTestComposer(&stubResolver{})
	require.ErrorIs(t, c.SetQuantity(5, 1), ErrIndexOutOfRange)
	require.ErrorIs(t, c.SetUnitPrice(-1, 1), ErrIndexOutOfRange)
}

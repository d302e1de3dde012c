package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLineDecomposition(t *testing.T) {
	amounts := ComputeLine(LineInput{
		UnitPrice:       1000,
		Quantity:        2,
		DiscountPercent: 10,
		TaxRatePercent:  18,
	})

	require.Equal(t, 2000.0, amounts.Gross)
	require.Equal(t, 200.0, amounts.Discount)
	require.Equal(t, 1800.0, amounts.Taxable)
	require.Equal(t, 324.0, amounts.Tax)
	require.Equal(t, 2124.0, amounts.Total)
}

func TestComputeLineMatchesClosedForm(t *testing.T) {
	cases := []LineInput{
		{UnitPrice: 0, Quantity: 0, DiscountPercent: 0, TaxRatePercent: 0},
		{UnitPrice: 1, Quantity: 1, DiscountPercent: 100, TaxRatePercent: 16},
		{UnitPrice: 19.99, Quantity: 3, DiscountPercent: 5, TaxRatePercent: 18},
		{UnitPrice: 149999.5, Quantity: 7, DiscountPercent: 12.5, TaxRatePercent: 20},
		{UnitPrice: 0.01, Quantity: 1000, DiscountPercent: 33.33, TaxRatePercent: 7.7},
	}

	for _, in := range cases {
		amounts := ComputeLine(in)
		closed := in.UnitPrice * float64(in.Quantity) *
			(1 - in.DiscountPercent/100) * (1 + in.TaxRatePercent/100)
		assert.InDelta(t, closed, amounts.Total, 1e-9,
			"unitPrice=%v qty=%d disc=%v tax=%v", in.UnitPrice, in.Quantity, in.DiscountPercent, in.TaxRatePercent)
	}
}

func TestComputeTotalsIdentity(t *testing.T) {
	lines := []LineInput{
		{UnitPrice: 1000, Quantity: 2, DiscountPercent: 10, TaxRatePercent: 18},
		{UnitPrice: 49.9, Quantity: 5, DiscountPercent: 0, TaxRatePercent: 16},
		{UnitPrice: 320, Quantity: 1, DiscountPercent: 25, TaxRatePercent: 0},
	}

	totals := ComputeTotals(lines)
	require.Equal(t, totals.GrandTotal, totals.Subtotal-totals.DiscountTotal+totals.TaxTotal)

	// Recomputing from the same lines yields the same figures.
	again := ComputeTotals(lines)
	require.Equal(t, totals, again)
}

func TestComputeTotalsSeparateReductions(t *testing.T) {
	lines := []LineInput{
		{UnitPrice: 1000, Quantity: 2, DiscountPercent: 10, TaxRatePercent: 18},
		{UnitPrice: 200, Quantity: 3, DiscountPercent: 50, TaxRatePercent: 16},
	}

	totals := ComputeTotals(lines)
	require.Equal(t, 2600.0, totals.Subtotal)
	require.Equal(t, 500.0, totals.DiscountTotal)
	require.Equal(t, 324.0+48.0, totals.TaxTotal)

	var summed float64
	for _, line := range lines {
		summed += ComputeLine(line).Total
	}
	assert.InDelta(t, summed, totals.GrandTotal, 1e-9)
}

func TestComputeLineTreatsNonNumericAsZero(t *testing.T) {
	amounts := ComputeLine(LineInput{
		UnitPrice:       math.NaN(),
		Quantity:        2,
		DiscountPercent: math.Inf(1),
		TaxRatePercent:  18,
	})
	require.Equal(t, 0.0, amounts.Total)

	amounts = ComputeLine(LineInput{UnitPrice: 100, Quantity: -3, DiscountPercent: 10, TaxRatePercent: 18})
	require.Equal(t, 0.0, amounts.Gross)
}

func TestCentsRoundTrip(t *testing.T) {
	require.Equal(t, int64(212400), ToCents(2124.0))
	require.Equal(t, int64(1999), ToCents(19.99))
	require.Equal(t, 19.99, FromCents(1999))
	require.Equal(t, int64(0), ToCents(math.NaN()))
}

package pricing

import "math"

// LineInput holds the operator-editable fields that drive a line's price.
type LineInput struct {
	UnitPrice       float64
	Quantity        int
	DiscountPercent float64
	TaxRatePercent  float64
}

// LineAmounts is the decomposed result of pricing a single line.
type LineAmounts struct {
	Gross    float64 `json:"gross"`
	Discount float64 `json:"discount"`
	Taxable  float64 `json:"taxable"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// OrderTotals aggregates line amounts across an order.
// GrandTotal = Subtotal - DiscountTotal + TaxTotal, always.
type OrderTotals struct {
	Subtotal      float64 `json:"subtotal"`
	DiscountTotal float64 `json:"discount_total"`
	TaxTotal      float64 `json:"tax_total"`
	GrandTotal    float64 `json:"grand_total"`
}

// ComputeLine prices a single line item:
//
//	gross    = unitPrice * quantity
//	discount = gross * discountPercent / 100
//	taxable  = gross - discount
//	tax      = taxable * taxRatePercent / 100
//	total    = taxable + tax
//
// The computation never fails; NaN and Inf inputs are treated as zero.
func ComputeLine(in LineInput) LineAmounts {
	unitPrice := sanitize(in.UnitPrice)
	discountPct := sanitize(in.DiscountPercent)
	taxPct := sanitize(in.TaxRatePercent)
	qty := in.Quantity
	if qty < 0 {
		qty = 0
	}

	gross := unitPrice * float64(qty)
	discount := gross * discountPct / 100
	taxable := gross - discount
	tax := taxable * taxPct / 100

	return LineAmounts{
		Gross:    gross,
		Discount: discount,
		Taxable:  taxable,
		Tax:      tax,
		Total:    taxable + tax,
	}
}

// ComputeTotals aggregates order-level totals. Each aggregate is its own
// reduction over the per-line decomposition rather than a sum of line totals,
// so the four figures stay individually reportable.
func ComputeTotals(lines []LineInput) OrderTotals {
	var totals OrderTotals
	for _, line := range lines {
		amounts := ComputeLine(line)
		totals.Subtotal += amounts.Gross
		totals.DiscountTotal += amounts.Discount
		totals.TaxTotal += amounts.Tax
	}
	totals.GrandTotal = totals.Subtotal - totals.DiscountTotal + totals.TaxTotal
	return totals
}

// ToCents converts a decimal amount to cents for storage.
func ToCents(amount float64) int64 {
	return int64(math.Round(sanitize(amount) * 100))
}

// FromCents converts a stored cents amount back to a decimal.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

package composer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/discount"
	"github.com/voltmart/backoffice-api/internal/domain/enum"
	"github.com/voltmart/backoffice-api/internal/domain/pricing"
)

// ErrIndexOutOfRange is returned when a line edit names an index that does not
// exist in the draft.
var ErrIndexOutOfRange = errors.New("composer: line index out of range")

// LineItem is one row of a sale being composed. LineTotal is derived; it is
// recomputed on every edit and never assigned directly.
type LineItem struct {
	ProductID          uuid.UUID  `json:"product_id"`
	ProductTypeID      *uuid.UUID `json:"product_type_id,omitempty"`
	Quantity           int        `json:"quantity"`
	UnitPrice          float64    `json:"unit_price"`
	MinPrice           float64    `json:"min_price"` // advisory bound, not enforced
	MaxPrice           float64    `json:"max_price"` // advisory bound, not enforced
	DiscountPercent    float64    `json:"discount_percent"`
	MaxDiscountAllowed float64    `json:"max_discount_allowed"`
	TaxRatePercent     float64    `json:"tax_rate_percent"`
	LineTotal          float64    `json:"line_total"`
}

// ProductSelection carries the catalog fields copied onto a line when the
// operator picks a product.
type ProductSelection struct {
	ProductID      uuid.UUID
	ProductTypeID  *uuid.UUID
	UnitPrice      float64
	MinPrice       float64
	MaxPrice       float64
	TaxRatePercent float64
}

// Composer owns the mutable state of one sale-entry session: the line items,
// the sale-level fields and the per-index discount error map. All accessors
// return copies, so callers never observe in-place mutation.
//
// Ceiling lookups and discount validation run synchronously inside the edit
// that triggers them, keyed to the edit's context. The original UI patched
// lines from fire-and-forget responses, which allowed a stale result to land
// after a newer edit; resolving inline removes that race entirely.
type Composer struct {
	employeeID uuid.UUID
	authority  *discount.Authority

	customerID  *uuid.UUID
	warehouseID *uuid.UUID
	saleType    enum.SaleType

	items []LineItem
	errs  map[int]string
}

// New creates a composer for the acting employee. A sale always has at least
// one line, so the draft starts with a single default item.
func New(employeeID uuid.UUID, authority *discount.Authority) *Composer {
	c := &Composer{
		employeeID: employeeID,
		authority:  authority,
		saleType:   enum.SaleTypeDraft,
		errs:       make(map[int]string),
	}
	c.items = append(c.items, defaultItem())
	return c
}

func defaultItem() LineItem {
	return LineItem{
		Quantity:           1,
		MaxDiscountAllowed: discount.Unrestricted,
	}
}

// AddItem appends a new default line and returns its index. There is no upper
// bound on the number of lines.
func (c *Composer) AddItem() int {
	c.items = append(c.items, defaultItem())
	return len(c.items) - 1
}

// RemoveItem removes the line at index and reports whether anything changed.
// The last remaining line cannot be removed. Validation errors recorded for
// higher indices shift down by one, since they are tracked positionally.
func (c *Composer) RemoveItem(index int) bool {
	if index < 0 || index >= len(c.items) || len(c.items) == 1 {
		return false
	}

	c.items = append(c.items[:index], c.items[index+1:]...)

	delete(c.errs, index)
	shifted := make(map[int]string, len(c.errs))
	for i, msg := range c.errs {
		if i > index {
			shifted[i-1] = msg
		} else {
			shifted[i] = msg
		}
	}
	c.errs = shifted
	return true
}

// SetProduct copies the catalog product onto the line, seeds its unit price
// and tax rate, and resolves the line's discount ceiling for the product's
// type. The resolver fails open, so this never errors on a degraded backend.
func (c *Composer) SetProduct(ctx context.Context, index int, sel ProductSelection) error {
	if index < 0 || index >= len(c.items) {
		return ErrIndexOutOfRange
	}

	item := &c.items[index]
	item.ProductID = sel.ProductID
	item.ProductTypeID = sel.ProductTypeID
	item.UnitPrice = sel.UnitPrice
	item.MinPrice = sel.MinPrice
	item.MaxPrice = sel.MaxPrice
	item.TaxRatePercent = sel.TaxRatePercent
	item.MaxDiscountAllowed = c.authority.MaxDiscount(ctx, c.employeeID, sel.ProductTypeID)

	c.recompute(index)
	return nil
}

// SetQuantity updates a line's quantity.
func (c *Composer) SetQuantity(index, quantity int) error {
	if index < 0 || index >= len(c.items) {
		return ErrIndexOutOfRange
	}
	c.items[index].Quantity = quantity
	c.recompute(index)
	return nil
}

// SetUnitPrice overrides a line's unit price. The catalog min/max bounds are
// advisory only and deliberately not enforced here.
func (c *Composer) SetUnitPrice(index int, unitPrice float64) error {
	if index < 0 || index >= len(c.items) {
		return ErrIndexOutOfRange
	}
	c.items[index].UnitPrice = unitPrice
	c.recompute(index)
	return nil
}

// SetTaxRate updates a line's tax rate percent.
func (c *Composer) SetTaxRate(index int, taxRatePercent float64) error {
	if index < 0 || index >= len(c.items) {
		return ErrIndexOutOfRange
	}
	c.items[index].TaxRatePercent = taxRatePercent
	c.recompute(index)
	return nil
}

// SetDiscountPercent updates a line's discount and validates it against the
// employee's ceiling for the line's product type. The line total is recomputed
// regardless of the validation outcome; an invalid discount still prices the
// line, it only blocks submission.
func (c *Composer) SetDiscountPercent(ctx context.Context, index int, percent float64) error {
	if index < 0 || index >= len(c.items) {
		return ErrIndexOutOfRange
	}

	item := &c.items[index]
	item.DiscountPercent = percent
	c.recompute(index)

	result := c.authority.ValidateDiscount(ctx, c.employeeID, item.ProductTypeID, percent)
	if result.Valid {
		delete(c.errs, index)
	} else {
		c.errs[index] = result.Error
	}
	item.MaxDiscountAllowed = result.MaxAllowed
	return nil
}

// SetCustomer selects the customer for the draft.
func (c *Composer) SetCustomer(customerID *uuid.UUID) {
	c.customerID = customerID
}

// SetWarehouse selects the warehouse. The caller is expected to reload its
// selectable catalog; lines already entered keep their values even when they
// reference a product the new warehouse does not stock, and no revalidation
// is performed for them.
func (c *Composer) SetWarehouse(warehouseID *uuid.UUID) {
	c.warehouseID = warehouseID
}

// SetSaleType selects which submit action the draft targets.
func (c *Composer) SetSaleType(saleType enum.SaleType) {
	c.saleType = saleType
}

// Items returns a snapshot of the current lines.
func (c *Composer) Items() []LineItem {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return items
}

// Errors returns a snapshot of the per-index discount validation errors.
func (c *Composer) Errors() map[int]string {
	errs := make(map[int]string, len(c.errs))
	for i, msg := range c.errs {
		errs[i] = msg
	}
	return errs
}

// CustomerID returns the selected customer, if any.
func (c *Composer) CustomerID() *uuid.UUID { return c.customerID }

// WarehouseID returns the selected warehouse, if any.
func (c *Composer) WarehouseID() *uuid.UUID { return c.warehouseID }

// SaleType returns the selected sale type.
func (c *Composer) SaleType() enum.SaleType { return c.saleType }

// Totals recomputes the order aggregates from the current lines. The result
// is a pure function of the items; nothing is persisted between calls.
func (c *Composer) Totals() pricing.OrderTotals {
	lines := make([]pricing.LineInput, len(c.items))
	for i, item := range c.items {
		lines[i] = pricing.LineInput{
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			DiscountPercent: item.DiscountPercent,
			TaxRatePercent:  item.TaxRatePercent,
		}
	}
	return pricing.ComputeTotals(lines)
}

// CanSubmit reports whether the draft may be submitted: no line may carry a
// discount validation error. Partial submission is never allowed.
func (c *Composer) CanSubmit() bool {
	return len(c.errs) == 0
}

func (c *Composer) recompute(index int) {
	item := &c.items[index]
	item.LineTotal = pricing.ComputeLine(pricing.LineInput{
		UnitPrice:       item.UnitPrice,
		Quantity:        item.Quantity,
		DiscountPercent: item.DiscountPercent,
		TaxRatePercent:  item.TaxRatePercent,
	}).Total
}

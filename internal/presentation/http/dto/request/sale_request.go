package request

import "github.com/google/uuid"

// SaleItemRequest is one line of a sale submission
type SaleItemRequest struct {
	ProductID       uuid.UUID `json:"product_id" validate:"required"`
	Quantity        int       `json:"quantity" validate:"required,min=1"`
	UnitPrice       float64   `json:"unit_price" validate:"min=0"`
	DiscountPercent float64   `json:"discount_percent" validate:"min=0,max=100"`
}

// CreateSaleRequest represents a sale submission. Totals are never part of the
// payload; the server recomputes them from the items.
type CreateSaleRequest struct {
	CustomerID  *uuid.UUID        `json:"customer_id"`
	WarehouseID uuid.UUID         `json:"warehouse_id" validate:"required"`
	SaleType    int               `json:"sale_type" validate:"min=0,max=2"`
	Items       []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ConfirmDeliveryRequest presents the emailed delivery code
type ConfirmDeliveryRequest struct {
	Code string `json:"code" binding:"required,min=4,max=10"`
}

// ValidateDiscountRequest previews a discount check for the current employee
type ValidateDiscountRequest struct {
	ProductTypeID   *uuid.UUID `json:"product_type_id"`
	DiscountPercent float64    `json:"discount_percent" binding:"min=0,max=100"`
}

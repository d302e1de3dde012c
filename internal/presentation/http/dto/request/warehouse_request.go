package request

import "github.com/google/uuid"

// CreateWarehouseRequest represents a create warehouse request
type CreateWarehouseRequest struct {
	Name     string  `json:"name" binding:"required,min=2,max=255"`
	Location *string `json:"location"`
	Phone    *string `json:"phone"`
}

// UpdateWarehouseRequest represents an update warehouse request
type UpdateWarehouseRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=255"`
	Location *string `json:"location"`
	Phone    *string `json:"phone"`
	Active   *bool   `json:"active"`
}

// SetStockRequest sets the on-hand quantity of a product in a warehouse
type SetStockRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=0"`
}

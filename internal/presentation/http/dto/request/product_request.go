package request

import "github.com/google/uuid"

// CreateProductRequest represents a create product request. Prices are decimal
// in the payload and stored as cents.
type CreateProductRequest struct {
	Name          string     `json:"name" binding:"required,min=2,max=255"`
	ProductTypeID *uuid.UUID `json:"product_type_id"`
	Price         float64    `json:"price" binding:"required,gt=0"`
	MinPrice      float64    `json:"min_price" binding:"min=0"`
	MaxPrice      float64    `json:"max_price" binding:"min=0"`
	TaxRate       float64    `json:"tax_rate" binding:"min=0,max=100"`
	QuantityAlert int        `json:"quantity_alert" binding:"min=0"`
	Notes         *string    `json:"notes"`
}

// UpdateProductRequest represents an update product request
type UpdateProductRequest struct {
	Name          *string    `json:"name" binding:"omitempty,min=2,max=255"`
	ProductTypeID *uuid.UUID `json:"product_type_id"`
	Price         *float64   `json:"price" binding:"omitempty,gt=0"`
	MinPrice      *float64   `json:"min_price" binding:"omitempty,min=0"`
	MaxPrice      *float64   `json:"max_price" binding:"omitempty,min=0"`
	TaxRate       *float64   `json:"tax_rate" binding:"omitempty,min=0,max=100"`
	QuantityAlert *int       `json:"quantity_alert" binding:"omitempty,min=0"`
	Notes         *string    `json:"notes"`
}

// ProductTypeRequest represents a create or rename product type request
type ProductTypeRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

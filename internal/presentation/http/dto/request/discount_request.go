package request

import "github.com/google/uuid"

// CreateDiscountLimitRequest represents a create discount limit request.
// Exactly one of RoleID or EmployeeID must be set; the validation package
// registers a struct-level check for this.
type CreateDiscountLimitRequest struct {
	RoleID             *uint      `json:"role_id"`
	EmployeeID         *uuid.UUID `json:"employee_id"`
	ProductTypeID      *uuid.UUID `json:"product_type_id"`
	MaxDiscountPercent float64    `json:"max_discount_percent" validate:"min=0,max=100"`
}

// UpdateDiscountLimitRequest changes the ceiling of an existing limit. The
// scope is immutable; delete and recreate to rescope.
type UpdateDiscountLimitRequest struct {
	MaxDiscountPercent float64 `json:"max_discount_percent" binding:"min=0,max=100"`
}

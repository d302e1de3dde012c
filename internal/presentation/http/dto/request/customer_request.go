package request

// CreateCustomerRequest represents a create customer request
type CreateCustomerRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateCustomerRequest represents an update customer request
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

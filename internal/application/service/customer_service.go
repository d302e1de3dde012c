package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/pkg/apperror"
	"github.com/voltmart/backoffice-api/pkg/pagination"
)

// CustomerService handles customer management
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers lists customers with filtering
func (s *CustomerService) ListCustomers(ctx context.Context, params *repository.CustomerFilterParams) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

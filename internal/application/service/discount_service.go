package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/pkg/apperror"
)

// DiscountService manages discount limits and resolves the discount ceiling
// for an employee. It implements discount.Resolver for the sale composer.
type DiscountService struct {
	limitRepo repository.DiscountLimitRepository
	userRepo  repository.UserRepository
}

// NewDiscountService creates a new discount service
func NewDiscountService(
	limitRepo repository.DiscountLimitRepository,
	userRepo repository.UserRepository,
) *DiscountService {
	return &DiscountService{
		limitRepo: limitRepo,
		userRepo:  userRepo,
	}
}

// ResolveCeiling returns the discount ceiling for an employee, optionally
// narrowed to a product type. Lookup order: employee limit for the type, role
// limit for the type, global employee limit, global role limit. A nil result
// means the employee is unrestricted.
func (s *DiscountService) ResolveCeiling(ctx context.Context, employeeID uuid.UUID, productTypeID *uuid.UUID) (*float64, error) {
	var roleIDs []uint
	user, err := s.userRepo.GetWithRoles(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	for _, role := range user.Roles {
		roleIDs = append(roleIDs, role.ID)
	}

	if productTypeID != nil {
		limit, err := s.limitRepo.FindForEmployee(ctx, employeeID, productTypeID)
		if err != nil {
			return nil, err
		}
		if limit != nil {
			return &limit.MaxDiscountPercent, nil
		}

		limit, err = s.limitRepo.FindForRoles(ctx, roleIDs, productTypeID)
		if err != nil {
			return nil, err
		}
		if limit != nil {
			return &limit.MaxDiscountPercent, nil
		}
	}

	limit, err := s.limitRepo.FindForEmployee(ctx, employeeID, nil)
	if err != nil {
		return nil, err
	}
	if limit != nil {
		return &limit.MaxDiscountPercent, nil
	}

	limit, err = s.limitRepo.FindForRoles(ctx, roleIDs, nil)
	if err != nil {
		return nil, err
	}
	if limit != nil {
		return &limit.MaxDiscountPercent, nil
	}

	return nil, nil
}

// CreateLimitInput represents the create discount limit input
type CreateLimitInput struct {
	RoleID             *uint
	EmployeeID         *uuid.UUID
	ProductTypeID      *uuid.UUID
	MaxDiscountPercent float64
}

// CreateLimit creates a new discount limit
func (s *DiscountService) CreateLimit(ctx context.Context, input *CreateLimitInput) (*entity.DiscountLimit, error) {
	if (input.RoleID == nil) == (input.EmployeeID == nil) {
		return nil, apperror.NewBadRequestError("Exactly one of role_id or employee_id must be set")
	}
	if input.MaxDiscountPercent < 0 || input.MaxDiscountPercent > 100 {
		return nil, apperror.NewBadRequestError("max_discount_percent must be between 0 and 100")
	}

	if input.EmployeeID != nil {
		existing, err := s.limitRepo.FindForEmployee(ctx, *input.EmployeeID, input.ProductTypeID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A discount limit with this scope already exists")
		}
	} else {
		existing, err := s.limitRepo.FindForRoles(ctx, []uint{*input.RoleID}, input.ProductTypeID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A discount limit with this scope already exists")
		}
	}

	limit := &entity.DiscountLimit{
		RoleID:             input.RoleID,
		EmployeeID:         input.EmployeeID,
		ProductTypeID:      input.ProductTypeID,
		MaxDiscountPercent: input.MaxDiscountPercent,
	}

	if err := s.limitRepo.Create(ctx, limit); err != nil {
		return nil, err
	}

	return s.limitRepo.GetByID(ctx, limit.ID)
}

// GetLimit retrieves a discount limit by ID
func (s *DiscountService) GetLimit(ctx context.Context, id uuid.UUID) (*entity.DiscountLimit, error) {
	limit, err := s.limitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit == nil {
		return nil, apperror.NewNotFoundError("Discount limit")
	}
	return limit, nil
}

// UpdateLimit updates the ceiling of an existing discount limit. The scope
// (role/employee/product type) is immutable; delete and recreate to rescope.
func (s *DiscountService) UpdateLimit(ctx context.Context, id uuid.UUID, maxDiscountPercent float64) (*entity.DiscountLimit, error) {
	if maxDiscountPercent < 0 || maxDiscountPercent > 100 {
		return nil, apperror.NewBadRequestError("max_discount_percent must be between 0 and 100")
	}

	limit, err := s.limitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit == nil {
		return nil, apperror.NewNotFoundError("Discount limit")
	}

	limit.MaxDiscountPercent = maxDiscountPercent
	if err := s.limitRepo.Update(ctx, limit); err != nil {
		return nil, err
	}

	return limit, nil
}

// DeleteLimit deletes a discount limit
func (s *DiscountService) DeleteLimit(ctx context.Context, id uuid.UUID) error {
	limit, err := s.limitRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if limit == nil {
		return apperror.NewNotFoundError("Discount limit")
	}

	return s.limitRepo.Delete(ctx, id)
}

// ListLimits lists all discount limits
func (s *DiscountService) ListLimits(ctx context.Context) ([]entity.DiscountLimit, error) {
	return s.limitRepo.List(ctx)
}

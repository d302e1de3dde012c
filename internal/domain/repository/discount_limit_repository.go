package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
)

// DiscountLimitRepository defines the interface for discount limit data
// operations. The two Find methods back ceiling resolution: a nil
// productTypeID matches only global (untyped) limits, never typed ones.
type DiscountLimitRepository interface {
	Create(ctx context.Context, limit *entity.DiscountLimit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountLimit, error)
	Update(ctx context.Context, limit *entity.DiscountLimit) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.DiscountLimit, error)
	FindForEmployee(ctx context.Context, employeeID uuid.UUID, productTypeID *uuid.UUID) (*entity.DiscountLimit, error)
	FindForRoles(ctx context.Context, roleIDs []uint, productTypeID *uuid.UUID) (*entity.DiscountLimit, error)
}

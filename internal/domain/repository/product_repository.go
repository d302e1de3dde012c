package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	ProductTypeID *uuid.UUID
	SortBy        string
	SortOrder     string
}

// ProductTypeRepository defines the interface for product type data operations
type ProductTypeRepository interface {
	Create(ctx context.Context, productType *entity.ProductType) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductType, error)
	GetBySlug(ctx context.Context, slug string) (*entity.ProductType, error)
	Update(ctx context.Context, productType *entity.ProductType) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.ProductType, error)
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/internal/domain/enum"
	"github.com/voltmart/backoffice-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error
	List(ctx context.Context, employeeID uuid.UUID, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListWithCursor(ctx context.Context, employeeID uuid.UUID, params *SaleCursorFilterParams) ([]entity.Sale, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination         *pagination.PaginationParams
	Search             string
	SaleType           *enum.SaleType
	Status             *enum.SaleStatus
	CustomerID         *uuid.UUID
	WarehouseID        *uuid.UUID
	StartDate          *time.Time
	EndDate            *time.Time
	SortBy             string
	SortOrder          string
	SkipEmployeeFilter bool // If true, returns all sales (for admins)
}

// SaleCursorFilterParams contains cursor-based filtering for sale queries
type SaleCursorFilterParams struct {
	Cursor             *pagination.CursorParams
	Search             string
	SaleType           *enum.SaleType
	Status             *enum.SaleStatus
	CustomerID         *uuid.UUID
	WarehouseID        *uuid.UUID
	SkipEmployeeFilter bool
}

// SaleItemRepository defines the interface for sale item data operations
type SaleItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.SaleItem) error
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error)
	DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error
}

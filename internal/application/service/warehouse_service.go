package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/pkg/apperror"
)

// WarehouseService handles warehouse and stock management
type WarehouseService struct {
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.WarehouseStockRepository
	productRepo   repository.ProductRepository
}

// NewWarehouseService creates a new warehouse service
func NewWarehouseService(
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.WarehouseStockRepository,
	productRepo repository.ProductRepository,
) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		productRepo:   productRepo,
	}
}

// CreateWarehouseInput represents the create warehouse input
type CreateWarehouseInput struct {
	Name     string
	Location *string
	Phone    *string
}

// CreateWarehouse creates a new warehouse
func (s *WarehouseService) CreateWarehouse(ctx context.Context, input *CreateWarehouseInput) (*entity.Warehouse, error) {
	warehouse := &entity.Warehouse{
		Name:     input.Name,
		Location: input.Location,
		Phone:    input.Phone,
		Active:   true,
	}
	if err := s.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// GetWarehouse retrieves a warehouse by ID
func (s *WarehouseService) GetWarehouse(ctx context.Context, id uuid.UUID) (*entity.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, apperror.NewNotFoundError("Warehouse")
	}
	return warehouse, nil
}

// UpdateWarehouseInput represents the update warehouse input
type UpdateWarehouseInput struct {
	Name     *string
	Location *string
	Phone    *string
	Active   *bool
}

// UpdateWarehouse updates a warehouse
func (s *WarehouseService) UpdateWarehouse(ctx context.Context, id uuid.UUID, input *UpdateWarehouseInput) (*entity.Warehouse, error) {
	warehouse, err := s.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, apperror.NewNotFoundError("Warehouse")
	}

	if input.Name != nil {
		warehouse.Name = *input.Name
	}
	if input.Location != nil {
		warehouse.Location = input.Location
	}
	if input.Phone != nil {
		warehouse.Phone = input.Phone
	}
	if input.Active != nil {
		warehouse.Active = *input.Active
	}

	if err := s.warehouseRepo.Update(ctx, warehouse); err != nil {
		return nil, err
	}

	return warehouse, nil
}

// DeleteWarehouse deletes a warehouse
func (s *WarehouseService) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	warehouse, err := s.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return apperror.NewNotFoundError("Warehouse")
	}
	return s.warehouseRepo.Delete(ctx, id)
}

// ListWarehouses lists all warehouses
func (s *WarehouseService) ListWarehouses(ctx context.Context) ([]entity.Warehouse, error) {
	return s.warehouseRepo.List(ctx)
}

// ListWarehouseStock returns the stock rows for one warehouse with products
// preloaded. This backs the sale-entry catalog: changing the warehouse on a
// draft reloads this list.
func (s *WarehouseService) ListWarehouseStock(ctx context.Context, warehouseID uuid.UUID) ([]entity.WarehouseStock, error) {
	warehouse, err := s.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, apperror.NewNotFoundError("Warehouse")
	}

	return s.stockRepo.ListByWarehouse(ctx, warehouseID)
}

// SetStockInput represents the set stock input
type SetStockInput struct {
	WarehouseID uuid.UUID
	ProductID   uuid.UUID
	Quantity    int
}

// SetStock sets the on-hand quantity of a product in a warehouse
func (s *WarehouseService) SetStock(ctx context.Context, input *SetStockInput) (*entity.WarehouseStock, error) {
	if input.Quantity < 0 {
		return nil, apperror.NewBadRequestError("quantity cannot be negative")
	}

	warehouse, err := s.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, apperror.NewNotFoundError("Warehouse")
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	stock := &entity.WarehouseStock{
		WarehouseID: input.WarehouseID,
		ProductID:   input.ProductID,
		Quantity:    input.Quantity,
	}
	if err := s.stockRepo.Upsert(ctx, stock); err != nil {
		return nil, err
	}

	return stock, nil
}

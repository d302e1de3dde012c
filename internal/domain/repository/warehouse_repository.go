package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
)

// WarehouseRepository defines the interface for warehouse data operations
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Warehouse, error)
}

// WarehouseStockRepository defines the interface for warehouse stock operations
type WarehouseStockRepository interface {
	// ListByWarehouse returns the stock rows for one warehouse with products
	// preloaded; this backs the per-warehouse sale-entry catalog.
	ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]entity.WarehouseStock, error)
	Upsert(ctx context.Context, stock *entity.WarehouseStock) error
	// AtomicDecrementBatch decrements stock for each product in one statement
	// per product, guarded so quantities never go negative. It returns the IDs
	// of products whose stock was insufficient; when any are returned the
	// caller must treat the whole batch as failed and roll back via
	// AtomicIncrementBatch for the rows that did decrement.
	AtomicDecrementBatch(ctx context.Context, warehouseID uuid.UUID, decrements map[uuid.UUID]int) ([]uuid.UUID, error)
	AtomicIncrementBatch(ctx context.Context, warehouseID uuid.UUID, increments map[uuid.UUID]int) error
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	domainRepo "github.com/voltmart/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type warehouseRepository struct {
	db *gorm.DB
}

// NewWarehouseRepository creates a new warehouse repository
func NewWarehouseRepository(db *gorm.DB) domainRepo.WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) Create(ctx context.Context, warehouse *entity.Warehouse) error {
	return r.db.WithContext(ctx).Create(warehouse).Error
}

func (r *warehouseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Warehouse, error) {
	var warehouse entity.Warehouse
	err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &warehouse, err
}

func (r *warehouseRepository) Update(ctx context.Context, warehouse *entity.Warehouse) error {
	return r.db.WithContext(ctx).Save(warehouse).Error
}

func (r *warehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Warehouse{}, "id = ?", id).Error
}

func (r *warehouseRepository) List(ctx context.Context) ([]entity.Warehouse, error) {
	var warehouses []entity.Warehouse
	err := r.db.WithContext(ctx).Order("name ASC").Find(&warehouses).Error
	return warehouses, err
}

type warehouseStockRepository struct {
	db *gorm.DB
}

// NewWarehouseStockRepository creates a new warehouse stock repository
func NewWarehouseStockRepository(db *gorm.DB) domainRepo.WarehouseStockRepository {
	return &warehouseStockRepository{db: db}
}

func (r *warehouseStockRepository) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]entity.WarehouseStock, error) {
	var stock []entity.WarehouseStock
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.ProductType").
		Where("warehouse_id = ?", warehouseID).
		Find(&stock).Error
	return stock, err
}

func (r *warehouseStockRepository) Upsert(ctx context.Context, stock *entity.WarehouseStock) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "warehouse_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(stock).Error
}

// AtomicDecrementBatch atomically decrements stock for multiple products in a
// single transaction, guarded so quantities never go negative. If any product
// has insufficient stock the entire transaction is rolled back and the failed
// product IDs are returned.
func (r *warehouseStockRepository) AtomicDecrementBatch(ctx context.Context, warehouseID uuid.UUID, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(decrements) == 0 {
		return nil, nil
	}

	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for productID, amount := range decrements {
			result := tx.Model(&entity.WarehouseStock{}).
				Where("warehouse_id = ? AND product_id = ? AND quantity >= ?", warehouseID, productID, amount).
				Update("quantity", gorm.Expr("quantity - ?", amount))

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, productID)
			}
		}

		// If any products failed, rollback entire transaction
		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}

		return nil
	})

	// If we rolled back due to insufficient stock, return the failed IDs without the transaction error
	if err == gorm.ErrInvalidTransaction && len(failedIDs) > 0 {
		return failedIDs, nil
	}

	return failedIDs, err
}

// AtomicIncrementBatch atomically increments stock for multiple products (for cancellations/returns).
func (r *warehouseStockRepository) AtomicIncrementBatch(ctx context.Context, warehouseID uuid.UUID, increments map[uuid.UUID]int) error {
	if len(increments) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for productID, amount := range increments {
			if err := tx.Model(&entity.WarehouseStock{}).
				Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
				Update("quantity", gorm.Expr("quantity + ?", amount)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

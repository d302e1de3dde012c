package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/internal/domain/enum"
	domainRepo "github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/pkg/pagination"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).First(&sale, "invoice_no = ?", invoiceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Product").
		Preload("Items.Product.ProductType").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *saleRepository) List(ctx context.Context, employeeID uuid.UUID, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{})
	if !params.SkipEmployeeFilter && employeeID != uuid.Nil {
		query = query.Where("employee_id = ?", employeeID)
	}

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.SaleType != nil {
		query = query.Where("sale_type = ?", *params.SaleType)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *params.WarehouseID)
	}

	if params.StartDate != nil {
		query = query.Where("sale_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("sale_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&sales).Error

	return sales, total, err
}

// ListWithCursor returns sales using cursor-based pagination
func (r *saleRepository) ListWithCursor(ctx context.Context, employeeID uuid.UUID, params *domainRepo.SaleCursorFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Sale{})
	if !params.SkipEmployeeFilter {
		query = query.Where("employee_id = ?", employeeID)
	}

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.SaleType != nil {
		query = query.Where("sale_type = ?", *params.SaleType)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *params.WarehouseID)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	// Fetch limit+1 to detect hasMore
	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Customer").
		Order("created_at ASC, id ASC").
		Find(&sales).Error

	return sales, err
}

type saleItemRepository struct {
	db *gorm.DB
}

// NewSaleItemRepository creates a new sale item repository
func NewSaleItemRepository(db *gorm.DB) domainRepo.SaleItemRepository {
	return &saleItemRepository{db: db}
}

func (r *saleItemRepository) CreateBatch(ctx context.Context, items []entity.SaleItem) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *saleItemRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error) {
	var items []entity.SaleItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("sale_id = ?", saleID).
		Find(&items).Error
	return items, err
}

func (r *saleItemRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.SaleItem{}, "sale_id = ?", saleID).Error
}

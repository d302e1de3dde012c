package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	domainRepo "github.com/voltmart/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("ProductType").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("ProductType").
		First(&product, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Preload("ProductType").
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR code ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.ProductTypeID != nil {
		query = query.Where("product_type_id = ?", *params.ProductTypeID)
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
		Preload("ProductType").
		Order(sortBy + " " + sortOrder).
		Find(&products).Error

	return products, total, err
}

type productTypeRepository struct {
	db *gorm.DB
}

// NewProductTypeRepository creates a new product type repository
func NewProductTypeRepository(db *gorm.DB) domainRepo.ProductTypeRepository {
	return &productTypeRepository{db: db}
}

func (r *productTypeRepository) Create(ctx context.Context, productType *entity.ProductType) error {
	return r.db.WithContext(ctx).Create(productType).Error
}

func (r *productTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ProductType, error) {
	var productType entity.ProductType
	err := r.db.WithContext(ctx).First(&productType, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &productType, err
}

func (r *productTypeRepository) GetBySlug(ctx context.Context, slug string) (*entity.ProductType, error) {
	var productType entity.ProductType
	err := r.db.WithContext(ctx).First(&productType, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &productType, err
}

func (r *productTypeRepository) Update(ctx context.Context, productType *entity.ProductType) error {
	return r.db.WithContext(ctx).Save(productType).Error
}

func (r *productTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ProductType{}, "id = ?", id).Error
}

func (r *productTypeRepository) List(ctx context.Context) ([]entity.ProductType, error) {
	var productTypes []entity.ProductType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&productTypes).Error
	return productTypes, err
}

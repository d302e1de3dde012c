package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	domainRepo "github.com/voltmart/backoffice-api/internal/domain/repository"
	"gorm.io/gorm"
)

type discountLimitRepository struct {
	db *gorm.DB
}

// NewDiscountLimitRepository creates a new discount limit repository
func NewDiscountLimitRepository(db *gorm.DB) domainRepo.DiscountLimitRepository {
	return &discountLimitRepository{db: db}
}

func (r *discountLimitRepository) Create(ctx context.Context, limit *entity.DiscountLimit) error {
	return r.db.WithContext(ctx).Create(limit).Error
}

func (r *discountLimitRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountLimit, error) {
	var limit entity.DiscountLimit
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Employee").
		Preload("ProductType").
		First(&limit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &limit, err
}

func (r *discountLimitRepository) Update(ctx context.Context, limit *entity.DiscountLimit) error {
	return r.db.WithContext(ctx).Save(limit).Error
}

func (r *discountLimitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.DiscountLimit{}, "id = ?", id).Error
}

func (r *discountLimitRepository) List(ctx context.Context) ([]entity.DiscountLimit, error) {
	var limits []entity.DiscountLimit
	err := r.db.WithContext(ctx).
		Preload("Role").
		Preload("Employee").
		Preload("ProductType").
		Order("created_at DESC").
		Find(&limits).Error
	return limits, err
}

// FindForEmployee finds a limit scoped to one employee. A nil productTypeID
// matches only global limits, never typed ones.
func (r *discountLimitRepository) FindForEmployee(ctx context.Context, employeeID uuid.UUID, productTypeID *uuid.UUID) (*entity.DiscountLimit, error) {
	query := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if productTypeID != nil {
		query = query.Where("product_type_id = ?", *productTypeID)
	} else {
		query = query.Where("product_type_id IS NULL")
	}

	var limit entity.DiscountLimit
	err := query.First(&limit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &limit, err
}

// FindForRoles finds a limit scoped to any of the given roles. When an
// employee holds several limited roles the most permissive ceiling applies.
func (r *discountLimitRepository) FindForRoles(ctx context.Context, roleIDs []uint, productTypeID *uuid.UUID) (*entity.DiscountLimit, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).Where("role_id IN ?", roleIDs)
	if productTypeID != nil {
		query = query.Where("product_type_id = ?", *productTypeID)
	} else {
		query = query.Where("product_type_id IS NULL")
	}

	var limit entity.DiscountLimit
	err := query.Order("max_discount_percent DESC").First(&limit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &limit, err
}

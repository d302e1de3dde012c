package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/pkg/apperror"
	"github.com/voltmart/backoffice-api/pkg/pagination"
	"github.com/voltmart/backoffice-api/pkg/utils"
)

// ProductService handles product and product type management
type ProductService struct {
	productRepo     repository.ProductRepository
	productTypeRepo repository.ProductTypeRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	productTypeRepo repository.ProductTypeRepository,
) *ProductService {
	return &ProductService{
		productRepo:     productRepo,
		productTypeRepo: productTypeRepo,
	}
}

// CreateProductInput represents the create product input. Prices are decimal;
// they are converted to cents for storage.
type CreateProductInput struct {
	Name          string
	ProductTypeID *uuid.UUID
	Price         float64
	MinPrice      float64
	MaxPrice      float64
	TaxRate       float64
	QuantityAlert int
	Notes         *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.ProductTypeID != nil {
		productType, err := s.productTypeRepo.GetByID(ctx, *input.ProductTypeID)
		if err != nil {
			return nil, err
		}
		if productType == nil {
			return nil, apperror.NewNotFoundError("Product type")
		}
	}

	slug := utils.Slugify(input.Name)
	existing, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A product with this name already exists")
	}

	product := &entity.Product{
		Name:          input.Name,
		Slug:          slug,
		Code:          utils.GenerateProductCode(),
		ProductTypeID: input.ProductTypeID,
		TaxRate:       input.TaxRate,
		QuantityAlert: input.QuantityAlert,
		Notes:         input.Notes,
	}
	product.SetPriceFromDecimal(input.Price)
	product.SetMinPriceFromDecimal(input.MinPrice)
	product.SetMaxPriceFromDecimal(input.MaxPrice)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name          *string
	ProductTypeID *uuid.UUID
	Price         *float64
	MinPrice      *float64
	MaxPrice      *float64
	TaxRate       *float64
	QuantityAlert *int
	Notes         *string
}

// UpdateProduct updates an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil && *input.Name != product.Name {
		slug := utils.Slugify(*input.Name)
		existing, err := s.productRepo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("A product with this name already exists")
		}
		product.Name = *input.Name
		product.Slug = slug
	}
	if input.ProductTypeID != nil {
		productType, err := s.productTypeRepo.GetByID(ctx, *input.ProductTypeID)
		if err != nil {
			return nil, err
		}
		if productType == nil {
			return nil, apperror.NewNotFoundError("Product type")
		}
		product.ProductTypeID = input.ProductTypeID
	}
	if input.Price != nil {
		product.SetPriceFromDecimal(*input.Price)
	}
	if input.MinPrice != nil {
		product.SetMinPriceFromDecimal(*input.MinPrice)
	}
	if input.MaxPrice != nil {
		product.SetMaxPriceFromDecimal(*input.MaxPrice)
	}
	if input.TaxRate != nil {
		product.TaxRate = *input.TaxRate
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, id)
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// CreateProductType creates a new product type
func (s *ProductService) CreateProductType(ctx context.Context, name string) (*entity.ProductType, error) {
	slug := utils.Slugify(name)
	existing, err := s.productTypeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A product type with this name already exists")
	}

	productType := &entity.ProductType{
		Name: name,
		Slug: slug,
	}
	if err := s.productTypeRepo.Create(ctx, productType); err != nil {
		return nil, err
	}

	return productType, nil
}

// GetProductType retrieves a product type by ID
func (s *ProductService) GetProductType(ctx context.Context, id uuid.UUID) (*entity.ProductType, error) {
	productType, err := s.productTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if productType == nil {
		return nil, apperror.NewNotFoundError("Product type")
	}
	return productType, nil
}

// UpdateProductType renames a product type
func (s *ProductService) UpdateProductType(ctx context.Context, id uuid.UUID, name string) (*entity.ProductType, error) {
	productType, err := s.productTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if productType == nil {
		return nil, apperror.NewNotFoundError("Product type")
	}

	slug := utils.Slugify(name)
	existing, err := s.productTypeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, apperror.NewConflictError("A product type with this name already exists")
	}

	productType.Name = name
	productType.Slug = slug
	if err := s.productTypeRepo.Update(ctx, productType); err != nil {
		return nil, err
	}

	return productType, nil
}

// DeleteProductType deletes a product type
func (s *ProductService) DeleteProductType(ctx context.Context, id uuid.UUID) error {
	productType, err := s.productTypeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if productType == nil {
		return apperror.NewNotFoundError("Product type")
	}
	return s.productTypeRepo.Delete(ctx, id)
}

// ListProductTypes lists all product types
func (s *ProductService) ListProductTypes(ctx context.Context) ([]entity.ProductType, error) {
	return s.productTypeRepo.List(ctx)
}

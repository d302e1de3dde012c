package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/composer"
	"github.com/voltmart/backoffice-api/internal/domain/discount"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/internal/domain/enum"
	"github.com/voltmart/backoffice-api/internal/domain/pricing"
	"github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/internal/infrastructure/cache"
	"github.com/voltmart/backoffice-api/pkg/apperror"
	"github.com/voltmart/backoffice-api/pkg/pagination"
	"github.com/voltmart/backoffice-api/pkg/utils"
)

// DeliveryMailer sends delivery confirmation codes to customers.
type DeliveryMailer interface {
	SendDeliveryOTPEmail(toEmail, invoiceNo, code string, expiryMinutes int) error
}

// SaleService handles sale submission, listing, delivery and cancellation.
// Submission re-runs the full composition server-side: client-supplied
// discounts are validated against the employee's ceilings and all totals are
// recomputed from the line inputs, never trusted from the client.
type SaleService struct {
	saleRepo     repository.SaleRepository
	saleItemRepo repository.SaleItemRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	stockRepo    repository.WarehouseStockRepository
	resolver     discount.Resolver
	otpStore     *cache.OTPStore
	mailer       DeliveryMailer

	otpLength int
	otpExpiry time.Duration
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	saleItemRepo repository.SaleItemRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	stockRepo repository.WarehouseStockRepository,
	resolver discount.Resolver,
	otpStore *cache.OTPStore,
	mailer DeliveryMailer,
	otpLength int,
	otpExpiry time.Duration,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		stockRepo:    stockRepo,
		resolver:     resolver,
		otpStore:     otpStore,
		mailer:       mailer,
		otpLength:    otpLength,
		otpExpiry:    otpExpiry,
	}
}

// SaleItemInput represents one line of a sale submission
type SaleItemInput struct {
	ProductID       uuid.UUID
	Quantity        int
	UnitPrice       float64
	DiscountPercent float64
}

// CreateSaleInput represents the create sale input
type CreateSaleInput struct {
	EmployeeID  uuid.UUID
	CustomerID  *uuid.UUID
	WarehouseID uuid.UUID
	SaleType    enum.SaleType
	Items       []SaleItemInput
}

func invoicePrefix(saleType enum.SaleType) string {
	switch saleType {
	case enum.SaleTypeProforma:
		return "PRF-"
	case enum.SaleTypeInvoice:
		return "INV-"
	default:
		return "DRF-"
	}
}

// CreateSale validates and persists a sale. Discounts are re-validated per
// line against the employee's ceilings; any violation rejects the whole
// submission with per-line errors. Stock is decremented only for invoices.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("A sale requires at least one item")
	}

	// Validate customer if provided
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	// Replay the composition server-side. The composer validates each
	// discount against the employee's ceiling as the line is entered.
	comp := composer.New(input.EmployeeID, discount.NewAuthority(s.resolver))
	comp.SetCustomer(input.CustomerID)
	comp.SetWarehouse(&input.WarehouseID)
	comp.SetSaleType(input.SaleType)

	for i, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if item.Quantity < 1 {
			return nil, apperror.NewValidationError([]apperror.FieldError{{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be at least 1",
			}})
		}

		index := i
		if i > 0 {
			index = comp.AddItem()
		}

		if err := comp.SetProduct(ctx, index, composer.ProductSelection{
			ProductID:      product.ID,
			ProductTypeID:  product.ProductTypeID,
			UnitPrice:      product.GetPriceDecimal(),
			MinPrice:       product.GetMinPriceDecimal(),
			MaxPrice:       product.GetMaxPriceDecimal(),
			TaxRatePercent: product.TaxRate,
		}); err != nil {
			return nil, err
		}
		if err := comp.SetQuantity(index, item.Quantity); err != nil {
			return nil, err
		}
		if err := comp.SetUnitPrice(index, item.UnitPrice); err != nil {
			return nil, err
		}
		if err := comp.SetDiscountPercent(ctx, index, item.DiscountPercent); err != nil {
			return nil, err
		}
	}

	if !comp.CanSubmit() {
		fieldErrors := make([]apperror.FieldError, 0, len(comp.Errors()))
		for index, msg := range comp.Errors() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].discount_percent", index),
				Message: msg,
			})
		}
		return nil, apperror.NewValidationError(fieldErrors)
	}

	// Stock moves only on invoices; drafts and proformas are paperwork.
	stockDecrements := make(map[uuid.UUID]int)
	if input.SaleType == enum.SaleTypeInvoice {
		for _, item := range input.Items {
			stockDecrements[item.ProductID] += item.Quantity
		}

		failedIDs, err := s.stockRepo.AtomicDecrementBatch(ctx, input.WarehouseID, stockDecrements)
		if err != nil {
			return nil, err
		}
		if len(failedIDs) > 0 {
			var failedNames []string
			for _, id := range failedIDs {
				if product, exists := productMap[id]; exists {
					failedNames = append(failedNames, product.Name)
				}
			}
			return nil, apperror.NewAppError(400, fmt.Sprintf("Insufficient stock for: %v", failedNames))
		}
	}

	lines := comp.Items()
	totals := comp.Totals()

	totalItems := 0
	saleItems := make([]entity.SaleItem, 0, len(lines))
	for _, line := range lines {
		totalItems += line.Quantity
		saleItems = append(saleItems, entity.SaleItem{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			UnitPrice:       pricing.ToCents(line.UnitPrice),
			DiscountPercent: line.DiscountPercent,
			TaxRatePercent:  line.TaxRatePercent,
			LineTotal:       pricing.ToCents(line.LineTotal),
		})
	}

	sale := &entity.Sale{
		EmployeeID:    input.EmployeeID,
		CustomerID:    input.CustomerID,
		WarehouseID:   input.WarehouseID,
		SaleDate:      time.Now(),
		SaleType:      input.SaleType,
		Status:        enum.SaleStatusPending,
		InvoiceNo:     utils.GenerateInvoiceNo(invoicePrefix(input.SaleType)),
		TotalItems:    totalItems,
		Subtotal:      pricing.ToCents(totals.Subtotal),
		DiscountTotal: pricing.ToCents(totals.DiscountTotal),
		TaxTotal:      pricing.ToCents(totals.TaxTotal),
		GrandTotal:    pricing.ToCents(totals.GrandTotal),
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		// Stock was already decremented - restore it
		_ = s.stockRepo.AtomicIncrementBatch(ctx, input.WarehouseID, stockDecrements)
		return nil, err
	}

	for i := range saleItems {
		saleItems[i].SaleID = sale.ID
	}

	if err := s.saleItemRepo.CreateBatch(ctx, saleItems); err != nil {
		_ = s.stockRepo.AtomicIncrementBatch(ctx, input.WarehouseID, stockDecrements)
		return nil, err
	}

	return s.saleRepo.GetWithItems(ctx, sale.ID)
}

// GetSale retrieves a sale by ID. Employees see only their own sales unless
// skipOwnership is set.
func (s *SaleService) GetSale(ctx context.Context, employeeID, saleID uuid.UUID, skipOwnership bool) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if !skipOwnership && sale.EmployeeID != employeeID {
		return nil, apperror.ErrForbidden
	}
	return sale, nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, employeeID uuid.UUID, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, employeeID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListSalesWithCursor lists sales with cursor-based pagination
func (s *SaleService) ListSalesWithCursor(ctx context.Context, employeeID uuid.UUID, params *repository.SaleCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	sales, err := s.saleRepo.ListWithCursor(ctx, employeeID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(sales, params.Cursor.Limit,
		func(sale entity.Sale) string { return sale.ID.String() },
		func(sale entity.Sale) time.Time { return sale.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// RequestDeliveryOTP generates a delivery confirmation code and mails it to
// the sale's customer. Only pending invoices are deliverable.
func (s *SaleService) RequestDeliveryOTP(ctx context.Context, employeeID, saleID uuid.UUID, skipOwnership bool) error {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}
	if !skipOwnership && sale.EmployeeID != employeeID {
		return apperror.ErrForbidden
	}
	if !sale.IsDeliverable() {
		return apperror.NewBadRequestError("Only pending invoices can be delivered")
	}
	if sale.CustomerID == nil {
		return apperror.NewBadRequestError("Sale has no customer to notify")
	}

	customer, err := s.customerRepo.GetByID(ctx, *sale.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil || customer.Email == nil {
		return apperror.NewBadRequestError("Customer has no email address on file")
	}

	code, err := utils.GenerateOTP(s.otpLength)
	if err != nil {
		return err
	}

	if err := s.otpStore.Set(ctx, cache.PurposeDelivery, sale.ID.String(), code, s.otpExpiry); err != nil {
		return err
	}

	expiryMinutes := int(s.otpExpiry.Minutes())
	return s.mailer.SendDeliveryOTPEmail(*customer.Email, sale.InvoiceNo, code, expiryMinutes)
}

// ConfirmDelivery verifies the delivery code and marks the sale delivered.
func (s *SaleService) ConfirmDelivery(ctx context.Context, employeeID, saleID uuid.UUID, code string, skipOwnership bool) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if !skipOwnership && sale.EmployeeID != employeeID {
		return nil, apperror.ErrForbidden
	}
	if !sale.IsDeliverable() {
		return nil, apperror.NewBadRequestError("Only pending invoices can be delivered")
	}

	if err := s.otpStore.Verify(ctx, cache.PurposeDelivery, sale.ID.String(), code); err != nil {
		return nil, apperror.ErrInvalidOTP
	}

	now := time.Now()
	sale.Status = enum.SaleStatusDelivered
	sale.DeliveredAt = &now
	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithItems(ctx, sale.ID)
}

// CancelSale cancels a pending sale. For invoices the reserved stock is
// returned to the warehouse; delivered sales can no longer be cancelled.
func (s *SaleService) CancelSale(ctx context.Context, employeeID, saleID uuid.UUID, skipOwnership bool) error {
	sale, err := s.saleRepo.GetWithItems(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}
	if !skipOwnership && sale.EmployeeID != employeeID {
		return apperror.ErrForbidden
	}
	if sale.Status == enum.SaleStatusCancelled {
		return apperror.NewBadRequestError("Sale is already cancelled")
	}
	if sale.Status == enum.SaleStatusDelivered {
		return apperror.NewBadRequestError("Delivered sales cannot be cancelled")
	}

	if sale.SaleType == enum.SaleTypeInvoice {
		stockIncrements := make(map[uuid.UUID]int)
		for _, item := range sale.Items {
			stockIncrements[item.ProductID] += item.Quantity
		}

		if err := s.stockRepo.AtomicIncrementBatch(ctx, sale.WarehouseID, stockIncrements); err != nil {
			return err
		}
	}

	return s.saleRepo.UpdateStatus(ctx, saleID, enum.SaleStatusCancelled)
}

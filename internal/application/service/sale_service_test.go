package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/internal/domain/enum"
	"github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/internal/infrastructure/cache"
	"github.com/voltmart/backoffice-api/pkg/apperror"
)

type fakeSaleRepo struct {
	sales map[uuid.UUID]*entity.Sale
	items *fakeSaleItemRepo
}

func newFakeSaleRepo(items *fakeSaleItemRepo) *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*entity.Sale), items: items}
}

func (f *fakeSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	f.sales[sale.ID] = sale
	return nil
}

func (f *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return f.sales[id], nil
}

func (f *fakeSaleRepo) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error) {
	for _, sale := range f.sales {
		if sale.InvoiceNo == invoiceNo {
			return sale, nil
		}
	}
	return nil, nil
}

func (f *fakeSaleRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, ok := f.sales[id]
	if !ok {
		return nil, nil
	}
	sale.Items, _ = f.items.GetBySaleID(ctx, id)
	return sale, nil
}

func (f *fakeSaleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	f.sales[sale.ID] = sale
	return nil
}

func (f *fakeSaleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error {
	if sale, ok := f.sales[id]; ok {
		sale.Status = status
	}
	return nil
}

func (f *fakeSaleRepo) List(ctx context.Context, employeeID uuid.UUID, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	for _, sale := range f.sales {
		if !params.SkipEmployeeFilter && sale.EmployeeID != employeeID {
			continue
		}
		sales = append(sales, *sale)
	}
	return sales, int64(len(sales)), nil
}

func (f *fakeSaleRepo) ListWithCursor(ctx context.Context, employeeID uuid.UUID, params *repository.SaleCursorFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale
	for _, sale := range f.sales {
		if !params.SkipEmployeeFilter && sale.EmployeeID != employeeID {
			continue
		}
		sales = append(sales, *sale)
	}
	return sales, nil
}

type fakeSaleItemRepo struct {
	items []entity.SaleItem
}

func (f *fakeSaleItemRepo) CreateBatch(ctx context.Context, items []entity.SaleItem) error {
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeSaleItemRepo) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error) {
	var items []entity.SaleItem
	for _, item := range f.items {
		if item.SaleID == saleID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeSaleItemRepo) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	var kept []entity.SaleItem
	for _, item := range f.items {
		if item.SaleID != saleID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	for _, product := range f.products {
		if product.Slug == slug {
			return product, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			products = append(products, *product)
		}
	}
	return products, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	for _, product := range f.products {
		products = append(products, *product)
	}
	return products, int64(len(products)), nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (f *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return f.customers[id], nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.customers, id)
	return nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	for _, customer := range f.customers {
		customers = append(customers, *customer)
	}
	return customers, int64(len(customers)), nil
}

type fakeStockRepo struct {
	// stock[warehouseID][productID] = quantity
	stock map[uuid.UUID]map[uuid.UUID]int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stock: make(map[uuid.UUID]map[uuid.UUID]int)}
}

func (f *fakeStockRepo) set(warehouseID, productID uuid.UUID, quantity int) {
	if f.stock[warehouseID] == nil {
		f.stock[warehouseID] = make(map[uuid.UUID]int)
	}
	f.stock[warehouseID][productID] = quantity
}

func (f *fakeStockRepo) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]entity.WarehouseStock, error) {
	var rows []entity.WarehouseStock
	for productID, quantity := range f.stock[warehouseID] {
		rows = append(rows, entity.WarehouseStock{
			WarehouseID: warehouseID,
			ProductID:   productID,
			Quantity:    quantity,
		})
	}
	return rows, nil
}

func (f *fakeStockRepo) Upsert(ctx context.Context, stock *entity.WarehouseStock) error {
	f.set(stock.WarehouseID, stock.ProductID, stock.Quantity)
	return nil
}

func (f *fakeStockRepo) AtomicDecrementBatch(ctx context.Context, warehouseID uuid.UUID, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for productID, amount := range decrements {
		if f.stock[warehouseID][productID] < amount {
			failed = append(failed, productID)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for productID, amount := range decrements {
		f.stock[warehouseID][productID] -= amount
	}
	return nil, nil
}

func (f *fakeStockRepo) AtomicIncrementBatch(ctx context.Context, warehouseID uuid.UUID, increments map[uuid.UUID]int) error {
	for productID, amount := range increments {
		f.set(warehouseID, productID, f.stock[warehouseID][productID]+amount)
	}
	return nil
}

type fixedResolver struct {
	ceiling *float64
}

func (r *fixedResolver) ResolveCeiling(ctx context.Context, employeeID uuid.UUID, productTypeID *uuid.UUID) (*float64, error) {
	return r.ceiling, nil
}

type fakeDeliveryMailer struct {
	lastEmail     string
	lastInvoiceNo string
	lastCode      string
}

func (m *fakeDeliveryMailer) SendDeliveryOTPEmail(toEmail, invoiceNo, code string, expiryMinutes int) error {
	m.lastEmail = toEmail
	m.lastInvoiceNo = invoiceNo
	m.lastCode = code
	return nil
}

type saleFixture struct {
	svc       *SaleService
	saleRepo  *fakeSaleRepo
	itemRepo  *fakeSaleItemRepo
	products  *fakeProductRepo
	customers *fakeCustomerRepo
	stock     *fakeStockRepo
	resolver  *fixedResolver
	mailer    *fakeDeliveryMailer

	employeeID  uuid.UUID
	warehouseID uuid.UUID
	productID   uuid.UUID
	customerID  uuid.UUID
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	itemRepo := &fakeSaleItemRepo{}
	f := &saleFixture{
		saleRepo:  newFakeSaleRepo(itemRepo),
		itemRepo:  itemRepo,
		products:  newFakeProductRepo(),
		customers: newFakeCustomerRepo(),
		stock:     newFakeStockRepo(),
		resolver:  &fixedResolver{},
		mailer:    &fakeDeliveryMailer{},

		employeeID:  uuid.New(),
		warehouseID: uuid.New(),
		productID:   uuid.New(),
		customerID:  uuid.New(),
	}

	product := &entity.Product{
		ID:      f.productID,
		Name:    "Laptop Pro 15",
		Slug:    "laptop-pro-15",
		Code:    "PROD-TEST0001",
		TaxRate: 18,
	}
	product.SetPriceFromDecimal(1000)
	f.products.products[f.productID] = product

	email := "buyer@example.com"
	f.customers.customers[f.customerID] = &entity.Customer{
		ID:    f.customerID,
		Name:  "Test Buyer",
		Email: &email,
	}

	f.stock.set(f.warehouseID, f.productID, 10)

	f.svc = NewSaleService(
		f.saleRepo, f.itemRepo, f.products, f.customers, f.stock,
		f.resolver, cache.NewOTPStore(client), f.mailer,
		6, 10*time.Minute,
	)
	return f
}

func TestCreateSale_InvoiceComputesTotalsAndDecrementsStock(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.svc.CreateSale(ctx, &CreateSaleInput{
		EmployeeID:  f.employeeID,
		CustomerID:  &f.customerID,
		WarehouseID: f.warehouseID,
		SaleType:    enum.SaleTypeInvoice,
		Items: []SaleItemInput{{
			ProductID:       f.productID,
			Quantity:        2,
			UnitPrice:       1000,
			DiscountPercent: 10,
		}},
	})
	require.NoError(t, err)

	// 1000 * 2 = 2000 gross, 200 discount, 1800 taxable, 324 tax, 2124 total
	require.Equal(t, int64(200000), sale.Subtotal)
	require.Equal(t, int64(20000), sale.DiscountTotal)
	require.Equal(t, int64(32400), sale.TaxTotal)
	require.Equal(t, int64(212400), sale.GrandTotal)
	require.Equal(t, 2, sale.TotalItems)
	require.True(t, strings.HasPrefix(sale.InvoiceNo, "INV-"))
	require.Equal(t, enum.SaleStatusPending, sale.Status)

	// Invoice submission reserves stock
	require.Equal(t, 8, f.stock.stock[f.warehouseID][f.productID])

	items, err := f.itemRepo.GetBySaleID(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(212400), items[0].LineTotal)
}

func TestCreateSale_DraftLeavesStockAlone(t *testing.T) {
	f := newSaleFixture(t)

	sale, err := f.svc.CreateSale(context.Background(), &CreateSaleInput{
		EmployeeID:  f.employeeID,
		WarehouseID: f.warehouseID,
		SaleType:    enum.SaleTypeDraft,
		Items: []SaleItemInput{{
			ProductID: f.productID,
			Quantity:  3,
			UnitPrice: 1000,
		}},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(sale.InvoiceNo, "DRF-"))
	require.Equal(t, 10, f.stock.stock[f.warehouseID][f.productID])
}

func TestCreateSale_DiscountViolationRejectsWholeSubmission(t *testing.T) {
	f := newSaleFixture(t)
	ceiling := 15.0
	f.resolver.ceiling = &ceiling

	_, err := f.svc.CreateSale(context.Background(), &CreateSaleInput{
		EmployeeID:  f.employeeID,
		WarehouseID: f.warehouseID,
		SaleType:    enum.SaleTypeInvoice,
		Items: []SaleItemInput{
			{ProductID: f.productID, Quantity: 1, UnitPrice: 1000, DiscountPercent: 10},
			{ProductID: f.productID, Quantity: 1, UnitPrice: 1000, DiscountPercent: 20},
		},
	})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	require.Equal(t, 422, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	require.Equal(t, "items[1].discount_percent", appErr.Errors[0].Field)
	require.Contains(t, appErr.Errors[0].Message, "15.00%")

	// Nothing was persisted and stock is untouched
	require.Empty(t, f.saleRepo.sales)
	require.Equal(t, 10, f.stock.stock[f.warehouseID][f.productID])
}

func TestCreateSale_CeilingIsInclusive(t *testing.T) {
	f := newSaleFixture(t)
	ceiling := 15.0
	f.resolver.ceiling = &ceiling

	_, err := f.svc.CreateSale(context.Background(), &CreateSaleInput{
		EmployeeID:  f.employeeID,
		WarehouseID: f.warehouseID,
		SaleType:    enum.SaleTypeDraft,
		Items: []SaleItemInput{
			{ProductID: f.productID, Quantity: 1, UnitPrice: 1000, DiscountPercent: 15},
		},
	})
	require.NoError(t, err)
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.CreateSale(context.Background(), &CreateSaleInput{
		EmployeeID:  f.employeeID,
		WarehouseID: f.warehouseID,
		SaleType:    enum.SaleTypeInvoice,
		Items: []SaleItemInput{{
			ProductID: f.productID,
			Quantity:  11,
			UnitPrice: 1000,
		}},
	})
	require.Error(t, err)
	require.Equal(t, 400, apperror.GetAppError(err).Code)
	require.Contains(t, err.Error(), "Laptop Pro 15")
	require.Equal(t, 10, f.stock.stock[f.warehouseID][f.productID])
}

func TestDeliveryFlow(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.svc.CreateSale(ctx, &CreateSaleInput{
		EmployeeID:  f.employeeID,
		CustomerID:  &f.customerID,
		WarehouseID: f.warehouseID,
		SaleType:    enum.SaleTypeInvoice,
		Items: []SaleItemInput{{
			ProductID: f.productID,
			Quantity:  1,
			UnitPrice: 1000,
		}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.RequestDeliveryOTP(ctx, f.employeeID, sale.ID, false))
	require.Equal(t, "buyer@example.com", f.mailer.lastEmail)
	require.Equal(t, sale.InvoiceNo, f.mailer.lastInvoiceNo)
	require.Len(t, f.mailer.lastCode, 6)

	// Wrong code is rejected and the sale stays pending
	_, err = f.svc.ConfirmDelivery(ctx, f.employeeID, sale.ID, "000000", false)
	if f.mailer.lastCode != "000000" {
		require.Error(t, err)
	}

	delivered, err := f.svc.ConfirmDelivery(ctx, f.employeeID, sale.ID, f.mailer.lastCode, false)
	require.NoError(t, err)
	require.Equal(t, enum.SaleStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	// A delivered sale cannot be delivered again
	require.Error(t, f.svc.RequestDeliveryOTP(ctx, f.employeeID, sale.ID, false))
}

func TestDeliveryOTP_OnlyInvoicesAreDeliverable(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.svc.CreateSale(ctx, &CreateSaleInput{
		EmployeeID:  f.employeeID,
		CustomerID:  &f.customerID,
		WarehouseID: f.warehouseID,
		SaleType:    enum.SaleTypeProforma,
		Items: []SaleItemInput{{
			ProductID: f.productID,
			Quantity:  1,
			UnitPrice: 1000,
		}},
	})
	require.NoError(t, err)

	err = f.svc.RequestDeliveryOTP(ctx, f.employeeID, sale.ID, false)
	require.Error(t, err)
	require.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCancelSale_RestoresStockForInvoices(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.svc.CreateSale(ctx, &CreateSaleInput{
		EmployeeID:  f.employeeID,
		WarehouseID: f.warehouseID,
		SaleType:    enum.SaleTypeInvoice,
		Items: []SaleItemInput{{
			ProductID: f.productID,
			Quantity:  4,
			UnitPrice: 1000,
		}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, f.stock.stock[f.warehouseID][f.productID])

	require.NoError(t, f.svc.CancelSale(ctx, f.employeeID, sale.ID, false))
	require.Equal(t, 10, f.stock.stock[f.warehouseID][f.productID])

	stored, err := f.saleRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Equal(t, enum.SaleStatusCancelled, stored.Status)

	// Cancelling twice is rejected
	require.Error(t, f.svc.CancelSale(ctx, f.employeeID, sale.ID, false))
}

func TestSaleOwnership(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.svc.CreateSale(ctx, &CreateSaleInput{
		EmployeeID:  f.employeeID,
		WarehouseID: f.warehouseID,
		SaleType:    enum.SaleTypeDraft,
		Items: []SaleItemInput{{
			ProductID: f.productID,
			Quantity:  1,
			UnitPrice: 1000,
		}},
	})
	require.NoError(t, err)

	otherEmployee := uuid.New()
	_, err = f.svc.GetSale(ctx, otherEmployee, sale.ID, false)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	// Admins skip the ownership check
	got, err := f.svc.GetSale(ctx, otherEmployee, sale.ID, true)
	require.NoError(t, err)
	require.Equal(t, sale.ID, got.ID)
}

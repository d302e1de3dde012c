package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/application/service"
	"github.com/voltmart/backoffice-api/internal/domain/enum"
	"github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/request"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/response"
	"github.com/voltmart/backoffice-api/internal/validation"
	"github.com/voltmart/backoffice-api/pkg/pagination"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
	validate    *validatorv10.Validate
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, validate *validatorv10.Validate) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		validate:    validate,
	}
}

// List handles listing sales (supports both page-based and cursor-based pagination)
func (h *SaleHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	viewAll := CanViewAllSales(c)

	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *userID, viewAll)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:             c.Query("search"),
		SortBy:             c.Query("sort_by"),
		SortOrder:          c.Query("sort_order"),
		SkipEmployeeFilter: viewAll,
	}

	if saleTypeStr := c.Query("sale_type"); saleTypeStr != "" {
		if saleTypeInt, err := strconv.Atoi(saleTypeStr); err == nil {
			saleType := enum.SaleType(saleTypeInt)
			params.SaleType = &saleType
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		if statusInt, err := strconv.Atoi(statusStr); err == nil {
			status := enum.SaleStatus(statusInt)
			params.Status = &status
		}
	}
	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}
	if warehouseIDStr := c.Query("warehouse_id"); warehouseIDStr != "" {
		if warehouseID, err := uuid.Parse(warehouseIDStr); err == nil {
			params.WarehouseID = &warehouseID
		}
	}
	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}
	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.saleService.ListSales(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// listWithCursor handles listing sales with cursor-based pagination
func (h *SaleHandler) listWithCursor(c *gin.Context, userID uuid.UUID, viewAll bool) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))

	params := &repository.SaleCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		},
		Search:             c.Query("search"),
		SkipEmployeeFilter: viewAll,
	}

	if saleTypeStr := c.Query("sale_type"); saleTypeStr != "" {
		if saleTypeInt, err := strconv.Atoi(saleTypeStr); err == nil {
			saleType := enum.SaleType(saleTypeInt)
			params.SaleType = &saleType
		}
	}
	if statusStr := c.Query("status"); statusStr != "" {
		if statusInt, err := strconv.Atoi(statusStr); err == nil {
			status := enum.SaleStatus(statusInt)
			params.Status = &status
		}
	}
	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}
	if warehouseIDStr := c.Query("warehouse_id"); warehouseIDStr != "" {
		if warehouseID, err := uuid.Parse(warehouseIDStr); err == nil {
			params.WarehouseID = &warehouseID
		}
	}

	result, err := h.saleService.ListSalesWithCursor(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Sales retrieved successfully", result)
}

// Create handles submitting a sale. The server replays the whole composition
// and rejects any discount above the employee's ceiling with per-line errors.
func (h *SaleHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateSaleRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	items := make([]service.SaleItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.SaleItemInput{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
		}
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), &service.CreateSaleInput{
		EmployeeID:  *userID,
		CustomerID:  req.CustomerID,
		WarehouseID: req.WarehouseID,
		SaleType:    enum.SaleType(req.SaleType),
		Items:       items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", sale)
}

// Get handles getting a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), *userID, id, CanViewAllSales(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// RequestDeliveryOTP emails a delivery confirmation code to the customer
func (h *SaleHandler) RequestDeliveryOTP(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.saleService.RequestDeliveryOTP(c.Request.Context(), *userID, id, CanViewAllSales(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery code sent to the customer", nil)
}

// ConfirmDelivery marks a sale delivered after verifying the emailed code
func (h *SaleHandler) ConfirmDelivery(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.ConfirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sale, err := h.saleService.ConfirmDelivery(c.Request.Context(), *userID, id, req.Code, CanViewAllSales(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale delivered successfully", sale)
}

// Cancel handles cancelling a sale
func (h *SaleHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.saleService.CancelSale(c.Request.Context(), *userID, id, CanViewAllSales(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale cancelled successfully", nil)
}

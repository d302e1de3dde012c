package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/application/service"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/request"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/response"
)

// WarehouseHandler handles warehouse and stock HTTP requests
type WarehouseHandler struct {
	warehouseService *service.WarehouseService
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(warehouseService *service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// List handles listing warehouses
func (h *WarehouseHandler) List(c *gin.Context) {
	warehouses, err := h.warehouseService.ListWarehouses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Warehouses retrieved successfully", warehouses)
}

// Create handles creating a warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req request.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	warehouse, err := h.warehouseService.CreateWarehouse(c.Request.Context(), &service.CreateWarehouseInput{
		Name:     req.Name,
		Location: req.Location,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Warehouse created successfully", warehouse)
}

// Get handles getting a single warehouse
func (h *WarehouseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid warehouse ID")
		return
	}

	warehouse, err := h.warehouseService.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Warehouse retrieved successfully", warehouse)
}

// Update handles updating a warehouse
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req request.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	warehouse, err := h.warehouseService.UpdateWarehouse(c.Request.Context(), id, &service.UpdateWarehouseInput{
		Name:     req.Name,
		Location: req.Location,
		Phone:    req.Phone,
		Active:   req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Warehouse updated successfully", warehouse)
}

// Delete handles deleting a warehouse
func (h *WarehouseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid warehouse ID")
		return
	}

	if err := h.warehouseService.DeleteWarehouse(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Warehouse deleted successfully", nil)
}

// ListStock handles listing the stock of one warehouse. The sale-entry screen
// calls this whenever the selected warehouse changes.
func (h *WarehouseHandler) ListStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid warehouse ID")
		return
	}

	stock, err := h.warehouseService.ListWarehouseStock(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Warehouse stock retrieved successfully", stock)
}

// SetStock handles setting the on-hand quantity of a product in a warehouse
func (h *WarehouseHandler) SetStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req request.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	stock, err := h.warehouseService.SetStock(c.Request.Context(), &service.SetStockInput{
		WarehouseID: id,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock updated successfully", stock)
}

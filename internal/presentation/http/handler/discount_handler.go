package handler

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/application/service"
	"github.com/voltmart/backoffice-api/internal/domain/discount"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/request"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/response"
	"github.com/voltmart/backoffice-api/internal/validation"
)

// DiscountHandler handles discount limit administration and the ceiling
// resolution endpoints used by the sale-entry screen.
type DiscountHandler struct {
	discountService *service.DiscountService
	validate        *validatorv10.Validate
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *service.DiscountService, validate *validatorv10.Validate) *DiscountHandler {
	return &DiscountHandler{
		discountService: discountService,
		validate:        validate,
	}
}

// List handles listing discount limits
func (h *DiscountHandler) List(c *gin.Context) {
	limits, err := h.discountService.ListLimits(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount limits retrieved successfully", limits)
}

// Create handles creating a discount limit
func (h *DiscountHandler) Create(c *gin.Context) {
	var req request.CreateDiscountLimitRequest
	if err := validation.BindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	limit, err := h.discountService.CreateLimit(c.Request.Context(), &service.CreateLimitInput{
		RoleID:             req.RoleID,
		EmployeeID:         req.EmployeeID,
		ProductTypeID:      req.ProductTypeID,
		MaxDiscountPercent: req.MaxDiscountPercent,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Discount limit created successfully", limit)
}

// Get handles getting a single discount limit
func (h *DiscountHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount limit ID")
		return
	}

	limit, err := h.discountService.GetLimit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount limit retrieved successfully", limit)
}

// Update handles changing the ceiling of a discount limit
func (h *DiscountHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount limit ID")
		return
	}

	var req request.UpdateDiscountLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	limit, err := h.discountService.UpdateLimit(c.Request.Context(), id, req.MaxDiscountPercent)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount limit updated successfully", limit)
}

// Delete handles deleting a discount limit
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount limit ID")
		return
	}

	if err := h.discountService.DeleteLimit(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount limit deleted successfully", nil)
}

// ResolveCeiling returns the current employee's discount ceiling, optionally
// narrowed to a product type. A null ceiling means unrestricted.
func (h *DiscountHandler) ResolveCeiling(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var productTypeID *uuid.UUID
	if typeIDStr := c.Query("product_type_id"); typeIDStr != "" {
		typeID, err := uuid.Parse(typeIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid product type ID")
			return
		}
		productTypeID = &typeID
	}

	ceiling, err := h.discountService.ResolveCeiling(c.Request.Context(), *userID, productTypeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount ceiling resolved", gin.H{
		"product_type_id":      productTypeID,
		"max_discount_percent": ceiling,
	})
}

// ValidateDiscount previews a discount check for the current employee without
// touching any sale. The sale-entry screen calls this as the operator types.
func (h *DiscountHandler) ValidateDiscount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// A fresh authority per request keeps the preview free of cross-request
	// cache staleness.
	authority := discount.NewAuthority(h.discountService)
	result := authority.ValidateDiscount(c.Request.Context(), *userID, req.ProductTypeID, req.DiscountPercent)

	response.OK(c, "Discount validated", result)
}

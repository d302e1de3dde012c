package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/application/service"
	"github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/request"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/response"
	"github.com/voltmart/backoffice-api/pkg/pagination"
)

// ProductHandler handles product and product type HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if typeIDStr := c.Query("product_type_id"); typeIDStr != "" {
		if typeID, err := uuid.Parse(typeIDStr); err == nil {
			params.ProductTypeID = &typeID
		}
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		Name:          req.Name,
		ProductTypeID: req.ProductTypeID,
		Price:         req.Price,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		TaxRate:       req.TaxRate,
		QuantityAlert: req.QuantityAlert,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &service.UpdateProductInput{
		Name:          req.Name,
		ProductTypeID: req.ProductTypeID,
		Price:         req.Price,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		TaxRate:       req.TaxRate,
		QuantityAlert: req.QuantityAlert,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}

// ListTypes handles listing product types
func (h *ProductHandler) ListTypes(c *gin.Context) {
	types, err := h.productService.ListProductTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product types retrieved successfully", types)
}

// CreateType handles creating a product type
func (h *ProductHandler) CreateType(c *gin.Context) {
	var req request.ProductTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	productType, err := h.productService.CreateProductType(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product type created successfully", productType)
}

// UpdateType handles renaming a product type
func (h *ProductHandler) UpdateType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product type ID")
		return
	}

	var req request.ProductTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	productType, err := h.productService.UpdateProductType(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product type updated successfully", productType)
}

// DeleteType handles deleting a product type
func (h *ProductHandler) DeleteType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product type ID")
		return
	}

	if err := h.productService.DeleteProductType(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product type deleted successfully", nil)
}

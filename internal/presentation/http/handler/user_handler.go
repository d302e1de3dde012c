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

// UserHandler handles employee and RBAC HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles listing employees
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.UserFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:   c.Query("search"),
		RoleName: c.Query("role"),
	}

	result, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Employees retrieved successfully", result)
}

// Create handles creating an employee account
func (h *UserHandler) Create(c *gin.Context) {
	var req request.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		RoleIDs:   req.RoleIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Employee created successfully", user)
}

// Get handles getting a single employee
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid employee ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Employee retrieved successfully", user)
}

// Update handles updating an employee
func (h *UserHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid employee ID")
		return
	}

	var req request.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, &service.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Active:    req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Employee updated successfully", user)
}

// UpdateRoles handles replacing an employee's role set
func (h *UserHandler) UpdateRoles(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid employee ID")
		return
	}

	var req request.AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.AssignRoles(c.Request.Context(), id, req.RoleIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Roles updated successfully", user)
}

// Delete handles deleting an employee
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid employee ID")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Employee deleted successfully", nil)
}

// ListRoles handles listing roles
func (h *UserHandler) ListRoles(c *gin.Context) {
	roles, err := h.userService.ListRoles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Roles retrieved successfully", roles)
}

// CreateRole handles creating a role
func (h *UserHandler) CreateRole(c *gin.Context) {
	var req request.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.userService.CreateRole(c.Request.Context(), req.Name, req.PermissionIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Role created successfully", role)
}

// SyncPermissions handles replacing a role's permission set
func (h *UserHandler) SyncPermissions(c *gin.Context) {
	roleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid role ID")
		return
	}

	var req request.SyncPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.userService.SyncRolePermissions(c.Request.Context(), uint(roleID), req.PermissionIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Permissions updated successfully", role)
}

// DeleteRole handles deleting a role
func (h *UserHandler) DeleteRole(c *gin.Context) {
	roleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Invalid role ID")
		return
	}

	if err := h.userService.DeleteRole(c.Request.Context(), uint(roleID)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Role deleted successfully", nil)
}

// ListPermissions handles listing permissions
func (h *UserHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.userService.ListPermissions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Permissions retrieved successfully", permissions)
}

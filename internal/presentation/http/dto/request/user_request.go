package request

// CreateUserRequest represents a create employee request
type CreateUserRequest struct {
	FirstName string  `json:"first_name" binding:"required,min=2,max=255"`
	LastName  string  `json:"last_name" binding:"required,min=2,max=255"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone"`
	Password  string  `json:"password" binding:"required,min=8"`
	RoleIDs   []uint  `json:"role_ids"`
}

// UpdateUserRequest represents an update employee request
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=2,max=255"`
	LastName  *string `json:"last_name" binding:"omitempty,min=2,max=255"`
	Phone     *string `json:"phone"`
	Active    *bool   `json:"active"`
}

// AssignRolesRequest replaces an employee's role set
type AssignRolesRequest struct {
	RoleIDs []uint `json:"role_ids" binding:"required"`
}

// CreateRoleRequest represents a create role request
type CreateRoleRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=100"`
	PermissionIDs []uint `json:"permission_ids"`
}

// SyncPermissionsRequest replaces a role's permission set
type SyncPermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids" binding:"required"`
}

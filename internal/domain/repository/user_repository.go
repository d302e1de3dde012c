package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/pkg/pagination"
)

// UserRepository defines the interface for employee data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *UserFilterParams) ([]entity.User, int64, error)
	AssignRoles(ctx context.Context, userID uuid.UUID, roleIDs []uint) error
}

// UserFilterParams contains filtering parameters for user queries
type UserFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	RoleName   string
}

// RoleRepository defines the interface for role data operations
type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	GetByID(ctx context.Context, id uint) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	GetWithPermissions(ctx context.Context, id uint) (*entity.Role, error)
	Update(ctx context.Context, role *entity.Role) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]entity.Role, error)
	// SyncPermissions replaces the role's permission set in one operation;
	// the permission matrix UI toggles rows and columns in bulk.
	SyncPermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
}

// PermissionRepository defines the interface for permission data operations
type PermissionRepository interface {
	List(ctx context.Context) ([]entity.Permission, error)
	GetByIDs(ctx context.Context, ids []uint) ([]entity.Permission, error)
}

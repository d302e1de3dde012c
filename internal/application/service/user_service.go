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

// UserService handles employee and RBAC management
type UserService struct {
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	permissionRepo repository.PermissionRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

// CreateUserInput represents the create employee input
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Password  string
	RoleIDs   []uint
}

// CreateUser creates a new employee account
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  hashedPassword,
		Active:    true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if len(input.RoleIDs) > 0 {
		if err := s.userRepo.AssignRoles(ctx, user.ID, input.RoleIDs); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetWithRoles(ctx, user.ID)
}

// GetUser retrieves an employee with roles by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}
	return user, nil
}

// UpdateUserInput represents the update employee input
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Active    *bool
}

// UpdateUser updates an employee account
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.userRepo.GetWithRoles(ctx, id)
}

// DeleteUser deletes an employee account
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("Employee")
	}
	return s.userRepo.Delete(ctx, id)
}

// ListUsers lists employees with filtering
func (s *UserService) ListUsers(ctx context.Context, params *repository.UserFilterParams) (*pagination.PaginatedResult[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(users, pag), nil
}

// AssignRoles replaces the employee's role set
func (s *UserService) AssignRoles(ctx context.Context, userID uuid.UUID, roleIDs []uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("Employee")
	}

	for _, roleID := range roleIDs {
		role, err := s.roleRepo.GetByID(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, apperror.NewNotFoundError("Role")
		}
	}

	if err := s.userRepo.AssignRoles(ctx, userID, roleIDs); err != nil {
		return nil, err
	}

	return s.userRepo.GetWithRoles(ctx, userID)
}

// ListRoles lists all roles with their permissions
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.List(ctx)
}

// CreateRole creates a new role
func (s *UserService) CreateRole(ctx context.Context, name string, permissionIDs []uint) (*entity.Role, error) {
	existing, err := s.roleRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Role already exists")
	}

	permissions, err := s.permissionRepo.GetByIDs(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	role := &entity.Role{
		Name:        name,
		GuardName:   "web",
		Permissions: permissions,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	return s.roleRepo.GetWithPermissions(ctx, role.ID)
}

// SyncRolePermissions replaces a role's permission set. This backs the
// permission matrix screen, which saves the whole grid at once.
func (s *UserService) SyncRolePermissions(ctx context.Context, roleID uint, permissionIDs []uint) (*entity.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperror.NewNotFoundError("Role")
	}

	if err := s.roleRepo.SyncPermissions(ctx, roleID, permissionIDs); err != nil {
		return nil, err
	}

	return s.roleRepo.GetWithPermissions(ctx, roleID)
}

// DeleteRole deletes a role
func (s *UserService) DeleteRole(ctx context.Context, roleID uint) error {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return apperror.NewNotFoundError("Role")
	}
	return s.roleRepo.Delete(ctx, roleID)
}

// ListPermissions lists all permissions
func (s *UserService) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	return s.permissionRepo.List(ctx)
}

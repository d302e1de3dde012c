package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/voltmart/backoffice-api/internal/domain/entity"
	"github.com/voltmart/backoffice-api/internal/domain/repository"
	"github.com/voltmart/backoffice-api/pkg/apperror"
)

type fakeLimitRepo struct {
	limits []entity.DiscountLimit
}

func (f *fakeLimitRepo) Create(ctx context.Context, limit *entity.DiscountLimit) error {
	if limit.ID == uuid.Nil {
		limit.ID = uuid.New()
	}
	f.limits = append(f.limits, *limit)
	return nil
}

func (f *fakeLimitRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.DiscountLimit, error) {
	for i := range f.limits {
		if f.limits[i].ID == id {
			limit := f.limits[i]
			return &limit, nil
		}
	}
	return nil, nil
}

func (f *fakeLimitRepo) Update(ctx context.Context, limit *entity.DiscountLimit) error {
	for i := range f.limits {
		if f.limits[i].ID == limit.ID {
			f.limits[i] = *limit
			return nil
		}
	}
	return nil
}

func (f *fakeLimitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range f.limits {
		if f.limits[i].ID == id {
			f.limits = append(f.limits[:i], f.limits[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeLimitRepo) List(ctx context.Context) ([]entity.DiscountLimit, error) {
	return f.limits, nil
}

func matchType(limit *entity.DiscountLimit, productTypeID *uuid.UUID) bool {
	if productTypeID == nil {
		return limit.ProductTypeID == nil
	}
	return limit.ProductTypeID != nil && *limit.ProductTypeID == *productTypeID
}

func (f *fakeLimitRepo) FindForEmployee(ctx context.Context, employeeID uuid.UUID, productTypeID *uuid.UUID) (*entity.DiscountLimit, error) {
	for i := range f.limits {
		limit := f.limits[i]
		if limit.EmployeeID != nil && *limit.EmployeeID == employeeID && matchType(&limit, productTypeID) {
			return &limit, nil
		}
	}
	return nil, nil
}

func (f *fakeLimitRepo) FindForRoles(ctx context.Context, roleIDs []uint, productTypeID *uuid.UUID) (*entity.DiscountLimit, error) {
	var best *entity.DiscountLimit
	for i := range f.limits {
		limit := f.limits[i]
		if limit.RoleID == nil || !matchType(&limit, productTypeID) {
			continue
		}
		for _, roleID := range roleIDs {
			if *limit.RoleID == roleID {
				if best == nil || limit.MaxDiscountPercent > best.MaxDiscountPercent {
					candidate := limit
					best = &candidate
				}
			}
		}
	}
	return best, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, params *repository.UserFilterParams) ([]entity.User, int64, error) {
	var users []entity.User
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, int64(len(users)), nil
}

func (f *fakeUserRepo) AssignRoles(ctx context.Context, userID uuid.UUID, roleIDs []uint) error {
	return nil
}

func seedEmployee(repo *fakeUserRepo, roleID uint) uuid.UUID {
	employee := &entity.User{
		ID:    uuid.New(),
		Email: "seller@voltmart.local",
		Roles: []entity.Role{{ID: roleID, Name: "seller"}},
	}
	repo.users[employee.ID] = employee
	return employee.ID
}

func TestResolveCeiling_Precedence(t *testing.T) {
	limitRepo := &fakeLimitRepo{}
	userRepo := newFakeUserRepo()
	svc := NewDiscountService(limitRepo, userRepo)
	ctx := context.Background()

	employeeID := seedEmployee(userRepo, 7)
	typeID := uuid.New()
	roleID := uint(7)

	role10 := 10.0
	employeeType15 := 15.0
	roleType12 := 12.0

	// Global role limit, typed role limit, typed employee limit
	limitRepo.limits = []entity.DiscountLimit{
		{ID: uuid.New(), RoleID: &roleID, MaxDiscountPercent: role10},
		{ID: uuid.New(), RoleID: &roleID, ProductTypeID: &typeID, MaxDiscountPercent: roleType12},
		{ID: uuid.New(), EmployeeID: &employeeID, ProductTypeID: &typeID, MaxDiscountPercent: employeeType15},
	}

	// Typed lookup: the employee-scoped typed limit wins
	ceiling, err := svc.ResolveCeiling(ctx, employeeID, &typeID)
	require.NoError(t, err)
	require.NotNil(t, ceiling)
	require.Equal(t, 15.0, *ceiling)

	// Untyped lookup: only global limits apply, so the role global wins
	ceiling, err = svc.ResolveCeiling(ctx, employeeID, nil)
	require.NoError(t, err)
	require.NotNil(t, ceiling)
	require.Equal(t, 10.0, *ceiling)

	// A different type falls through typed limits to the role global
	otherType := uuid.New()
	ceiling, err = svc.ResolveCeiling(ctx, employeeID, &otherType)
	require.NoError(t, err)
	require.NotNil(t, ceiling)
	require.Equal(t, 10.0, *ceiling)
}

func TestResolveCeiling_NoLimitsMeansUnrestricted(t *testing.T) {
	limitRepo := &fakeLimitRepo{}
	userRepo := newFakeUserRepo()
	svc := NewDiscountService(limitRepo, userRepo)

	employeeID := seedEmployee(userRepo, 7)

	ceiling, err := svc.ResolveCeiling(context.Background(), employeeID, nil)
	require.NoError(t, err)
	require.Nil(t, ceiling)
}

func TestResolveCeiling_ZeroIsARealCeiling(t *testing.T) {
	limitRepo := &fakeLimitRepo{}
	userRepo := newFakeUserRepo()
	svc := NewDiscountService(limitRepo, userRepo)

	employeeID := seedEmployee(userRepo, 7)
	zero := 0.0
	limitRepo.limits = []entity.DiscountLimit{
		{ID: uuid.New(), EmployeeID: &employeeID, MaxDiscountPercent: zero},
	}

	ceiling, err := svc.ResolveCeiling(context.Background(), employeeID, nil)
	require.NoError(t, err)
	require.NotNil(t, ceiling)
	require.Equal(t, 0.0, *ceiling)
}

func TestCreateLimit_ScopeValidation(t *testing.T) {
	limitRepo := &fakeLimitRepo{}
	userRepo := newFakeUserRepo()
	svc := NewDiscountService(limitRepo, userRepo)
	ctx := context.Background()

	employeeID := uuid.New()
	roleID := uint(3)

	// Neither scope set
	_, err := svc.CreateLimit(ctx, &CreateLimitInput{MaxDiscountPercent: 10})
	require.Error(t, err)

	// Both scopes set
	_, err = svc.CreateLimit(ctx, &CreateLimitInput{
		RoleID:             &roleID,
		EmployeeID:         &employeeID,
		MaxDiscountPercent: 10,
	})
	require.Error(t, err)

	// Out of range
	_, err = svc.CreateLimit(ctx, &CreateLimitInput{
		EmployeeID:         &employeeID,
		MaxDiscountPercent: 101,
	})
	require.Error(t, err)

	// Valid
	limit, err := svc.CreateLimit(ctx, &CreateLimitInput{
		EmployeeID:         &employeeID,
		MaxDiscountPercent: 25,
	})
	require.NoError(t, err)
	require.Equal(t, 25.0, limit.MaxDiscountPercent)

	// Duplicate scope rejected
	_, err = svc.CreateLimit(ctx, &CreateLimitInput{
		EmployeeID:         &employeeID,
		MaxDiscountPercent: 30,
	})
	require.Error(t, err)
	require.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestUpdateLimit_RangeCheck(t *testing.T) {
	limitRepo := &fakeLimitRepo{}
	userRepo := newFakeUserRepo()
	svc := NewDiscountService(limitRepo, userRepo)
	ctx := context.Background()

	employeeID := uuid.New()
	limit, err := svc.CreateLimit(ctx, &CreateLimitInput{
		EmployeeID:         &employeeID,
		MaxDiscountPercent: 20,
	})
	require.NoError(t, err)

	_, err = svc.UpdateLimit(ctx, limit.ID, 150)
	require.Error(t, err)

	updated, err := svc.UpdateLimit(ctx, limit.ID, 35)
	require.NoError(t, err)
	require.Equal(t, 35.0, updated.MaxDiscountPercent)
}

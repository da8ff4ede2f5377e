package service

import (
	"context"
	"errors"
	"testing"

	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/pagination"
	"github.com/staffdeck/attendance-service/internal/policy"
	"github.com/staffdeck/attendance-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =============================================================================
// Mock EmployeeRepository
// =============================================================================

type mockEmployeeRepository struct {
	findByIDFunc      func(ctx context.Context, id string) (*models.Employee, error)
	findByUserIDFunc  func(ctx context.Context, userID string) (*models.Employee, error)
	createFunc        func(ctx context.Context, employee *models.Employee) error
	updateFunc        func(ctx context.Context, employee *models.Employee) error
	deleteFunc        func(ctx context.Context, id string) error
	listFunc          func(ctx context.Context, params pagination.Params, filter pagination.Filter) ([]models.Employee, int64, error)
	listByIDsFunc     func(ctx context.Context, ids []string) ([]models.Employee, error)
	listByUserIDsFunc func(ctx context.Context, userIDs []string) ([]models.Employee, error)
}

func (m *mockEmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEmployeeRepository) FindByUserID(ctx context.Context, userID string) (*models.Employee, error) {
	if m.findByUserIDFunc != nil {
		return m.findByUserIDFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, employee)
	}
	return errors.New("not implemented")
}

func (m *mockEmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, employee)
	}
	return errors.New("not implemented")
}

func (m *mockEmployeeRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockEmployeeRepository) List(ctx context.Context, params pagination.Params, filter pagination.Filter) ([]models.Employee, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, params, filter)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockEmployeeRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Employee, error) {
	if m.listByIDsFunc != nil {
		return m.listByIDsFunc(ctx, ids)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEmployeeRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]models.Employee, error) {
	if m.listByUserIDsFunc != nil {
		return m.listByUserIDsFunc(ctx, userIDs)
	}
	return nil, errors.New("not implemented")
}

var _ repository.EmployeeRepository = (*mockEmployeeRepository)(nil)

// =============================================================================
// List
// =============================================================================

func TestEmployeeList_DefaultsApplied(t *testing.T) {
	var gotParams pagination.Params
	employees := &mockEmployeeRepository{
		listFunc: func(_ context.Context, params pagination.Params, _ pagination.Filter) ([]models.Employee, int64, error) {
			gotParams = params
			return []models.Employee{{ID: "emp-1"}}, 25, nil
		},
	}
	svc := NewEmployeeService(employees, &mockUserRepository{})

	page, err := svc.List(context.Background(), pagination.RawParams{}, pagination.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 0, gotParams.Skip)
	assert.Equal(t, 10, gotParams.Take)
	assert.Equal(t, int64(25), page.TotalCount)
	assert.True(t, page.HasNextPage)
	assert.False(t, page.HasPreviousPage)
}

func TestEmployeeList_RejectsBadParams(t *testing.T) {
	employees := &mockEmployeeRepository{
		listFunc: func(_ context.Context, _ pagination.Params, _ pagination.Filter) ([]models.Employee, int64, error) {
			t.Fatal("gateway must not be reached with invalid params")
			return nil, 0, nil
		},
	}
	svc := NewEmployeeService(employees, &mockUserRepository{})

	take := 500
	_, err := svc.List(context.Background(), pagination.RawParams{Take: &take}, pagination.Filter{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestEmployeeList_RejectsBadFilter(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepository{}, &mockUserRepository{})

	ageMin, ageMax := 40, 20
	_, err := svc.List(context.Background(), pagination.RawParams{}, pagination.Filter{AgeMin: &ageMin, AgeMax: &ageMax})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

// =============================================================================
// Create / Update / Delete
// =============================================================================

func TestEmployeeCreate_Success(t *testing.T) {
	users := &mockUserRepository{
		findByIDFunc: func(_ context.Context, id string) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}
	employees := &mockEmployeeRepository{
		createFunc: func(_ context.Context, employee *models.Employee) error {
			employee.ID = "emp-1"
			return nil
		},
	}
	svc := NewEmployeeService(employees, users)

	employee, err := svc.Create(context.Background(), CreateEmployeeInput{
		UserID: "user-1",
		Name:   "  Alice  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", employee.Name)
	assert.True(t, employee.IsActive)
}

func TestEmployeeCreate_UnknownUser(t *testing.T) {
	users := &mockUserRepository{
		findByIDFunc: func(_ context.Context, _ string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewEmployeeService(&mockEmployeeRepository{}, users)

	_, err := svc.Create(context.Background(), CreateEmployeeInput{UserID: "ghost", Name: "Alice"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestEmployeeCreate_InvalidName(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepository{}, &mockUserRepository{})

	_, err := svc.Create(context.Background(), CreateEmployeeInput{UserID: "user-1", Name: "   "})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestEmployeeUpdate_PartialFields(t *testing.T) {
	age := 30
	existing := &models.Employee{ID: "emp-1", UserID: "user-1", Name: "Alice", Age: &age, IsActive: true}
	var updated *models.Employee
	employees := &mockEmployeeRepository{
		findByIDFunc: func(_ context.Context, _ string) (*models.Employee, error) {
			return existing, nil
		},
		updateFunc: func(_ context.Context, employee *models.Employee) error {
			updated = employee
			return nil
		},
	}
	svc := NewEmployeeService(employees, &mockUserRepository{})

	newName := "Alice B"
	result, err := svc.Update(context.Background(), "emp-1", UpdateEmployeeInput{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Alice B", result.Name)
	// Untouched fields survive a partial update.
	require.NotNil(t, updated.Age)
	assert.Equal(t, 30, *updated.Age)
	assert.True(t, updated.IsActive)
}

func TestEmployeeDelete_NotFound(t *testing.T) {
	employees := &mockEmployeeRepository{
		deleteFunc: func(_ context.Context, _ string) error {
			return gorm.ErrRecordNotFound
		},
	}
	svc := NewEmployeeService(employees, &mockUserRepository{})

	err := svc.Delete(context.Background(), "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

// =============================================================================
// UpdateMyName
// =============================================================================

func TestUpdateMyName_ExistingProfile(t *testing.T) {
	employees := &mockEmployeeRepository{
		findByUserIDFunc: func(_ context.Context, userID string) (*models.Employee, error) {
			return &models.Employee{ID: "emp-1", UserID: userID, Name: "Old"}, nil
		},
		updateFunc: func(_ context.Context, _ *models.Employee) error {
			return nil
		},
	}
	svc := NewEmployeeService(employees, &mockUserRepository{})

	identity := &policy.Identity{UserID: "user-1", Role: models.RoleEmployee, Verified: true}
	employee, err := svc.UpdateMyName(context.Background(), identity, "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", employee.Name)
}

func TestUpdateMyName_AdminWithoutProfileCreatesOne(t *testing.T) {
	var created *models.Employee
	employees := &mockEmployeeRepository{
		findByUserIDFunc: func(_ context.Context, _ string) (*models.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFunc: func(_ context.Context, employee *models.Employee) error {
			created = employee
			return nil
		},
	}
	svc := NewEmployeeService(employees, &mockUserRepository{})

	identity := &policy.Identity{UserID: "admin-1", Role: models.RoleAdmin, Verified: true}
	employee, err := svc.UpdateMyName(context.Background(), identity, "Boss")
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "admin-1", created.UserID)
	assert.Equal(t, "Boss", employee.Name)
	assert.True(t, created.IsActive)
}

func TestUpdateMyName_EmployeeWithoutProfileGetsNotFound(t *testing.T) {
	employees := &mockEmployeeRepository{
		findByUserIDFunc: func(_ context.Context, _ string) (*models.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFunc: func(_ context.Context, _ *models.Employee) error {
			t.Fatal("non-admin callers must not get a lazily created profile")
			return nil
		},
	}
	svc := NewEmployeeService(employees, &mockUserRepository{})

	identity := &policy.Identity{UserID: "user-1", Role: models.RoleEmployee, Verified: true}
	_, err := svc.UpdateMyName(context.Background(), identity, "New Name")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

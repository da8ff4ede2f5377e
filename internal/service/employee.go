package service

import (
	"context"
	"strings"

	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/pagination"
	"github.com/staffdeck/attendance-service/internal/policy"
	"github.com/staffdeck/attendance-service/internal/repository"
)

const maxEmployeeNameLen = 100

// CreateEmployeeInput carries the fields for an explicit admin-side
// profile creation.
type CreateEmployeeInput struct {
	UserID   string  `json:"user_id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Age      *int    `json:"age"`
	Class    *string `json:"class"`
	IsActive *bool   `json:"is_active"`
}

// UpdateEmployeeInput carries partial updates; nil fields stay unchanged.
type UpdateEmployeeInput struct {
	Name     *string `json:"name"`
	Age      *int    `json:"age"`
	Class    *string `json:"class"`
	IsActive *bool   `json:"is_active"`
}

// EmployeeService owns employee profile lifecycle and listing.
type EmployeeService interface {
	List(ctx context.Context, raw pagination.RawParams, filter pagination.Filter) (pagination.Page[models.Employee], error)
	Get(ctx context.Context, id string) (*models.Employee, error)
	MyProfile(ctx context.Context, userID string) (*models.Employee, error)
	Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error)
	Update(ctx context.Context, id string, input UpdateEmployeeInput) (*models.Employee, error)
	Delete(ctx context.Context, id string) error
	// UpdateMyName renames the caller's own profile. When no profile
	// exists it is lazily created, but only for admin callers; everyone
	// else gets NotFound. This asymmetry mirrors observed behavior and
	// is flagged for product clarification, do not generalize it.
	UpdateMyName(ctx context.Context, identity *policy.Identity, name string) (*models.Employee, error)
}

type employeeService struct {
	employees repository.EmployeeRepository
	users     repository.UserRepository
}

// NewEmployeeService creates a new EmployeeService instance.
func NewEmployeeService(employees repository.EmployeeRepository, users repository.UserRepository) EmployeeService {
	return &employeeService{employees: employees, users: users}
}

func (s *employeeService) List(ctx context.Context, raw pagination.RawParams, filter pagination.Filter) (pagination.Page[models.Employee], error) {
	params, err := pagination.Normalize(raw)
	if err != nil {
		return pagination.Page[models.Employee]{}, err
	}
	if err := pagination.ValidateFilter(filter); err != nil {
		return pagination.Page[models.Employee]{}, err
	}

	employees, total, err := s.employees.List(ctx, params, filter)
	if err != nil {
		return pagination.Page[models.Employee]{}, apperrors.Internal(err)
	}
	return pagination.BuildPage(employees, total, params), nil
}

func (s *employeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err, "employee")
	}
	return employee, nil
}

func (s *employeeService) MyProfile(ctx context.Context, userID string) (*models.Employee, error) {
	employee, err := s.employees.FindByUserID(ctx, userID)
	if err != nil {
		return nil, classify(err, "employee profile")
	}
	return employee, nil
}

func (s *employeeService) Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error) {
	if err := validateEmployeeName(input.Name); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		return nil, classify(err, "user")
	}

	employee := &models.Employee{
		UserID:   input.UserID,
		Name:     strings.TrimSpace(input.Name),
		Age:      input.Age,
		Class:    input.Class,
		IsActive: true,
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, classify(err, "employee profile")
	}
	return employee, nil
}

func (s *employeeService) Update(ctx context.Context, id string, input UpdateEmployeeInput) (*models.Employee, error) {
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err, "employee")
	}

	if input.Name != nil {
		if err := validateEmployeeName(*input.Name); err != nil {
			return nil, err
		}
		employee.Name = strings.TrimSpace(*input.Name)
	}
	if input.Age != nil {
		employee.Age = input.Age
	}
	if input.Class != nil {
		employee.Class = input.Class
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, classify(err, "employee")
	}
	return employee, nil
}

func (s *employeeService) Delete(ctx context.Context, id string) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		return classify(err, "employee")
	}
	return nil
}

func (s *employeeService) UpdateMyName(ctx context.Context, identity *policy.Identity, name string) (*models.Employee, error) {
	if err := validateEmployeeName(name); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	employee, err := s.employees.FindByUserID(ctx, identity.UserID)
	if err != nil {
		if !isNotFound(err) {
			return nil, apperrors.Internal(err)
		}
		if !identity.IsAdmin() {
			return nil, apperrors.NotFound("employee profile")
		}
		employee = &models.Employee{
			UserID:   identity.UserID,
			Name:     name,
			IsActive: true,
		}
		if err := s.employees.Create(ctx, employee); err != nil {
			return nil, classify(err, "employee profile")
		}
		return employee, nil
	}

	employee.Name = name
	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, classify(err, "employee")
	}
	return employee, nil
}

func validateEmployeeName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.InvalidInput(apperrors.FieldError{Field: "name", Message: "must not be empty"})
	}
	if len(name) > maxEmployeeNameLen {
		return apperrors.InvalidInput(apperrors.FieldError{Field: "name", Message: "must be at most 100 characters"})
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =============================================================================
// Mock SubjectRepository
// =============================================================================

type mockSubjectRepository struct {
	findByIDFunc                  func(ctx context.Context, id string) (*models.Subject, error)
	createFunc                    func(ctx context.Context, subject *models.Subject) error
	deleteFunc                    func(ctx context.Context, id string) error
	listFunc                      func(ctx context.Context) ([]models.Subject, error)
	listByIDsFunc                 func(ctx context.Context, ids []string) ([]models.Subject, error)
	assignFunc                    func(ctx context.Context, employeeID, subjectID string) error
	listByEmployeeIDsFunc         func(ctx context.Context, employeeIDs []string) ([]repository.SubjectOfEmployee, error)
	listEmployeesBySubjectIDsFunc func(ctx context.Context, subjectIDs []string) ([]repository.EmployeeOfSubject, error)
}

func (m *mockSubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, subject)
	}
	return errors.New("not implemented")
}

func (m *mockSubjectRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockSubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSubjectRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Subject, error) {
	if m.listByIDsFunc != nil {
		return m.listByIDsFunc(ctx, ids)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSubjectRepository) Assign(ctx context.Context, employeeID, subjectID string) error {
	if m.assignFunc != nil {
		return m.assignFunc(ctx, employeeID, subjectID)
	}
	return errors.New("not implemented")
}

func (m *mockSubjectRepository) ListByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]repository.SubjectOfEmployee, error) {
	if m.listByEmployeeIDsFunc != nil {
		return m.listByEmployeeIDsFunc(ctx, employeeIDs)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSubjectRepository) ListEmployeesBySubjectIDs(ctx context.Context, subjectIDs []string) ([]repository.EmployeeOfSubject, error) {
	if m.listEmployeesBySubjectIDsFunc != nil {
		return m.listEmployeesBySubjectIDsFunc(ctx, subjectIDs)
	}
	return nil, errors.New("not implemented")
}

var _ repository.SubjectRepository = (*mockSubjectRepository)(nil)

// =============================================================================
// Tests
// =============================================================================

func TestSubjectList_EmptyIsNotNil(t *testing.T) {
	subjects := &mockSubjectRepository{
		listFunc: func(_ context.Context) ([]models.Subject, error) {
			return nil, nil
		},
	}
	svc := NewSubjectService(subjects, &mockEmployeeRepository{})

	result, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestSubjectCreate_TrimsName(t *testing.T) {
	subjects := &mockSubjectRepository{
		createFunc: func(_ context.Context, subject *models.Subject) error {
			subject.ID = "sub-1"
			return nil
		},
	}
	svc := NewSubjectService(subjects, &mockEmployeeRepository{})

	subject, err := svc.Create(context.Background(), "  Mathematics  ")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", subject.Name)
}

func TestSubjectCreate_EmptyName(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepository{}, &mockEmployeeRepository{})

	_, err := svc.Create(context.Background(), "   ")
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestSubjectCreate_DuplicateName(t *testing.T) {
	subjects := &mockSubjectRepository{
		createFunc: func(_ context.Context, _ *models.Subject) error {
			return gorm.ErrDuplicatedKey
		},
	}
	svc := NewSubjectService(subjects, &mockEmployeeRepository{})

	_, err := svc.Create(context.Background(), "Mathematics")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestSubjectDelete_NotFound(t *testing.T) {
	subjects := &mockSubjectRepository{
		deleteFunc: func(_ context.Context, _ string) error {
			return gorm.ErrRecordNotFound
		},
	}
	svc := NewSubjectService(subjects, &mockEmployeeRepository{})

	err := svc.Delete(context.Background(), "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSubjectAssign_Success(t *testing.T) {
	var assigned bool
	subjects := &mockSubjectRepository{
		findByIDFunc: func(_ context.Context, id string) (*models.Subject, error) {
			return &models.Subject{ID: id, Name: "Mathematics"}, nil
		},
		assignFunc: func(_ context.Context, employeeID, subjectID string) error {
			assert.Equal(t, "emp-1", employeeID)
			assert.Equal(t, "sub-1", subjectID)
			assigned = true
			return nil
		},
	}
	employees := &mockEmployeeRepository{
		findByIDFunc: func(_ context.Context, id string) (*models.Employee, error) {
			return &models.Employee{ID: id}, nil
		},
	}
	svc := NewSubjectService(subjects, employees)

	require.NoError(t, svc.Assign(context.Background(), "sub-1", "emp-1"))
	assert.True(t, assigned)
}

func TestSubjectAssign_UnknownSubject(t *testing.T) {
	subjects := &mockSubjectRepository{
		findByIDFunc: func(_ context.Context, _ string) (*models.Subject, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewSubjectService(subjects, &mockEmployeeRepository{})

	err := svc.Assign(context.Background(), "missing", "emp-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSubjectAssign_UnknownEmployee(t *testing.T) {
	subjects := &mockSubjectRepository{
		findByIDFunc: func(_ context.Context, id string) (*models.Subject, error) {
			return &models.Subject{ID: id}, nil
		},
	}
	employees := &mockEmployeeRepository{
		findByIDFunc: func(_ context.Context, _ string) (*models.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewSubjectService(subjects, employees)

	err := svc.Assign(context.Background(), "sub-1", "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSubjectAssign_AlreadyAssigned(t *testing.T) {
	subjects := &mockSubjectRepository{
		findByIDFunc: func(_ context.Context, id string) (*models.Subject, error) {
			return &models.Subject{ID: id}, nil
		},
		assignFunc: func(_ context.Context, _, _ string) error {
			return gorm.ErrDuplicatedKey
		},
	}
	employees := &mockEmployeeRepository{
		findByIDFunc: func(_ context.Context, id string) (*models.Employee, error) {
			return &models.Employee{ID: id}, nil
		},
	}
	svc := NewSubjectService(subjects, employees)

	err := svc.Assign(context.Background(), "sub-1", "emp-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

package repository

import (
	"context"
	"fmt"

	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/pagination"
	"gorm.io/gorm"
)

// EmployeeRepository defines the interface for employee data operations.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	FindByUserID(ctx context.Context, userID string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	// Delete removes the employee together with its subject links and
	// attendance rows in one transaction.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params pagination.Params, filter pagination.Filter) ([]models.Employee, int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Employee, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]models.Employee, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository instance.
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&employee).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find employee by id %s: %w", id, err)
	}
	return &employee, nil
}

func (r *employeeRepository) FindByUserID(ctx context.Context, userID string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&employee).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find employee by user id %s: %w", userID, err)
	}
	return &employee, nil
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if err := r.db.WithContext(ctx).Create(employee).Error; err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	if err := r.db.WithContext(ctx).Save(employee).Error; err != nil {
		return fmt.Errorf("failed to update employee id %s: %w", employee.ID, err)
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&models.EmployeeSubject{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Employee{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	return nil
}

func (r *employeeRepository) List(ctx context.Context, params pagination.Params, filter pagination.Filter) ([]models.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})
	query = applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	var employees []models.Employee
	err := query.
		Order(params.OrderClause()).
		Offset(params.Skip).
		Limit(params.Take).
		Find(&employees).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, total, nil
}

// applyFilter translates a validated filter into query predicates. Absent
// fields impose no constraint.
func applyFilter(query *gorm.DB, filter pagination.Filter) *gorm.DB {
	if filter.Name != nil {
		query = query.Where("name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.Class != nil {
		query = query.Where("class ILIKE ?", "%"+*filter.Class+"%")
	}
	if filter.AgeMin != nil {
		query = query.Where("age >= ?", *filter.AgeMin)
	}
	if filter.AgeMax != nil {
		query = query.Where("age <= ?", *filter.AgeMax)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

func (r *employeeRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees by ids: %w", err)
	}
	return employees, nil
}

func (r *employeeRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees by user ids: %w", err)
	}
	return employees, nil
}

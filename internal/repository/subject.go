package repository

import (
	"context"
	"fmt"

	"github.com/staffdeck/attendance-service/internal/models"
	"gorm.io/gorm"
)

// SubjectOfEmployee is one joined row used by the subjects-of-employee
// batch: the subject plus the employee it was fetched for.
type SubjectOfEmployee struct {
	EmployeeID string
	Subject    models.Subject `gorm:"embedded"`
}

// EmployeeOfSubject is the mirror row for the employees-of-subject batch.
type EmployeeOfSubject struct {
	SubjectID string
	Employee  models.Employee `gorm:"embedded"`
}

// SubjectRepository defines the interface for subject data operations,
// including the many-to-many association with employees.
type SubjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	// Delete removes the subject and its join rows; employees are kept.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Subject, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Subject, error)
	Assign(ctx context.Context, employeeID, subjectID string) error
	ListByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]SubjectOfEmployee, error)
	ListEmployeesBySubjectIDs(ctx context.Context, subjectIDs []string) ([]EmployeeOfSubject, error)
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository creates a new SubjectRepository instance.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subject).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find subject by id %s: %w", id, err)
	}
	return &subject, nil
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if err := r.db.WithContext(ctx).Create(subject).Error; err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

func (r *subjectRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subject_id = ?", id).Delete(&models.EmployeeSubject{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Subject{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete subject %s: %w", id, err)
	}
	return nil
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

func (r *subjectRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects by ids: %w", err)
	}
	return subjects, nil
}

func (r *subjectRepository) Assign(ctx context.Context, employeeID, subjectID string) error {
	link := models.EmployeeSubject{EmployeeID: employeeID, SubjectID: subjectID}
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		return fmt.Errorf("failed to assign subject %s to employee %s: %w", subjectID, employeeID, err)
	}
	return nil
}

func (r *subjectRepository) ListByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]SubjectOfEmployee, error) {
	var rows []SubjectOfEmployee
	err := r.db.WithContext(ctx).
		Table("employee_subjects").
		Select("employee_subjects.employee_id AS employee_id, subjects.*").
		Joins("JOIN subjects ON subjects.id = employee_subjects.subject_id").
		Where("employee_subjects.employee_id IN ?", employeeIDs).
		Order("subjects.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects by employee ids: %w", err)
	}
	return rows, nil
}

func (r *subjectRepository) ListEmployeesBySubjectIDs(ctx context.Context, subjectIDs []string) ([]EmployeeOfSubject, error) {
	var rows []EmployeeOfSubject
	err := r.db.WithContext(ctx).
		Table("employee_subjects").
		Select("employee_subjects.subject_id AS subject_id, employees.*").
		Joins("JOIN employees ON employees.id = employee_subjects.employee_id").
		Where("employee_subjects.subject_id IN ?", subjectIDs).
		Order("employees.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by subject ids: %w", err)
	}
	return rows, nil
}

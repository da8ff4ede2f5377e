package service

import (
	"context"
	"strings"

	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/repository"
)

const maxSubjectNameLen = 100

// SubjectService owns the subject catalog and its employee assignments.
type SubjectService interface {
	List(ctx context.Context) ([]models.Subject, error)
	Create(ctx context.Context, name string) (*models.Subject, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, subjectID, employeeID string) error
}

type subjectService struct {
	subjects  repository.SubjectRepository
	employees repository.EmployeeRepository
}

// NewSubjectService creates a new SubjectService instance.
func NewSubjectService(subjects repository.SubjectRepository, employees repository.EmployeeRepository) SubjectService {
	return &subjectService{subjects: subjects, employees: employees}
}

func (s *subjectService) List(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	return subjects, nil
}

func (s *subjectService) Create(ctx context.Context, name string) (*models.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidInput(apperrors.FieldError{Field: "name", Message: "must not be empty"})
	}
	if len(name) > maxSubjectNameLen {
		return nil, apperrors.InvalidInput(apperrors.FieldError{Field: "name", Message: "must be at most 100 characters"})
	}

	subject := &models.Subject{Name: name}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, classify(err, "subject")
	}
	return subject, nil
}

func (s *subjectService) Delete(ctx context.Context, id string) error {
	if err := s.subjects.Delete(ctx, id); err != nil {
		return classify(err, "subject")
	}
	return nil
}

func (s *subjectService) Assign(ctx context.Context, subjectID, employeeID string) error {
	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		return classify(err, "subject")
	}
	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		return classify(err, "employee")
	}

	if err := s.subjects.Assign(ctx, employeeID, subjectID); err != nil {
		return classify(err, "subject assignment")
	}
	return nil
}

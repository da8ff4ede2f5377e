package service

import (
	"context"
	"time"

	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/repository"
)

// MarkAttendanceInput carries one attendance mark. Marking the same
// (employee, date) again updates the stored status instead of creating a
// second row.
type MarkAttendanceInput struct {
	EmployeeID string    `json:"employee_id" binding:"required"`
	Date       time.Time `json:"date" binding:"required" time_format:"2006-01-02"`
	Present    bool      `json:"present"`
}

// AttendanceService owns attendance marking and range queries.
type AttendanceService interface {
	Mark(ctx context.Context, input MarkAttendanceInput) (*models.Attendance, error)
	ListByEmployee(ctx context.Context, employeeID string, start, end *time.Time) ([]models.Attendance, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	employees  repository.EmployeeRepository
}

// NewAttendanceService creates a new AttendanceService instance.
func NewAttendanceService(attendance repository.AttendanceRepository, employees repository.EmployeeRepository) AttendanceService {
	return &attendanceService{attendance: attendance, employees: employees}
}

func (s *attendanceService) Mark(ctx context.Context, input MarkAttendanceInput) (*models.Attendance, error) {
	if input.Date.IsZero() {
		return nil, apperrors.InvalidInput(apperrors.FieldError{Field: "date", Message: "must be a valid date"})
	}

	if _, err := s.employees.FindByID(ctx, input.EmployeeID); err != nil {
		return nil, classify(err, "employee")
	}

	record := &models.Attendance{
		EmployeeID: input.EmployeeID,
		Date:       input.Date.UTC().Truncate(24 * time.Hour),
		Present:    input.Present,
	}
	if err := s.attendance.Upsert(ctx, record); err != nil {
		return nil, apperrors.Internal(err)
	}
	return record, nil
}

func (s *attendanceService) ListByEmployee(ctx context.Context, employeeID string, start, end *time.Time) ([]models.Attendance, error) {
	if start != nil && end != nil && start.After(*end) {
		return nil, apperrors.InvalidInput(apperrors.FieldError{
			Field: "start", Message: "must not be after end",
		})
	}

	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		return nil, classify(err, "employee")
	}

	records, err := s.attendance.ListByEmployee(ctx, employeeID, start, end)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if records == nil {
		records = []models.Attendance{}
	}
	return records, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/staffdeck/attendance-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceRepository defines the interface for attendance data
// operations.
type AttendanceRepository interface {
	// Upsert creates the row for (employee, date) or updates its status.
	// At most one row per pair ever exists.
	Upsert(ctx context.Context, attendance *models.Attendance) error
	ListByEmployee(ctx context.Context, employeeID string, start, end *time.Time) ([]models.Attendance, error)
	ListByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]models.Attendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new AttendanceRepository instance.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Upsert(ctx context.Context, attendance *models.Attendance) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"present", "updated_at"}),
		}).
		Create(attendance).Error
	if err != nil {
		return fmt.Errorf("failed to upsert attendance for employee %s: %w", attendance.EmployeeID, err)
	}
	return nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, start, end *time.Time) ([]models.Attendance, error) {
	query := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}

	var records []models.Attendance
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %s: %w", employeeID, err)
	}
	return records, nil
}

func (r *attendanceRepository) ListByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]models.Attendance, error) {
	var records []models.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id IN ?", employeeIDs).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by employee ids: %w", err)
	}
	return records, nil
}

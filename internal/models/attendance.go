package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance records presence of one employee on one date. The composite
// unique index guarantees at most one row per (employee, date); writes go
// through an upsert so repeated marks update the existing row.
type Attendance struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	EmployeeID string    `json:"employee_id" gorm:"type:uuid;not null;uniqueIndex:idx_attendance_employee_date"`
	Date       time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date"`
	Present    bool      `json:"present" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Employee *Employee `json:"-" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the Attendance model.
func (Attendance) TableName() string {
	return "attendance"
}

// BeforeCreate assigns an ID and truncates the date to day precision.
func (a *Attendance) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Date = a.Date.UTC().Truncate(24 * time.Hour)
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is a profile owned by exactly one user. The unique index on
// UserID enforces the 1:1 relationship.
type Employee struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Age       *int      `json:"age"`
	Class     *string   `json:"class" gorm:"type:varchar(50)"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the Employee model.
func (Employee) TableName() string {
	return "employees"
}

// BeforeCreate assigns an ID if none was set.
func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EmployeeSubject links an employee to a subject. It has no identity of
// its own beyond the composite key.
type EmployeeSubject struct {
	EmployeeID string `json:"employee_id" gorm:"type:uuid;primaryKey"`
	SubjectID  string `json:"subject_id" gorm:"type:uuid;primaryKey"`

	Employee Employee `json:"-" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Subject  Subject  `json:"-" gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the EmployeeSubject model.
func (EmployeeSubject) TableName() string {
	return "employee_subjects"
}

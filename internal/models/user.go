// Package models contains data models for the attendance service.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level assigned to a user.
type Role string

const (
	// RoleAdmin can manage employees, subjects and attendance.
	RoleAdmin Role = "ADMIN"
	// RoleEmployee can only read their own profile and attendance.
	RoleEmployee Role = "EMPLOYEE"
)

// User represents an authenticated identity in the system.
// Exactly one user exists per (case-folded) email address.
type User struct {
	ID           string     `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         Role       `json:"role" gorm:"type:varchar(16);not null;default:EMPLOYEE"`
	OTPCode      *string    `json:"-" gorm:"column:otp_code"`
	OTPExpiresAt *time.Time `json:"-" gorm:"column:otp_expires_at"`
	Verified     bool       `json:"verified" gorm:"not null;default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an ID and case-folds the email.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

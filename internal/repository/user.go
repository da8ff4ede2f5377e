// Package repository provides the persistence gateway for the attendance
// service. Every batch method implements "where field in (set)" semantics
// and returns zero or more rows per key without guaranteed order; grouping
// by key is the loader set's job.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/staffdeck/attendance-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	SetOTP(ctx context.Context, userID, code string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, userID string) error
	ListByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id %s: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user id %s: %w", user.ID, err)
	}
	return nil
}

// SetOTP stores a freshly generated verification code on the user row.
func (r *userRepository) SetOTP(ctx context.Context, userID, code string, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"otp_code":       code,
			"otp_expires_at": expiresAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set otp for user %s: %w", userID, err)
	}
	return nil
}

// MarkVerified flips the verified flag and clears the OTP state.
func (r *userRepository) MarkVerified(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"verified":       true,
			"otp_code":       nil,
			"otp_expires_at": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark user %s verified: %w", userID, err)
	}
	return nil
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by ids: %w", err)
	}
	return users, nil
}

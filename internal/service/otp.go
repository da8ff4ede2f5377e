package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/notifier"
	"github.com/staffdeck/attendance-service/internal/repository"
)

const otpCodeDigits = 6

// OTPService manages verification codes: generation, delivery and checks.
// It also implements policy.OTPResender for the access gate's unverified
// side effect.
type OTPService interface {
	// GenerateAndSend stores a fresh code for the user and attempts
	// delivery. Delivery failures are logged, never returned: the
	// triggering mutation must not fail because an email did not go out.
	GenerateAndSend(ctx context.Context, user *models.User) error
	// Resend regenerates a code for the user id, loading the user first.
	Resend(ctx context.Context, userID string) error
	// Verify checks the code for the email and flips the verified flag.
	Verify(ctx context.Context, email, code string) error
}

type otpService struct {
	users    repository.UserRepository
	notifier notifier.Notifier
	expiry   time.Duration
	logger   *slog.Logger
}

// NewOTPService creates a new OTPService instance.
func NewOTPService(users repository.UserRepository, n notifier.Notifier, expiry time.Duration, logger *slog.Logger) OTPService {
	return &otpService{users: users, notifier: n, expiry: expiry, logger: logger}
}

func (s *otpService) GenerateAndSend(ctx context.Context, user *models.User) error {
	code, err := generateCode()
	if err != nil {
		return apperrors.Internal(err)
	}

	expiresAt := time.Now().Add(s.expiry)
	if err := s.users.SetOTP(ctx, user.ID, code, expiresAt); err != nil {
		return apperrors.Internal(err)
	}

	// Best-effort delivery: log and continue on failure.
	if err := s.notifier.SendOTP(ctx, user.Email, code); err != nil {
		s.logger.Error("otp delivery failed",
			"email", user.Email,
			"kind", apperrors.KindDeliveryFailed.String(),
			"error", err,
		)
	}
	return nil
}

func (s *otpService) Resend(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return classify(err, "user")
	}
	if user.Verified {
		// Nothing to verify; treat as a no-op rather than an error.
		return nil
	}
	return s.GenerateAndSend(ctx, user)
}

func (s *otpService) Verify(ctx context.Context, email, code string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return classify(err, "user")
	}
	if user.Verified {
		return nil
	}

	if user.OTPCode == nil || *user.OTPCode != code {
		return apperrors.InvalidInput(apperrors.FieldError{
			Field: "code", Message: "verification code is incorrect",
		})
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		return apperrors.InvalidInput(apperrors.FieldError{
			Field: "code", Message: "verification code has expired",
		})
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// generateCode returns a uniformly random numeric code with leading
// zeros preserved.
func generateCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < otpCodeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}
	return fmt.Sprintf("%0*d", otpCodeDigits, n), nil
}

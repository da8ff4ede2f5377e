package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/staffdeck/attendance-service/internal/policy"
	"github.com/staffdeck/attendance-service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const refreshTokenTTL = 7 * 24 * time.Hour

// LoginResponse is the payload returned on successful authentication.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	UserID       string      `json:"user_id"`
	Role         models.Role `json:"role"`
}

// AuthService is the authentication oracle: it turns credentials into an
// identity or fails, and owns the OTP verification flow.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	VerifyOTP(ctx context.Context, email, code string) error
	ResendOTP(ctx context.Context, email string) error
	// IdentityFromToken resolves a bearer credential to the caller's
	// identity, or nil-equivalent failure. Used by the auth middleware.
	IdentityFromToken(ctx context.Context, token string) (*policy.Identity, error)
	// EnsureAdmin creates a verified admin account if the email is not
	// taken. Used at startup for bootstrap credentials.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	users      repository.UserRepository
	jwtService JWTService
	otpService OTPService
	redis      *redis.Client
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(users repository.UserRepository, jwtService JWTService, otpService OTPService, redisClient *redis.Client, logger *slog.Logger) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		otpService: otpService,
		redis:      redisClient,
		logger:     logger,
	}
}

func (s *authService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleEmployee,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.KindOf(classify(err, "user")) == apperrors.KindConflict {
			return nil, apperrors.Conflict("an account with this email already exists")
		}
		return nil, apperrors.Internal(err)
	}

	// Registration succeeds even if the verification email fails to go
	// out; the caller can always request a resend.
	if err := s.otpService.GenerateAndSend(ctx, user); err != nil {
		s.logger.Error("otp generation failed after registration", "user_id", user.ID, "error", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.New(apperrors.KindUnauthenticated, "invalid credentials")
		}
		return nil, apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.New(apperrors.KindUnauthenticated, "invalid credentials")
	}

	return s.issueTokens(ctx, user.ID, user.Role)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, apperrors.New(apperrors.KindUnauthenticated, "invalid refresh token")
	}

	stored, err := s.redis.Get(ctx, refreshKey(claims.UserID)).Result()
	if err != nil || stored != refreshToken {
		return nil, apperrors.New(apperrors.KindUnauthenticated, "invalid refresh token")
	}

	return s.issueTokens(ctx, claims.UserID, claims.Role)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return apperrors.Unauthenticated()
	}
	if err := s.redis.Del(ctx, refreshKey(claims.UserID)).Err(); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, email, code string) error {
	return s.otpService.Verify(ctx, strings.ToLower(strings.TrimSpace(email)), code)
}

func (s *authService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return classify(err, "user")
	}
	return s.otpService.Resend(ctx, user.ID)
}

func (s *authService) IdentityFromToken(ctx context.Context, token string) (*policy.Identity, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthenticated()
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthenticated()
	}

	return &policy.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		Verified: user.Verified,
	}, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !isNotFound(err) {
		return apperrors.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal(err)
	}

	admin := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Verified:     true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return classify(err, "user")
	}
	s.logger.Info("bootstrap admin created", "email", email)
	return nil
}

func (s *authService) issueTokens(ctx context.Context, userID string, role models.Role) (*LoginResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.redis.Set(ctx, refreshKey(userID), refreshToken, refreshTokenTTL).Err(); err != nil {
		return nil, apperrors.Internal(err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessExpiry().Seconds()),
		UserID:       userID,
		Role:         role,
	}, nil
}

func refreshKey(userID string) string {
	return fmt.Sprintf("refresh_token:%s", userID)
}

func validateCredentials(email, password string) error {
	var fields []apperrors.FieldError
	if email == "" || !strings.Contains(email, "@") {
		fields = append(fields, apperrors.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(password) < 8 {
		fields = append(fields, apperrors.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if len(fields) > 0 {
		return apperrors.InvalidInput(fields...)
	}
	return nil
}

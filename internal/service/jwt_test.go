package service

import (
	"testing"
	"time"

	"github.com/staffdeck/attendance-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Token round-trips
// =============================================================================

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, testAccessExpiry, testRefreshExpiry)

	tests := []struct {
		name   string
		userID string
		role   models.Role
	}{
		{name: "employee", userID: "user-1", role: models.RoleEmployee},
		{name: "admin", userID: "admin-1", role: models.RoleAdmin},
		{name: "uuid id", userID: "3b7f4e8a-1c2d-4e5f-9a0b-6c7d8e9f0a1b", role: models.RoleEmployee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.GenerateAccessToken(tt.userID, tt.role)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := svc.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.role, claims.Role)
		})
	}
}

func TestGenerateRefreshToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, testAccessExpiry, testRefreshExpiry)

	token, err := svc.GenerateRefreshToken("user-1", models.RoleEmployee)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

// =============================================================================
// Validation failures
// =============================================================================

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := NewJWTService(testSecret, testAccessExpiry, testRefreshExpiry)
	other := NewJWTService("a-completely-different-32b-secret!!!", testAccessExpiry, testRefreshExpiry)

	token, err := svc.GenerateAccessToken("user-1", models.RoleEmployee)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute, testRefreshExpiry)

	token, err := svc.GenerateAccessToken("user-1", models.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService(testSecret, testAccessExpiry, testRefreshExpiry)

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestAccessExpiry(t *testing.T) {
	svc := NewJWTService(testSecret, testAccessExpiry, testRefreshExpiry)
	assert.Equal(t, testAccessExpiry, svc.AccessExpiry())
}

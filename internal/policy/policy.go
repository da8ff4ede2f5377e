// Package policy implements the access decision applied before every
// data-access operation. The rule set is evaluated in a fixed order and
// short-circuits on the first failure, which keeps the role/ownership
// behavior auditable in one place instead of scattered through handlers.
package policy

import (
	"context"
	"log/slog"

	"github.com/staffdeck/attendance-service/internal/apperrors"
	"github.com/staffdeck/attendance-service/internal/models"
)

// Identity is the authenticated caller as established by the JWT
// middleware. A nil Identity means the request is unauthenticated.
type Identity struct {
	UserID   string
	Email    string
	Role     models.Role
	Verified bool
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// Requirement describes what an operation demands of the caller.
type Requirement struct {
	// AdminOnly restricts the operation to the admin role.
	AdminOnly bool
	// OwnerUserID, when set, restricts the operation to the user owning
	// the resource. Admins always pass ownership checks.
	OwnerUserID string
}

// OTPResender regenerates a verification code for an unverified identity
// and attempts delivery. Delivery failures are handled inside the
// implementation; Resend only fails when no code could be generated.
type OTPResender interface {
	Resend(ctx context.Context, userID string) error
}

// Gate is the reusable authorization check.
type Gate struct {
	resender OTPResender
	logger   *slog.Logger
}

// NewGate creates a gate that uses resender for the unverified-identity
// side effect.
func NewGate(resender OTPResender, logger *slog.Logger) *Gate {
	return &Gate{resender: resender, logger: logger}
}

// Authorize evaluates the rule set in order:
//
//  1. no identity                          -> Unauthenticated
//  2. identity not OTP-verified            -> resend code, VerificationRequired
//  3. admin required, role not admin       -> Forbidden
//  4. ownership required, not owner/admin  -> Forbidden
func (g *Gate) Authorize(ctx context.Context, identity *Identity, req Requirement) error {
	if identity == nil {
		return apperrors.Unauthenticated()
	}

	if !identity.Verified {
		if err := g.resender.Resend(ctx, identity.UserID); err != nil {
			// Non-fatal: the caller still learns verification is
			// required even when the resend could not be arranged.
			g.logger.Error("otp resend failed", "user_id", identity.UserID, "error", err)
		}
		return apperrors.VerificationRequired(identity.Email)
	}

	if req.AdminOnly && identity.Role != models.RoleAdmin {
		return apperrors.Forbidden("admin role required")
	}

	if req.OwnerUserID != "" && identity.UserID != req.OwnerUserID && identity.Role != models.RoleAdmin {
		return apperrors.Forbidden("not the owner of this resource")
	}

	return nil
}

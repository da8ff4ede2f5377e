// Package handlers contains HTTP request handlers for the attendance
// service.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/staffdeck/attendance-service/internal/apperrors"
)

// ErrorResponse is the uniform failure payload: a stable machine-readable
// kind plus a human-readable message.
type ErrorResponse struct {
	Kind   string                 `json:"kind"`
	Error  string                 `json:"error"`
	Email  string                 `json:"email,omitempty"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

// respondError maps an error kind to a transport status. Unclassified
// errors are logged with detail and surfaced as a generic internal error.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr == nil {
		appErr = apperrors.Internal(err)
	}

	status := statusOf(appErr.Kind)
	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		// Never leak internal detail to the caller.
		c.JSON(status, ErrorResponse{
			Kind:  apperrors.KindInternal.String(),
			Error: "internal error",
		})
		return
	}

	c.JSON(status, ErrorResponse{
		Kind:   appErr.Kind.String(),
		Error:  appErr.Message,
		Email:  appErr.Email,
		Fields: appErr.Fields,
	})
}

func statusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindVerificationRequired, apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package service

import (
	"errors"

	"github.com/staffdeck/attendance-service/internal/apperrors"
	"gorm.io/gorm"
)

// classify maps gateway errors onto the service error taxonomy. Anything
// unrecognized becomes Internal so storage detail never leaks to callers.
func classify(err error, resource string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(resource + " already exists")
	default:
		return apperrors.Internal(err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

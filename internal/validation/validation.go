package validation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
)

// ErrInvalidUUID is returned for malformed identifiers.
var ErrInvalidUUID = fmt.Errorf("%w: invalid UUID format", apperrors.ErrValidation)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
)

// Error carries field-specific validation messages.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// Unwrap lets callers match any validation failure with errors.Is(err, apperrors.ErrValidation).
func (e *Error) Unwrap() error {
	return apperrors.ErrValidation
}

// maxPriceScale is the number of fractional digits a stored price can carry.
const maxPriceScale = 2

// validatePrice checks that a price is positive and has at most two fractional digits.
func validatePrice(d decimal.Decimal) string {
	if !d.IsPositive() {
		return "must be positive"
	}
	if !d.Equal(d.Truncate(maxPriceScale)) {
		return "must have at most 2 decimal places"
	}
	return ""
}

// validateDate checks the YYYY-MM-DD format.
func validateDate(value string) string {
	if strings.TrimSpace(value) == "" {
		return "is required"
	}
	if _, err := ParseDate(value); err != nil {
		return "must be in YYYY-MM-DD format"
	}
	return ""
}

package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

// maxCodeLength bounds symbol and market codes.
const maxCodeLength = 10

// ValidateCreateEntry validates an entry creation request.
//
// Required fields:
//   - symbol, market: non-blank, at most 10 characters
//   - position: Long or Short
//   - entryDate: Must be in YYYY-MM-DD format
//   - entryPrice: positive, at most 2 decimal places
//   - qty: positive
//
// Optional fields (validated if provided):
//   - stopLossPrice, targetPrice: positive, at most 2 decimal places
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateEntry(req request.CreateEntryRequest) error {
	errors := make(map[string]string)

	if msg := validateCode(req.Symbol); msg != "" {
		errors["symbol"] = "symbol " + msg
	}
	if msg := validateCode(req.Market); msg != "" {
		errors["market"] = "market " + msg
	}

	if strings.TrimSpace(req.Position) == "" {
		errors["position"] = "position is required"
	} else if !model.Direction(req.Position).Valid() {
		errors["position"] = fmt.Sprintf("invalid position: %s", req.Position)
	}

	if msg := validateDate(req.EntryDate); msg != "" {
		errors["entryDate"] = "entryDate " + msg
	}

	if msg := validatePrice(req.EntryPrice); msg != "" {
		errors["entryPrice"] = "entryPrice " + msg
	}

	if req.Qty <= 0 {
		errors["qty"] = "qty must be positive"
	}

	if req.StopLossPrice != nil {
		if msg := validatePrice(*req.StopLossPrice); msg != "" {
			errors["stopLossPrice"] = "stopLossPrice " + msg
		}
	}
	if req.TargetPrice != nil {
		if msg := validatePrice(*req.TargetPrice); msg != "" {
			errors["targetPrice"] = "targetPrice " + msg
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func validateCode(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return "is required"
	}
	if len(v) > maxCodeLength {
		return fmt.Sprintf("must be at most %d characters", maxCodeLength)
	}
	return ""
}

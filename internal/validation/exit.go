package validation

import (
	"github.com/ndewijer/Trading-Journal-Backend/internal/api/request"
)

// ValidateCreateExit validates an exit request.
//
// Required fields:
//   - entryId: Must be a valid UUID
//   - exitDate: Must be in YYYY-MM-DD format
//   - exitPrice: positive, at most 2 decimal places
//   - qty: positive
//
// Whether qty fits the entry's remaining position is checked by the ledger, not here.
func ValidateCreateExit(req request.CreateExitRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.EntryID); err != nil {
		errors["entryId"] = "entryId must be a valid UUID"
	}

	if msg := validateDate(req.ExitDate); msg != "" {
		errors["exitDate"] = "exitDate " + msg
	}

	if msg := validatePrice(req.ExitPrice); msg != "" {
		errors["exitPrice"] = "exitPrice " + msg
	}

	if req.Qty <= 0 {
		errors["qty"] = "qty must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

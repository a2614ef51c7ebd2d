package request

import "github.com/shopspring/decimal"

// CreateExitRequest is the body of POST /api/exit.
type CreateExitRequest struct {
	EntryID   string          `json:"entryId"`
	ExitDate  string          `json:"exitDate"`
	ExitPrice decimal.Decimal `json:"exitPrice"`
	Qty       int64           `json:"qty"`
}

package request

import "github.com/shopspring/decimal"

// CreateEntryRequest is the body of POST /api/entry.
// Prices accept JSON numbers or numeric strings.
type CreateEntryRequest struct {
	Symbol        string           `json:"symbol"`
	Market        string           `json:"market"`
	Position      string           `json:"position"`
	EntryDate     string           `json:"entryDate"`
	EntryPrice    decimal.Decimal  `json:"entryPrice"`
	Qty           int64            `json:"qty"`
	StopLossPrice *decimal.Decimal `json:"stopLossPrice,omitempty"`
	TargetPrice   *decimal.Decimal `json:"targetPrice,omitempty"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exit represents a partial or full closure of an entry.
// Exits are immutable once created.
type Exit struct {
	ID        string          `json:"id"`
	EntryID   string          `json:"entryId"`
	ExitDate  time.Time       `json:"exitDate"`
	ExitPrice decimal.Decimal `json:"exitPrice"`
	ExitQty   int64           `json:"exitQty"`
	CreatedAt time.Time       `json:"createdAt"`
}

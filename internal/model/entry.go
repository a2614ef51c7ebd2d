package model

import (
	"time"

	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Direction is the side of a position.
type Direction string

const (
	DirectionLong  Direction = "Long"
	DirectionShort Direction = "Short"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == DirectionLong || d == DirectionShort
}

// Entry represents a trading position from the trade_entry table.
// RemainingQty and IsOpen are the only fields that change after creation,
// and only through the exit-application rule.
type Entry struct {
	ID            string              `json:"id"`
	Symbol        string              `json:"symbol"`
	Market        string              `json:"market"`
	Position      Direction           `json:"position"`
	EntryDate     time.Time           `json:"entryDate"`
	EntryPrice    decimal.Decimal     `json:"entryPrice"`
	Qty           int64               `json:"qty"`
	RemainingQty  int64               `json:"remainingQty"`
	StopLossPrice decimal.NullDecimal `json:"stopLossPrice"`
	TargetPrice   decimal.NullDecimal `json:"targetPrice"`
	IsOpen        bool                `json:"isOpen"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// Reduce applies an exit of qty to the entry in memory.
// On error the entry is left unchanged.
func (e *Entry) Reduce(qty int64) error {
	if !e.IsOpen {
		return apperrors.ErrEntryClosed
	}
	if qty > e.RemainingQty {
		return apperrors.ErrExitExceedsRemaining
	}

	e.RemainingQty -= qty
	e.IsOpen = e.RemainingQty > 0
	return nil
}

// EntryStatus filters entries by lifecycle state.
type EntryStatus string

const (
	EntryStatusAny    EntryStatus = ""
	EntryStatusOpen   EntryStatus = "open"
	EntryStatusClosed EntryStatus = "closed"
)

// EntryFilter for querying entries. Empty fields do not filter.
type EntryFilter struct {
	Market string
	Symbol string
	Status EntryStatus
}

// Page selects a window of an ordered listing.
type Page struct {
	Offset int
	Limit  int
}

// EntryView is the fully materialized read model of an entry:
// the ledger state, its exits and the derived metrics computed on read.
type EntryView struct {
	Entry
	Exits []Exit `json:"exits"`
	DerivedMetrics
}

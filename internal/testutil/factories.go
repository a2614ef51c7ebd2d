package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// EntryBuilder provides a fluent interface for creating test entries.
// The row is inserted directly, bypassing the ledger, so tests can also
// create states the ledger would never produce.
//
// Example usage:
//
//	// Simple creation with defaults
//	entry := testutil.NewEntry().Build(t, db)
//
//	// Customized entry
//	entry := testutil.NewEntry().
//	    WithMarket("US").
//	    WithPosition(model.DirectionShort).
//	    WithPrices("50.00", "55.00", "40.00").
//	    Build(t, db)
type EntryBuilder struct {
	ID            string
	Symbol        string
	Market        string
	Position      model.Direction
	EntryDate     time.Time
	EntryPrice    decimal.Decimal
	Qty           int64
	RemainingQty  *int64
	StopLossPrice decimal.NullDecimal
	TargetPrice   decimal.NullDecimal
	IsOpen        *bool
	CreatedAt     time.Time
}

// NewEntry creates an EntryBuilder with sensible defaults:
// an open Long position of 100 at 100.00 on 2024-01-02 in market HK.
func NewEntry() *EntryBuilder {
	return &EntryBuilder{
		ID:         MakeID(),
		Symbol:     MakeSymbol("TST"),
		Market:     "HK",
		Position:   model.DirectionLong,
		EntryDate:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EntryPrice: decimal.NewFromInt(100),
		Qty:        100,
		CreatedAt:  time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *EntryBuilder) WithID(id string) *EntryBuilder {
	b.ID = id
	return b
}

// WithSymbol sets a custom symbol.
func (b *EntryBuilder) WithSymbol(symbol string) *EntryBuilder {
	b.Symbol = symbol
	return b
}

// WithMarket sets a custom market code.
func (b *EntryBuilder) WithMarket(market string) *EntryBuilder {
	b.Market = market
	return b
}

// WithPosition sets the direction.
func (b *EntryBuilder) WithPosition(position model.Direction) *EntryBuilder {
	b.Position = position
	return b
}

// WithEntryDate sets the entry date.
func (b *EntryBuilder) WithEntryDate(date time.Time) *EntryBuilder {
	b.EntryDate = date
	return b
}

// WithEntryPrice sets the entry price from its decimal text.
func (b *EntryBuilder) WithEntryPrice(price string) *EntryBuilder {
	b.EntryPrice = decimal.RequireFromString(price)
	return b
}

// WithPrices sets entry, stop-loss and target prices. An empty stop or target is left unset.
func (b *EntryBuilder) WithPrices(entry, stop, target string) *EntryBuilder {
	b.EntryPrice = decimal.RequireFromString(entry)
	if stop != "" {
		b.StopLossPrice = decimal.NewNullDecimal(decimal.RequireFromString(stop))
	}
	if target != "" {
		b.TargetPrice = decimal.NewNullDecimal(decimal.RequireFromString(target))
	}
	return b
}

// WithQty sets the original quantity. Remaining follows it unless set explicitly.
func (b *EntryBuilder) WithQty(qty int64) *EntryBuilder {
	b.Qty = qty
	return b
}

// WithRemainingQty sets the remaining quantity. The open flag follows it unless set explicitly.
func (b *EntryBuilder) WithRemainingQty(remaining int64) *EntryBuilder {
	b.RemainingQty = &remaining
	return b
}

// WithIsOpen forces the open flag, even if it contradicts the remaining quantity.
func (b *EntryBuilder) WithIsOpen(open bool) *EntryBuilder {
	b.IsOpen = &open
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *EntryBuilder) WithCreatedAt(createdAt time.Time) *EntryBuilder {
	b.CreatedAt = createdAt
	return b
}

// Closed marks the entry as fully exited.
func (b *EntryBuilder) Closed() *EntryBuilder {
	return b.WithRemainingQty(0)
}

// Model returns the entry the builder describes without storing it.
func (b *EntryBuilder) Model() model.Entry {
	remaining := b.Qty
	if b.RemainingQty != nil {
		remaining = *b.RemainingQty
	}
	isOpen := remaining > 0
	if b.IsOpen != nil {
		isOpen = *b.IsOpen
	}

	return model.Entry{
		ID:            b.ID,
		Symbol:        b.Symbol,
		Market:        b.Market,
		Position:      b.Position,
		EntryDate:     b.EntryDate,
		EntryPrice:    b.EntryPrice,
		Qty:           b.Qty,
		RemainingQty:  remaining,
		StopLossPrice: b.StopLossPrice,
		TargetPrice:   b.TargetPrice,
		IsOpen:        isOpen,
		CreatedAt:     b.CreatedAt,
	}
}

// Build creates the entry in the database and returns it.
func (b *EntryBuilder) Build(t *testing.T, db *sql.DB) model.Entry {
	t.Helper()

	e := b.Model()

	query := `
		INSERT INTO trade_entry (
			id, symbol, market, position, entry_date, entry_price, qty, remaining_qty,
			stop_loss_price, target_price, is_open, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		e.ID,
		e.Symbol,
		e.Market,
		string(e.Position),
		e.EntryDate.Format("2006-01-02"),
		e.EntryPrice.StringFixed(2),
		e.Qty,
		e.RemainingQty,
		nullPrice(e.StopLossPrice),
		nullPrice(e.TargetPrice),
		e.IsOpen,
		e.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		t.Fatalf("Failed to create test entry: %v", err)
	}

	return e
}

// ExitBuilder provides a fluent interface for creating test exits.
// Building an exit does not touch the parent entry's remaining quantity.
//
// Example usage:
//
//	exit := testutil.NewExit(entry.ID).
//	    WithExitDate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)).
//	    WithExitPrice("110.00").
//	    WithQty(50).
//	    Build(t, db)
type ExitBuilder struct {
	ID        string
	EntryID   string
	ExitDate  time.Time
	ExitPrice decimal.Decimal
	ExitQty   int64
	CreatedAt time.Time
}

// NewExit creates an ExitBuilder with defaults: 100 at 110.00 on 2024-02-01.
func NewExit(entryID string) *ExitBuilder {
	return &ExitBuilder{
		ID:        MakeID(),
		EntryID:   entryID,
		ExitDate:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		ExitPrice: decimal.NewFromInt(110),
		ExitQty:   100,
		CreatedAt: time.Now().UTC(),
	}
}

// WithExitDate sets the exit date.
func (b *ExitBuilder) WithExitDate(date time.Time) *ExitBuilder {
	b.ExitDate = date
	return b
}

// WithExitPrice sets the exit price from its decimal text.
func (b *ExitBuilder) WithExitPrice(price string) *ExitBuilder {
	b.ExitPrice = decimal.RequireFromString(price)
	return b
}

// WithQty sets the exit quantity.
func (b *ExitBuilder) WithQty(qty int64) *ExitBuilder {
	b.ExitQty = qty
	return b
}

// Build creates the exit in the database and returns it.
func (b *ExitBuilder) Build(t *testing.T, db *sql.DB) model.Exit {
	t.Helper()

	query := `
		INSERT INTO trade_exit (id, entry_id, exit_date, exit_price, exit_qty, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID,
		b.EntryID,
		b.ExitDate.Format("2006-01-02"),
		b.ExitPrice.StringFixed(2),
		b.ExitQty,
		b.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		t.Fatalf("Failed to create test exit: %v", err)
	}

	return model.Exit{
		ID:        b.ID,
		EntryID:   b.EntryID,
		ExitDate:  b.ExitDate,
		ExitPrice: b.ExitPrice,
		ExitQty:   b.ExitQty,
		CreatedAt: b.CreatedAt,
	}
}

// Convenience functions

// CreateClosedTrade creates an entry closed by a single exit of its full quantity.
//
// Example usage:
//
//	entry, exit := testutil.CreateClosedTrade(t, db, model.DirectionLong, "100.00", "110.00",
//	    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
func CreateClosedTrade(
	t *testing.T, db *sql.DB, position model.Direction, entryPrice, exitPrice string, exitDate time.Time,
) (model.Entry, model.Exit) {
	t.Helper()

	entry := NewEntry().
		WithPosition(position).
		WithEntryPrice(entryPrice).
		Closed().
		Build(t, db)

	exit := NewExit(entry.ID).
		WithExitDate(exitDate).
		WithExitPrice(exitPrice).
		WithQty(entry.Qty).
		Build(t, db)

	return entry, exit
}

func nullPrice(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.StringFixed(2)
}

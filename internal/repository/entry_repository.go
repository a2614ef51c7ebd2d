package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

// EntryRepository provides data access methods for the trade_entry table.
// It is the only writer of remaining_qty and is_open.
type EntryRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewEntryRepository creates a new EntryRepository with the provided database connection.
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// WithTx returns a new EntryRepository scoped to the provided transaction.
func (r *EntryRepository) WithTx(tx *sql.Tx) *EntryRepository {
	return &EntryRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *EntryRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const entryColumns = `
	id, symbol, market, position, entry_date, entry_price, qty, remaining_qty,
	stop_loss_price, target_price, is_open, created_at
`

func scanEntry(s rowScanner) (model.Entry, error) {
	var e model.Entry
	var position, entryDateStr string
	var createdAtStr sql.NullString

	err := s.Scan(
		&e.ID,
		&e.Symbol,
		&e.Market,
		&position,
		&entryDateStr,
		&e.EntryPrice,
		&e.Qty,
		&e.RemainingQty,
		&e.StopLossPrice,
		&e.TargetPrice,
		&e.IsOpen,
		&createdAtStr,
	)
	if err != nil {
		return model.Entry{}, err
	}

	e.Position = model.Direction(position)

	e.EntryDate, err = ParseTime(entryDateStr)
	if err != nil {
		return model.Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}

	if createdAtStr.Valid {
		// created_at is informational; an unparsable value is left zero
		if t, err := ParseTimestamp(createdAtStr.String); err == nil {
			e.CreatedAt = t
		}
	}

	return e, nil
}

// GetEntry retrieves a single entry by ID.
// Returns apperrors.ErrEntryNotFound if no entry with the given ID exists.
func (r *EntryRepository) GetEntry(ctx context.Context, entryID string) (model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM trade_entry WHERE id = ?`

	e, err := scanEntry(r.getQuerier().QueryRowContext(ctx, query, entryID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, apperrors.ErrEntryNotFound
	}
	if err != nil {
		return model.Entry{}, fmt.Errorf("failed to query trade_entry table: %w", err)
	}

	return e, nil
}

// GetEntries retrieves entries matching the filter, newest entry date first.
// Ties are ordered by creation time, then ID, so pages are stable.
// A page with Limit <= 0 returns every matching entry.
func (r *EntryRepository) GetEntries(ctx context.Context, filter model.EntryFilter, page model.Page) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM trade_entry`

	var conditions []string
	var args []any

	if filter.Market != "" {
		conditions = append(conditions, "UPPER(market) = UPPER(?)")
		args = append(args, filter.Market)
	}
	if filter.Symbol != "" {
		conditions = append(conditions, "UPPER(symbol) = UPPER(?)")
		args = append(args, filter.Symbol)
	}
	switch filter.Status {
	case model.EntryStatusOpen:
		conditions = append(conditions, "is_open = 1")
	case model.EntryStatusClosed:
		conditions = append(conditions, "is_open = 0")
	}

	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY entry_date DESC, created_at DESC, id DESC`

	if page.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, page.Limit, page.Offset)
	}

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade_entry table: %w", err)
	}
	defer rows.Close()

	entries := []model.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade_entry table results: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade_entry table: %w", err)
	}

	return entries, nil
}

// GetClosedEntries retrieves every closed entry, newest entry date first.
func (r *EntryRepository) GetClosedEntries(ctx context.Context) ([]model.Entry, error) {
	return r.GetEntries(ctx, model.EntryFilter{Status: model.EntryStatusClosed}, model.Page{})
}

// InsertEntry stores a new entry. The caller assigns the ID.
func (r *EntryRepository) InsertEntry(ctx context.Context, e *model.Entry) error {
	query := `
		INSERT INTO trade_entry (
			id, symbol, market, position, entry_date, entry_price, qty, remaining_qty,
			stop_loss_price, target_price, is_open, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		e.ID,
		e.Symbol,
		e.Market,
		string(e.Position),
		formatDate(e.EntryDate),
		formatPrice(e.EntryPrice),
		e.Qty,
		e.RemainingQty,
		formatNullPrice(e.StopLossPrice),
		formatNullPrice(e.TargetPrice),
		e.IsOpen,
		formatTimestamp(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade_entry: %w", err)
	}

	return nil
}

// UpdateRemaining moves an open entry from expectedRemaining to newRemaining and
// recomputes is_open from the new value. The update only applies if the stored
// remaining quantity still equals expectedRemaining; otherwise it returns
// apperrors.ErrStaleEntry and changes nothing.
func (r *EntryRepository) UpdateRemaining(ctx context.Context, entryID string, expectedRemaining, newRemaining int64) error {
	query := `
		UPDATE trade_entry
		SET remaining_qty = ?, is_open = ?
		WHERE id = ? AND remaining_qty = ? AND is_open = 1
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		newRemaining,
		newRemaining > 0,
		entryID,
		expectedRemaining,
	)
	if err != nil {
		return fmt.Errorf("failed to update trade_entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrStaleEntry
	}

	return nil
}

// GetLedgerTotals returns, for every entry, its stored quantities next to the
// sum of its exit quantities. Used by the ledger audit.
func (r *EntryRepository) GetLedgerTotals(ctx context.Context) ([]model.LedgerTotals, error) {
	query := `
		SELECT
			e.id,
			e.qty,
			e.remaining_qty,
			e.is_open,
			COALESCE(SUM(x.exit_qty), 0),
			COUNT(x.id)
		FROM trade_entry e
		LEFT JOIN trade_exit x ON x.entry_id = e.id
		GROUP BY e.id, e.qty, e.remaining_qty, e.is_open
		ORDER BY e.id
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger totals: %w", err)
	}
	defer rows.Close()

	totals := []model.LedgerTotals{}
	for rows.Next() {
		var t model.LedgerTotals
		if err := rows.Scan(&t.EntryID, &t.Qty, &t.RemainingQty, &t.IsOpen, &t.ExitedQty, &t.ExitCount); err != nil {
			return nil, fmt.Errorf("failed to scan ledger totals: %w", err)
		}
		totals = append(totals, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger totals: %w", err)
	}

	return totals, nil
}

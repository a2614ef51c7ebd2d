package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

// ExitRepository provides data access methods for the trade_exit table.
// Exits are immutable once written.
type ExitRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewExitRepository creates a new ExitRepository with the provided database connection.
func NewExitRepository(db *sql.DB) *ExitRepository {
	return &ExitRepository{db: db}
}

// WithTx returns a new ExitRepository scoped to the provided transaction.
func (r *ExitRepository) WithTx(tx *sql.Tx) *ExitRepository {
	return &ExitRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *ExitRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const exitColumns = `id, entry_id, exit_date, exit_price, exit_qty, created_at`

const exitOrder = ` ORDER BY exit_date ASC, created_at ASC, id ASC`

func scanExit(s rowScanner) (model.Exit, error) {
	var x model.Exit
	var exitDateStr string
	var createdAtStr sql.NullString

	err := s.Scan(
		&x.ID,
		&x.EntryID,
		&exitDateStr,
		&x.ExitPrice,
		&x.ExitQty,
		&createdAtStr,
	)
	if err != nil {
		return model.Exit{}, err
	}

	x.ExitDate, err = ParseTime(exitDateStr)
	if err != nil {
		return model.Exit{}, fmt.Errorf("exit %s: %w", x.ID, err)
	}

	if createdAtStr.Valid {
		if t, err := ParseTimestamp(createdAtStr.String); err == nil {
			x.CreatedAt = t
		}
	}

	return x, nil
}

func (r *ExitRepository) queryExits(ctx context.Context, query string, args ...any) ([]model.Exit, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade_exit table: %w", err)
	}
	defer rows.Close()

	exits := []model.Exit{}
	for rows.Next() {
		x, err := scanExit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade_exit table results: %w", err)
		}
		exits = append(exits, x)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade_exit table: %w", err)
	}

	return exits, nil
}

// GetExit retrieves a single exit by ID.
// Returns apperrors.ErrExitNotFound if no exit with the given ID exists.
func (r *ExitRepository) GetExit(ctx context.Context, exitID string) (model.Exit, error) {
	query := `SELECT ` + exitColumns + ` FROM trade_exit WHERE id = ?`

	x, err := scanExit(r.getQuerier().QueryRowContext(ctx, query, exitID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Exit{}, apperrors.ErrExitNotFound
	}
	if err != nil {
		return model.Exit{}, fmt.Errorf("failed to query trade_exit table: %w", err)
	}

	return x, nil
}

// GetExitsForEntry retrieves the exits of one entry, oldest first.
// An entry without exits yields an empty slice.
func (r *ExitRepository) GetExitsForEntry(ctx context.Context, entryID string) ([]model.Exit, error) {
	query := `SELECT ` + exitColumns + ` FROM trade_exit WHERE entry_id = ?` + exitOrder
	return r.queryExits(ctx, query, entryID)
}

// GetExitsForEntries retrieves the exits of several entries in a single query,
// grouped by entry ID. Entries without exits have no key in the result.
func (r *ExitRepository) GetExitsForEntries(ctx context.Context, entryIDs []string) (map[string][]model.Exit, error) {
	result := make(map[string][]model.Exit)
	if len(entryIDs) == 0 {
		return result, nil
	}

	args := make([]any, len(entryIDs))
	for i, id := range entryIDs {
		args[i] = id
	}

	query := `SELECT ` + exitColumns + ` FROM trade_exit WHERE entry_id IN (` + placeholders(len(entryIDs)) + `)` + exitOrder

	exits, err := r.queryExits(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	for _, x := range exits {
		result[x.EntryID] = append(result[x.EntryID], x)
	}

	return result, nil
}

// GetExitsForClosedEntries retrieves the exits of every closed entry, grouped by entry ID.
func (r *ExitRepository) GetExitsForClosedEntries(ctx context.Context) (map[string][]model.Exit, error) {
	query := `SELECT ` + exitColumns + ` FROM trade_exit
		WHERE entry_id IN (SELECT id FROM trade_entry WHERE is_open = 0)` + exitOrder

	exits, err := r.queryExits(ctx, query)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]model.Exit)
	for _, x := range exits {
		result[x.EntryID] = append(result[x.EntryID], x)
	}

	return result, nil
}

// InsertExit stores a new exit. The caller assigns the ID and is responsible
// for reducing the entry's remaining quantity in the same transaction.
func (r *ExitRepository) InsertExit(ctx context.Context, x *model.Exit) error {
	query := `
		INSERT INTO trade_exit (id, entry_id, exit_date, exit_price, exit_qty, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		x.ID,
		x.EntryID,
		formatDate(x.ExitDate),
		formatPrice(x.ExitPrice),
		x.ExitQty,
		formatTimestamp(x.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade_exit: %w", err)
	}

	return nil
}

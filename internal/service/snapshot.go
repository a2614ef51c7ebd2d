package service

import (
	"context"
	"database/sql"
	"fmt"
)

// readSnapshot runs fn in a read-only transaction, so every query in fn sees
// the ledger as of one point in time. An exit committed meanwhile is either
// fully visible with its entry update or not at all.
func readSnapshot(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

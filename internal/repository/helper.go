package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// querier is the subset of *sql.DB and *sql.Tx used by the repositories.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// timestampLayout is fixed-width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// ParseTimestamp parses created_at values. Rows written by the repositories use
// timestampLayout; rows filled by SQLite's CURRENT_TIMESTAMP default use "2006-01-02 15:04:05".
func ParseTimestamp(str string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", str)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return t.UTC(), nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// formatDate renders a date the way it is stored in DATE columns.
func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// formatPrice renders a price the way it is stored: decimal text with two fractional digits.
func formatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatNullPrice(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return formatPrice(d.Decimal)
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = "?"
	}
	return strings.Join(p, ", ")
}

// IsBusy reports whether err is SQLite refusing a lock held by another connection.
func IsBusy(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	// extended codes keep the primary code in the low byte
	return serr.Code()&0xff == sqlite3.SQLITE_BUSY
}

package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Trading-Journal-Backend/internal/analytics"
	"github.com/ndewijer/Trading-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trading-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trading-Journal-Backend/internal/service"
)

// TestFXMultipliers is the multiplier table used by test calculators.
var TestFXMultipliers = map[string]decimal.Decimal{
	"US": decimal.RequireFromString("7.78"),
}

// NewTestCalculator returns a metrics calculator with TestFXMultipliers and a discarding logger.
func NewTestCalculator(t *testing.T) *analytics.Calculator {
	t.Helper()
	return analytics.NewCalculator(TestFXMultipliers, logging.Discard())
}

func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(
		db,
		repository.NewEntryRepository(db),
		repository.NewExitRepository(db),
		NewTestCalculator(t),
		logging.Discard(),
	)
}

func NewTestSummaryService(t *testing.T, db *sql.DB) *service.SummaryService {
	t.Helper()

	return service.NewSummaryService(
		db,
		repository.NewEntryRepository(db),
		repository.NewExitRepository(db),
		NewTestCalculator(t),
	)
}

func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	return service.NewImportService(NewTestLedgerService(t, db), logging.Discard())
}

func NewTestAuditService(t *testing.T, db *sql.DB) *service.AuditService {
	t.Helper()

	return service.NewAuditService(repository.NewEntryRepository(db), logging.Discard())
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, map[string]bool{"audit": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

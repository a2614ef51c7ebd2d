package apperrors

import "errors"

// Domain entity errors represent missing entities in the ledger.
// These errors indicate that a requested resource does not exist.
var (
	// ErrEntryNotFound indicates that a trade entry with the given ID does not exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrExitNotFound indicates that a trade exit with the given ID does not exist.
	ErrExitNotFound = errors.New("exit not found")
)

// Business logic errors represent validation failures or ledger rule violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrValidation is the category for malformed input. validation.Error unwraps to it,
	// and ledger-level checks wrap it so callers can match with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrEntryClosed indicates that an exit was submitted against an entry
	// whose remaining quantity is already zero. Closed entries are terminal.
	ErrEntryClosed = errors.New("entry already closed")

	// ErrExitExceedsRemaining indicates that the requested exit quantity is larger
	// than the entry's remaining open quantity.
	ErrExitExceedsRemaining = errors.New("exit quantity exceeds remaining position")

	// ErrStaleEntry indicates that the entry changed between read and write.
	// The ledger retries on this error; it only surfaces once retries are exhausted.
	ErrStaleEntry = errors.New("entry was modified concurrently")

	// ErrInvalidPageToken indicates that a page token is malformed, forged or expired.
	ErrInvalidPageToken = errors.New("invalid or expired page token")

	// ErrInvalidCSVHeaders indicates that an import file lacks required columns.
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")

	// ErrInvalidYear indicates that a year filter could not be parsed.
	ErrInvalidYear = errors.New("invalid year")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrieveEntries = errors.New("failed to retrieve entries")
	ErrFailedToRetrieveEntry   = errors.New("failed to retrieve entry")
	ErrFailedToRetrieveExits   = errors.New("failed to retrieve exits")
	ErrFailedToRetrieveExit    = errors.New("failed to retrieve exit")
	ErrFailedToCreateEntry     = errors.New("failed to create entry")
	ErrFailedToCreateExit      = errors.New("failed to create exit")
	ErrFailedToGetSummary      = errors.New("failed to get monthly summary")
	ErrFailedToImportEntries   = errors.New("failed to import entries")
	ErrFailedToRunAudit        = errors.New("failed to run ledger audit")
	ErrFailedToGetVersionInfo  = errors.New("failed to get version information")
)

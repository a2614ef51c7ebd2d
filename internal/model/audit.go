package model

import "time"

// Audit rules checked against every entry.
const (
	AuditRuleRemainingMismatch = "remaining_qty_mismatch" // remaining_qty != qty - sum(exit_qty)
	AuditRuleRemainingBounds   = "remaining_qty_bounds"   // remaining_qty outside [0, qty]
	AuditRuleOpenFlag          = "open_flag_mismatch"     // is_open != (remaining_qty > 0)
)

// LedgerTotals is the stored state of one entry next to the sum of its exit quantities.
type LedgerTotals struct {
	EntryID      string
	Qty          int64
	RemainingQty int64
	IsOpen       bool
	ExitedQty    int64
	ExitCount    int
}

// AuditFinding describes a single ledger invariant violation.
type AuditFinding struct {
	EntryID  string `json:"entryId"`
	Rule     string `json:"rule"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// AuditReport is the result of one audit run.
type AuditReport struct {
	RunAt          time.Time      `json:"runAt"`
	EntriesChecked int            `json:"entriesChecked"`
	Findings       []AuditFinding `json:"findings"`
}

package service

import (
	"context"
	"strconv"
	"time"

	"github.com/ndewijer/Trading-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
	"github.com/ndewijer/Trading-Journal-Backend/internal/repository"
)

// AuditService checks the stored ledger against its invariants.
// It only reads; findings are reported and logged, never repaired.
type AuditService struct {
	entryRepo *repository.EntryRepository
	logger    *logging.Logger
	now       func() time.Time
}

// NewAuditService creates a new AuditService.
func NewAuditService(entryRepo *repository.EntryRepository, logger *logging.Logger) *AuditService {
	return &AuditService{
		entryRepo: entryRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Run checks every entry and returns the violations found.
func (s *AuditService) Run(ctx context.Context) (*model.AuditReport, error) {
	totals, err := s.entryRepo.GetLedgerTotals(ctx)
	if err != nil {
		return nil, err
	}

	report := &model.AuditReport{
		RunAt:          s.now().UTC(),
		EntriesChecked: len(totals),
		Findings:       []model.AuditFinding{},
	}

	for _, t := range totals {
		report.Findings = append(report.Findings, checkLedger(t)...)
	}

	for _, f := range report.Findings {
		s.logger.Error(nil, "ledger invariant violated", logging.Fields{
			"entry":    f.EntryID,
			"rule":     f.Rule,
			"expected": f.Expected,
			"actual":   f.Actual,
		})
	}

	s.logger.Info("ledger audit finished", logging.Fields{
		"entries":  report.EntriesChecked,
		"findings": len(report.Findings),
	})

	return report, nil
}

func checkLedger(t model.LedgerTotals) []model.AuditFinding {
	var findings []model.AuditFinding

	if want := t.Qty - t.ExitedQty; t.RemainingQty != want {
		findings = append(findings, model.AuditFinding{
			EntryID:  t.EntryID,
			Rule:     model.AuditRuleRemainingMismatch,
			Expected: strconv.FormatInt(want, 10),
			Actual:   strconv.FormatInt(t.RemainingQty, 10),
		})
	}

	if t.RemainingQty < 0 || t.RemainingQty > t.Qty {
		findings = append(findings, model.AuditFinding{
			EntryID:  t.EntryID,
			Rule:     model.AuditRuleRemainingBounds,
			Expected: "0.." + strconv.FormatInt(t.Qty, 10),
			Actual:   strconv.FormatInt(t.RemainingQty, 10),
		})
	}

	if want := t.RemainingQty > 0; t.IsOpen != want {
		findings = append(findings, model.AuditFinding{
			EntryID:  t.EntryID,
			Rule:     model.AuditRuleOpenFlag,
			Expected: strconv.FormatBool(want),
			Actual:   strconv.FormatBool(t.IsOpen),
		})
	}

	return findings
}

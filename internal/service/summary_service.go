package service

import (
	"context"
	"database/sql"

	"github.com/ndewijer/Trading-Journal-Backend/internal/analytics"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
	"github.com/ndewijer/Trading-Journal-Backend/internal/repository"
)

// SummaryService produces the monthly performance summary over closed entries.
type SummaryService struct {
	db        *sql.DB
	entryRepo *repository.EntryRepository
	exitRepo  *repository.ExitRepository
	calc      *analytics.Calculator
}

// NewSummaryService creates a new SummaryService with the provided repository dependencies.
func NewSummaryService(
	db *sql.DB,
	entryRepo *repository.EntryRepository,
	exitRepo *repository.ExitRepository,
	calc *analytics.Calculator,
) *SummaryService {
	return &SummaryService{
		db:        db,
		entryRepo: entryRepo,
		exitRepo:  exitRepo,
		calc:      calc,
	}
}

// GetMonthlySummary aggregates the exits of all closed entries by month.
// A non-zero year keeps only the months of that year.
func (s *SummaryService) GetMonthlySummary(ctx context.Context, year int) ([]model.MonthlySummaryRow, error) {
	var entries []model.Entry
	var exitsByEntry map[string][]model.Exit

	// entries and exits must come from the same snapshot, or an entry closed
	// between the two reads would be summarized without its closing exit
	err := readSnapshot(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if entries, err = s.entryRepo.WithTx(tx).GetClosedEntries(ctx); err != nil {
			return err
		}
		exitsByEntry, err = s.exitRepo.WithTx(tx).GetExitsForClosedEntries(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	rows := analytics.SummarizeByMonth(buildViews(s.calc, entries, exitsByEntry))

	if year == 0 {
		return rows, nil
	}

	filtered := make([]model.MonthlySummaryRow, 0, len(rows))
	for _, row := range rows {
		if row.MonthStart.Year() == year {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Trading-Journal-Backend/internal/analytics"
	"github.com/ndewijer/Trading-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trading-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
	"github.com/ndewijer/Trading-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trading-Journal-Backend/internal/validation"
)

// maxExitAttempts bounds the retries of an exit whose entry changed between read and write.
const maxExitAttempts = 3

// exitRetryBackoff is multiplied by the attempt number before the next try.
const exitRetryBackoff = 25 * time.Millisecond

// LedgerService owns entries and exits and the rule that applies an exit to an entry.
// It is the only component that changes an entry's remaining quantity.
type LedgerService struct {
	db        *sql.DB
	entryRepo *repository.EntryRepository
	exitRepo  *repository.ExitRepository
	calc      *analytics.Calculator
	locks     *entryLocks
	logger    *logging.Logger
	now       func() time.Time
}

// NewLedgerService creates a new LedgerService with the provided repository dependencies.
func NewLedgerService(
	db *sql.DB,
	entryRepo *repository.EntryRepository,
	exitRepo *repository.ExitRepository,
	calc *analytics.Calculator,
	logger *logging.Logger,
) *LedgerService {
	return &LedgerService{
		db:        db,
		entryRepo: entryRepo,
		exitRepo:  exitRepo,
		calc:      calc,
		locks:     newEntryLocks(),
		logger:    logger,
		now:       time.Now,
	}
}

// OpenEntry creates a new open entry with its full quantity remaining.
// Returns a validation error (matching apperrors.ErrValidation) for malformed input.
func (s *LedgerService) OpenEntry(ctx context.Context, req request.CreateEntryRequest) (*model.Entry, error) {
	if err := validation.ValidateCreateEntry(req); err != nil {
		return nil, err
	}

	entryDate, err := validation.ParseDate(req.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	entry := &model.Entry{
		ID:           uuid.New().String(),
		Symbol:       strings.TrimSpace(req.Symbol),
		Market:       strings.ToUpper(strings.TrimSpace(req.Market)),
		Position:     model.Direction(req.Position),
		EntryDate:    entryDate,
		EntryPrice:   req.EntryPrice,
		Qty:          req.Qty,
		RemainingQty: req.Qty,
		IsOpen:       true,
		CreatedAt:    s.now().UTC(),
	}
	if req.StopLossPrice != nil {
		entry.StopLossPrice = decimal.NewNullDecimal(*req.StopLossPrice)
	}
	if req.TargetPrice != nil {
		entry.TargetPrice = decimal.NewNullDecimal(*req.TargetPrice)
	}

	if err := s.entryRepo.InsertEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	s.logger.Info("entry opened", logging.Fields{
		"entry":  entry.ID,
		"symbol": entry.Symbol,
		"qty":    entry.Qty,
	})

	return entry, nil
}

// ApplyExit records an exit against an entry and reduces the entry's remaining
// quantity in the same transaction. The entry closes when nothing remains.
//
// Checks, in order:
//   - the entry exists (apperrors.ErrEntryNotFound)
//   - the entry is open (apperrors.ErrEntryClosed)
//   - the exit fits the remaining quantity (apperrors.ErrExitExceedsRemaining)
//
// Exits against the same entry are serialized. On failure nothing is written.
func (s *LedgerService) ApplyExit(ctx context.Context, req request.CreateExitRequest) (*model.Exit, error) {
	if err := validation.ValidateCreateExit(req); err != nil {
		return nil, err
	}

	exitDate, err := validation.ParseDate(req.ExitDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	unlock := s.locks.lock(req.EntryID)
	defer unlock()

	for attempt := 1; attempt <= maxExitAttempts; attempt++ {
		exit, err := s.applyExitOnce(ctx, req, exitDate)
		if repository.IsBusy(err) {
			err = fmt.Errorf("%w: %w", apperrors.ErrStaleEntry, err)
		}
		if errors.Is(err, apperrors.ErrStaleEntry) {
			// another process wrote or locked the entry after we read it
			s.logger.Debug("retrying exit", logging.Fields{
				"entry":   req.EntryID,
				"attempt": attempt,
				"error":   err.Error(),
			})
			if err := sleepCtx(ctx, time.Duration(attempt)*exitRetryBackoff); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info("exit applied", logging.Fields{
			"entry": exit.EntryID,
			"exit":  exit.ID,
			"qty":   exit.ExitQty,
		})
		return exit, nil
	}

	s.logger.Warn(apperrors.ErrStaleEntry, "exit abandoned after retries", logging.Fields{
		"entry":    req.EntryID,
		"attempts": maxExitAttempts,
	})
	return nil, fmt.Errorf("failed to apply exit to entry %s: %w", req.EntryID, apperrors.ErrStaleEntry)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *LedgerService) applyExitOnce(ctx context.Context, req request.CreateExitRequest, exitDate time.Time) (*model.Exit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entries := s.entryRepo.WithTx(tx)
	exits := s.exitRepo.WithTx(tx)

	entry, err := entries.GetEntry(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}

	readRemaining := entry.RemainingQty
	if err := entry.Reduce(req.Qty); err != nil {
		return nil, err
	}

	if exitDate.Before(entry.EntryDate) {
		return nil, &validation.Error{Fields: map[string]string{
			"exitDate": "exitDate cannot be before the entry date",
		}}
	}

	exit := &model.Exit{
		ID:        uuid.New().String(),
		EntryID:   entry.ID,
		ExitDate:  exitDate,
		ExitPrice: req.ExitPrice,
		ExitQty:   req.Qty,
		CreatedAt: s.now().UTC(),
	}

	if err := exits.InsertExit(ctx, exit); err != nil {
		return nil, fmt.Errorf("failed to create exit: %w", err)
	}

	if err := entries.UpdateRemaining(ctx, entry.ID, readRemaining, entry.RemainingQty); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit exit: %w", err)
	}

	return exit, nil
}

// GetEntry retrieves a single entry by its ID, without derived metrics.
func (s *LedgerService) GetEntry(ctx context.Context, entryID string) (model.Entry, error) {
	return s.entryRepo.GetEntry(ctx, entryID)
}

// ListEntries retrieves entries matching the filter, newest entry date first.
func (s *LedgerService) ListEntries(ctx context.Context, filter model.EntryFilter, page model.Page) ([]model.Entry, error) {
	return s.entryRepo.GetEntries(ctx, filter, page)
}

// ListClosedEntries retrieves every closed entry.
func (s *LedgerService) ListClosedEntries(ctx context.Context) ([]model.Entry, error) {
	return s.entryRepo.GetClosedEntries(ctx)
}

// GetExit retrieves a single exit by its ID.
func (s *LedgerService) GetExit(ctx context.Context, exitID string) (model.Exit, error) {
	return s.exitRepo.GetExit(ctx, exitID)
}

// ListExitsForEntry retrieves the exits of an entry, oldest first.
// Returns apperrors.ErrEntryNotFound for an unknown entry.
func (s *LedgerService) ListExitsForEntry(ctx context.Context, entryID string) ([]model.Exit, error) {
	var exits []model.Exit
	err := readSnapshot(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.entryRepo.WithTx(tx).GetEntry(ctx, entryID); err != nil {
			return err
		}
		var err error
		exits, err = s.exitRepo.WithTx(tx).GetExitsForEntry(ctx, entryID)
		return err
	})
	return exits, err
}

// GetEntryView retrieves an entry with its exits and derived metrics.
func (s *LedgerService) GetEntryView(ctx context.Context, entryID string) (model.EntryView, error) {
	var view model.EntryView
	err := readSnapshot(ctx, s.db, func(tx *sql.Tx) error {
		entry, err := s.entryRepo.WithTx(tx).GetEntry(ctx, entryID)
		if err != nil {
			return err
		}
		exits, err := s.exitRepo.WithTx(tx).GetExitsForEntry(ctx, entryID)
		if err != nil {
			return err
		}
		view = s.view(entry, exits)
		return nil
	})
	return view, err
}

// ListEntryViews is ListEntries with exits and derived metrics attached.
func (s *LedgerService) ListEntryViews(ctx context.Context, filter model.EntryFilter, page model.Page) ([]model.EntryView, error) {
	var views []model.EntryView
	err := readSnapshot(ctx, s.db, func(tx *sql.Tx) error {
		entries, err := s.entryRepo.WithTx(tx).GetEntries(ctx, filter, page)
		if err != nil {
			return err
		}
		views, err = s.views(ctx, tx, entries)
		return err
	})
	return views, err
}

// ListClosedEntryViews is ListClosedEntries with exits and derived metrics attached.
func (s *LedgerService) ListClosedEntryViews(ctx context.Context) ([]model.EntryView, error) {
	var views []model.EntryView
	err := readSnapshot(ctx, s.db, func(tx *sql.Tx) error {
		entries, err := s.entryRepo.WithTx(tx).GetClosedEntries(ctx)
		if err != nil {
			return err
		}
		views, err = s.views(ctx, tx, entries)
		return err
	})
	return views, err
}

func (s *LedgerService) views(ctx context.Context, tx *sql.Tx, entries []model.Entry) ([]model.EntryView, error) {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	exitsByEntry, err := s.exitRepo.WithTx(tx).GetExitsForEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	return buildViews(s.calc, entries, exitsByEntry), nil
}

func (s *LedgerService) view(entry model.Entry, exits []model.Exit) model.EntryView {
	return newView(s.calc, entry, exits)
}

// buildViews pairs entries with their exits and derives metrics, keeping entry order.
func buildViews(calc *analytics.Calculator, entries []model.Entry, exitsByEntry map[string][]model.Exit) []model.EntryView {
	views := make([]model.EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newView(calc, e, exitsByEntry[e.ID]))
	}
	return views
}

func newView(calc *analytics.Calculator, entry model.Entry, exits []model.Exit) model.EntryView {
	if exits == nil {
		exits = []model.Exit{}
	}
	return model.EntryView{
		Entry:          entry,
		Exits:          exits,
		DerivedMetrics: calc.Derive(entry, exits),
	}
}

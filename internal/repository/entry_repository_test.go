package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
	"github.com/ndewijer/Trading-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trading-Journal-Backend/internal/testutil"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEntryRepository_InsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEntryRepository(db)
	ctx := context.Background()

	stop := decimal.NewNullDecimal(decimal.RequireFromString("95.50"))
	entry := &model.Entry{
		ID:            testutil.MakeID(),
		Symbol:        "0700",
		Market:        "HK",
		Position:      model.DirectionLong,
		EntryDate:     date(2024, 3, 4),
		EntryPrice:    decimal.RequireFromString("100.25"),
		Qty:           200,
		RemainingQty:  200,
		StopLossPrice: stop,
		IsOpen:        true,
		CreatedAt:     time.Date(2024, 3, 4, 9, 30, 0, 123000000, time.UTC),
	}

	if err := repo.InsertEntry(ctx, entry); err != nil {
		t.Fatalf("InsertEntry() error = %v", err)
	}

	got, err := repo.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry() error = %v", err)
	}

	if got.Symbol != "0700" || got.Market != "HK" || got.Position != model.DirectionLong {
		t.Errorf("unexpected identity fields: %+v", got)
	}
	if !got.EntryDate.Equal(entry.EntryDate) {
		t.Errorf("EntryDate = %v, want %v", got.EntryDate, entry.EntryDate)
	}
	if !got.EntryPrice.Equal(entry.EntryPrice) {
		t.Errorf("EntryPrice = %s, want %s", got.EntryPrice, entry.EntryPrice)
	}
	if !got.StopLossPrice.Valid || !got.StopLossPrice.Decimal.Equal(stop.Decimal) {
		t.Errorf("StopLossPrice = %+v, want %s", got.StopLossPrice, stop.Decimal)
	}
	if got.TargetPrice.Valid {
		t.Errorf("TargetPrice should be unset, got %s", got.TargetPrice.Decimal)
	}
	if got.Qty != 200 || got.RemainingQty != 200 || !got.IsOpen {
		t.Errorf("unexpected quantities: qty=%d remaining=%d open=%v", got.Qty, got.RemainingQty, got.IsOpen)
	}
	if !got.CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, entry.CreatedAt)
	}
}

func TestEntryRepository_GetEntry_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEntryRepository(db)

	_, err := repo.GetEntry(context.Background(), testutil.MakeID())
	if !errors.Is(err, apperrors.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryRepository_GetEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEntryRepository(db)
	ctx := context.Background()

	older := testutil.NewEntry().WithSymbol("AAPL").WithMarket("US").WithEntryDate(date(2024, 1, 5)).Build(t, db)
	newer := testutil.NewEntry().WithSymbol("0700").WithMarket("HK").WithEntryDate(date(2024, 2, 5)).Build(t, db)
	closed := testutil.NewEntry().WithSymbol("MSFT").WithMarket("US").WithEntryDate(date(2024, 3, 5)).Closed().Build(t, db)

	t.Run("orders by entry date descending", func(t *testing.T) {
		entries, err := repo.GetEntries(ctx, model.EntryFilter{}, model.Page{})
		if err != nil {
			t.Fatalf("GetEntries() error = %v", err)
		}
		want := []string{closed.ID, newer.ID, older.ID}
		if len(entries) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(entries))
		}
		for i, id := range want {
			if entries[i].ID != id {
				t.Errorf("entries[%d] = %s, want %s", i, entries[i].ID, id)
			}
		}
	})

	t.Run("filters by market case-insensitively", func(t *testing.T) {
		entries, err := repo.GetEntries(ctx, model.EntryFilter{Market: "us"}, model.Page{})
		if err != nil {
			t.Fatalf("GetEntries() error = %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("expected 2 US entries, got %d", len(entries))
		}
	})

	t.Run("filters by symbol", func(t *testing.T) {
		entries, err := repo.GetEntries(ctx, model.EntryFilter{Symbol: "aapl"}, model.Page{})
		if err != nil {
			t.Fatalf("GetEntries() error = %v", err)
		}
		if len(entries) != 1 || entries[0].ID != older.ID {
			t.Errorf("expected only AAPL entry, got %+v", entries)
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		open, err := repo.GetEntries(ctx, model.EntryFilter{Status: model.EntryStatusOpen}, model.Page{})
		if err != nil {
			t.Fatalf("GetEntries() error = %v", err)
		}
		if len(open) != 2 {
			t.Errorf("expected 2 open entries, got %d", len(open))
		}

		closedEntries, err := repo.GetClosedEntries(ctx)
		if err != nil {
			t.Fatalf("GetClosedEntries() error = %v", err)
		}
		if len(closedEntries) != 1 || closedEntries[0].ID != closed.ID {
			t.Errorf("expected only the closed entry, got %+v", closedEntries)
		}
	})

	t.Run("pages with limit and offset", func(t *testing.T) {
		first, err := repo.GetEntries(ctx, model.EntryFilter{}, model.Page{Limit: 2})
		if err != nil {
			t.Fatalf("GetEntries() error = %v", err)
		}
		second, err := repo.GetEntries(ctx, model.EntryFilter{}, model.Page{Offset: 2, Limit: 2})
		if err != nil {
			t.Fatalf("GetEntries() error = %v", err)
		}
		if len(first) != 2 || len(second) != 1 {
			t.Fatalf("expected pages of 2 and 1, got %d and %d", len(first), len(second))
		}
		if second[0].ID != older.ID {
			t.Errorf("second page = %s, want %s", second[0].ID, older.ID)
		}
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		entries, err := repo.GetEntries(ctx, model.EntryFilter{Market: "JP"}, model.Page{})
		if err != nil {
			t.Fatalf("GetEntries() error = %v", err)
		}
		if entries == nil || len(entries) != 0 {
			t.Errorf("expected non-nil empty slice, got %v", entries)
		}
	})
}

func TestEntryRepository_GetEntries_TieBreak(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEntryRepository(db)

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := testutil.NewEntry().WithCreatedAt(base).Build(t, db)
	second := testutil.NewEntry().WithCreatedAt(base.Add(time.Millisecond)).Build(t, db)

	entries, err := repo.GetEntries(context.Background(), model.EntryFilter{}, model.Page{})
	if err != nil {
		t.Fatalf("GetEntries() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != second.ID || entries[1].ID != first.ID {
		t.Errorf("expected later-created entry first, got %v", entries)
	}
}

func TestEntryRepository_UpdateRemaining(t *testing.T) {
	ctx := context.Background()

	t.Run("reduces remaining and keeps entry open", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewEntryRepository(db)
		entry := testutil.NewEntry().WithQty(100).Build(t, db)

		if err := repo.UpdateRemaining(ctx, entry.ID, 100, 40); err != nil {
			t.Fatalf("UpdateRemaining() error = %v", err)
		}

		got, err := repo.GetEntry(ctx, entry.ID)
		if err != nil {
			t.Fatalf("GetEntry() error = %v", err)
		}
		if got.RemainingQty != 40 || !got.IsOpen {
			t.Errorf("expected remaining 40 and open, got %d open=%v", got.RemainingQty, got.IsOpen)
		}
	})

	t.Run("closes entry at zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewEntryRepository(db)
		entry := testutil.NewEntry().WithQty(100).Build(t, db)

		if err := repo.UpdateRemaining(ctx, entry.ID, 100, 0); err != nil {
			t.Fatalf("UpdateRemaining() error = %v", err)
		}

		got, err := repo.GetEntry(ctx, entry.ID)
		if err != nil {
			t.Fatalf("GetEntry() error = %v", err)
		}
		if got.RemainingQty != 0 || got.IsOpen {
			t.Errorf("expected closed entry, got remaining=%d open=%v", got.RemainingQty, got.IsOpen)
		}
	})

	t.Run("returns ErrStaleEntry when remaining changed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewEntryRepository(db)
		entry := testutil.NewEntry().WithQty(100).WithRemainingQty(60).Build(t, db)

		err := repo.UpdateRemaining(ctx, entry.ID, 100, 50)
		if !errors.Is(err, apperrors.ErrStaleEntry) {
			t.Fatalf("expected ErrStaleEntry, got %v", err)
		}

		testutil.AssertRowCount(t, db, "trade_entry", 1)
		got, _ := repo.GetEntry(ctx, entry.ID)
		if got.RemainingQty != 60 {
			t.Errorf("remaining changed to %d", got.RemainingQty)
		}
	})

	t.Run("returns ErrStaleEntry for closed entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewEntryRepository(db)
		entry := testutil.NewEntry().Closed().Build(t, db)

		err := repo.UpdateRemaining(ctx, entry.ID, 0, 0)
		if !errors.Is(err, apperrors.ErrStaleEntry) {
			t.Errorf("expected ErrStaleEntry, got %v", err)
		}
	})

	t.Run("rolls back with transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewEntryRepository(db)
		entry := testutil.NewEntry().WithQty(100).Build(t, db)

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("BeginTx() error = %v", err)
		}
		if err := repo.WithTx(tx).UpdateRemaining(ctx, entry.ID, 100, 10); err != nil {
			t.Fatalf("UpdateRemaining() error = %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Fatalf("Rollback() error = %v", err)
		}

		got, _ := repo.GetEntry(ctx, entry.ID)
		if got.RemainingQty != 100 {
			t.Errorf("expected rollback to keep 100, got %d", got.RemainingQty)
		}
	})
}

func TestEntryRepository_GetLedgerTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEntryRepository(db)

	partial := testutil.NewEntry().WithQty(100).WithRemainingQty(40).Build(t, db)
	testutil.NewExit(partial.ID).WithQty(25).Build(t, db)
	testutil.NewExit(partial.ID).WithQty(35).Build(t, db)
	untouched := testutil.NewEntry().WithQty(10).Build(t, db)

	totals, err := repo.GetLedgerTotals(context.Background())
	if err != nil {
		t.Fatalf("GetLedgerTotals() error = %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}

	byID := make(map[string]model.LedgerTotals)
	for _, tot := range totals {
		byID[tot.EntryID] = tot
	}

	if got := byID[partial.ID]; got.ExitedQty != 60 || got.ExitCount != 2 || got.RemainingQty != 40 {
		t.Errorf("unexpected totals for partial entry: %+v", got)
	}
	if got := byID[untouched.ID]; got.ExitedQty != 0 || got.ExitCount != 0 || !got.IsOpen {
		t.Errorf("unexpected totals for untouched entry: %+v", got)
	}
}

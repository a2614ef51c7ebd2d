package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
	"github.com/ndewijer/Trading-Journal-Backend/internal/testutil"
)

func TestSummaryService_GetMonthlySummary(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSummaryService(t, db)

	testutil.CreateClosedTrade(t, db, model.DirectionLong, "100.00", "110.00", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	testutil.CreateClosedTrade(t, db, model.DirectionLong, "100.00", "95.00", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	testutil.CreateClosedTrade(t, db, model.DirectionShort, "100.00", "90.00", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	testutil.CreateClosedTrade(t, db, model.DirectionLong, "100.00", "120.00", time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC))

	// open entries are not summarized even with exits
	open := testutil.NewEntry().WithRemainingQty(50).Build(t, db)
	testutil.NewExit(open.ID).WithQty(50).WithExitDate(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)).Build(t, db)

	t.Run("all years sorted by month", func(t *testing.T) {
		rows, err := svc.GetMonthlySummary(ctx, 0)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "2023-12", rows[0].Month)
		assert.Equal(t, "2024-01", rows[1].Month)
		assert.Equal(t, "Jan 2024", rows[1].Label)
		assert.Equal(t, "2024-03", rows[2].Month)

		jan := rows[1]
		assert.Equal(t, 1, jan.WinningTrades)
		assert.Equal(t, 1, jan.LosingTrades)
		require.NotNil(t, jan.WinRate)
		assert.InDelta(t, 0.5, *jan.WinRate, 1e-9)
		require.NotNil(t, jan.ActualRRRatio)
		assert.InDelta(t, 2.0, *jan.ActualRRRatio, 1e-9)
	})

	t.Run("year filter keeps only that year", func(t *testing.T) {
		rows, err := svc.GetMonthlySummary(ctx, 2023)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2023-12", rows[0].Month)
		assert.Equal(t, 1, rows[0].WinningTrades)
		assert.Nil(t, rows[0].ActualRRRatio)
	})

	t.Run("year without trades is empty", func(t *testing.T) {
		rows, err := svc.GetMonthlySummary(ctx, 2020)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestSummaryService_EmptyLedger(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSummaryService(t, db)

	rows, err := svc.GetMonthlySummary(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSummaryService_ConsistentWhileExitsLand(t *testing.T) {
	ctx := context.Background()
	db, _ := testutil.SetupFileDB(t)
	ledger := testutil.NewTestLedgerService(t, db)
	svc := testutil.NewTestSummaryService(t, db)

	exitAt := func(entryID, price string) request.CreateExitRequest {
		return request.CreateExitRequest{
			EntryID:   entryID,
			ExitDate:  "2024-02-01",
			ExitPrice: decimal.RequireFromString(price),
			Qty:       1,
		}
	}

	// each entry loses 10 on its first unit and gains 30 on its second,
	// so a fully exited entry is always a win
	entries := make([]model.Entry, 20)
	for i := range entries {
		entries[i] = testutil.NewEntry().WithQty(2).Build(t, db)
		_, err := ledger.ApplyExit(ctx, exitAt(entries[i].ID, "90.00"))
		require.NoError(t, err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for _, entry := range entries {
			_, err := ledger.ApplyExit(ctx, exitAt(entry.ID, "130.00"))
			assert.NoError(t, err)
		}
	}()

	for {
		rows, err := svc.GetMonthlySummary(ctx, 0)
		require.NoError(t, err)
		for _, row := range rows {
			assert.Zero(t, row.LosingTrades, "month %s counted a partially exited entry", row.Month)
		}

		select {
		case <-done:
			wg.Wait()
			return
		default:
		}
	}
}

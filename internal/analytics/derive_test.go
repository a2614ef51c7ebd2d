package analytics

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Trading-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullPrice(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(price(s))
}

func newEntry(position model.Direction, market, entryPrice string, qty int64) model.Entry {
	return model.Entry{
		ID:           "entry-1",
		Symbol:       "TEST",
		Market:       market,
		Position:     position,
		EntryDate:    date("2024-01-02"),
		EntryPrice:   price(entryPrice),
		Qty:          qty,
		RemainingQty: qty,
		IsOpen:       true,
	}
}

func newExit(exitDate, exitPrice string, qty int64) model.Exit {
	return model.Exit{
		ID:        "exit-" + exitDate + "-" + exitPrice,
		EntryID:   "entry-1",
		ExitDate:  date(exitDate),
		ExitPrice: price(exitPrice),
		ExitQty:   qty,
	}
}

func defaultCalculator() *Calculator {
	return NewCalculator(map[string]decimal.Decimal{"US": price("7.78")}, logging.Discard())
}

func TestDerive_LongScenario(t *testing.T) {
	calc := defaultCalculator()
	entry := newEntry(model.DirectionLong, "HK", "100.00", 1000)

	t.Run("after first partial exit", func(t *testing.T) {
		m := calc.Derive(entry, []model.Exit{newExit("2024-01-12", "110.00", 500)})

		require.NotNil(t, m.ActualGainLoss)
		assert.InDelta(t, 5000.0, *m.ActualGainLoss, 1e-9)
		require.NotNil(t, m.ActualGainLossPct)
		assert.InDelta(t, 0.05, *m.ActualGainLossPct, 1e-12)
		require.NotNil(t, m.HoldingDays)
		assert.Equal(t, 10, *m.HoldingDays)
	})

	t.Run("after closing exit", func(t *testing.T) {
		m := calc.Derive(entry, []model.Exit{
			newExit("2024-01-12", "110.00", 500),
			newExit("2024-02-01", "120.00", 500),
		})

		require.NotNil(t, m.ActualGainLoss)
		assert.InDelta(t, 15000.0, *m.ActualGainLoss, 1e-9)
		require.NotNil(t, m.ActualGainLossPct)
		assert.InDelta(t, 0.15, *m.ActualGainLossPct, 1e-12)
		require.NotNil(t, m.HoldingDays)
		assert.Equal(t, 30, *m.HoldingDays)
		require.NotNil(t, m.TotalCost)
		assert.InDelta(t, 100000.0, *m.TotalCost, 1e-9)
	})
}

func TestDerive_ShortScenario(t *testing.T) {
	calc := defaultCalculator()
	entry := newEntry(model.DirectionShort, "HK", "50.00", 200)
	entry.StopLossPrice = nullPrice("55.00")
	entry.TargetPrice = nullPrice("40.00")

	m := calc.Derive(entry, nil)

	require.NotNil(t, m.ExpectedLossPct)
	assert.InDelta(t, 0.10, *m.ExpectedLossPct, 1e-12)
	require.NotNil(t, m.ExpectedGainPct)
	assert.InDelta(t, 0.20, *m.ExpectedGainPct, 1e-12)
	require.NotNil(t, m.RRRatio)
	assert.InDelta(t, 2.0, *m.RRRatio, 1e-12)

	t.Run("short exit below entry is a gain", func(t *testing.T) {
		m := calc.Derive(entry, []model.Exit{newExit("2024-01-05", "45.00", 200)})

		require.NotNil(t, m.ActualGainLoss)
		assert.InDelta(t, 1000.0, *m.ActualGainLoss, 1e-9)
	})
}

func TestDerive_NoExits(t *testing.T) {
	calc := defaultCalculator()
	entry := newEntry(model.DirectionLong, "HK", "100.00", 10)

	m := calc.Derive(entry, nil)

	require.NotNil(t, m.ActualGainLoss)
	assert.Zero(t, *m.ActualGainLoss)
	require.NotNil(t, m.ActualGainLossPct, "pct is defined as zero without exits")
	assert.Zero(t, *m.ActualGainLossPct)
	require.NotNil(t, m.HoldingDays)
	assert.Zero(t, *m.HoldingDays)
	assert.Nil(t, m.ExpectedLossPct)
	assert.Nil(t, m.ExpectedGainPct)
	assert.Nil(t, m.RRRatio)
}

func TestDerive_USMultiplier(t *testing.T) {
	calc := defaultCalculator()

	tests := []struct {
		name   string
		market string
		want   float64
	}{
		{"US uses table multiplier", "US", 100 * 7.78},
		{"lower-case market matches", "us", 100 * 7.78},
		{"other markets use one", "HK", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := newEntry(model.DirectionLong, tt.market, "10.00", 10)
			m := calc.Derive(entry, []model.Exit{newExit("2024-01-03", "20.00", 10)})

			require.NotNil(t, m.ActualGainLoss)
			assert.InDelta(t, tt.want, *m.ActualGainLoss, 1e-9)
			require.NotNil(t, m.ActualGainLossPct)
			assert.InDelta(t, 1.0, *m.ActualGainLossPct, 1e-12, "multiplier cancels out of the percentage")
			require.NotNil(t, m.TotalCost)
			assert.InDelta(t, 100.0, *m.TotalCost, 1e-9, "total cost is not converted")
		})
	}
}

func TestDerive_ZeroStopLossDistance(t *testing.T) {
	calc := defaultCalculator()
	entry := newEntry(model.DirectionLong, "HK", "100.00", 10)
	entry.StopLossPrice = nullPrice("100.00")
	entry.TargetPrice = nullPrice("120.00")

	m := calc.Derive(entry, nil)

	require.NotNil(t, m.ExpectedLossPct)
	assert.Zero(t, *m.ExpectedLossPct)
	assert.Nil(t, m.RRRatio)
}

func TestDerive_RecoversPerField(t *testing.T) {
	var buf bytes.Buffer
	calc := NewCalculator(nil, logging.NewWithWriter(&buf, logging.LevelWarn))

	t.Run("zero entry price", func(t *testing.T) {
		buf.Reset()
		entry := newEntry(model.DirectionLong, "HK", "0", 10)
		entry.StopLossPrice = nullPrice("5.00")
		entry.TargetPrice = nullPrice("12.00")

		m := calc.Derive(entry, []model.Exit{newExit("2024-01-03", "11.00", 10)})

		assert.Nil(t, m.ExpectedLossPct)
		assert.Nil(t, m.ExpectedGainPct)
		assert.Nil(t, m.RRRatio)
		assert.Nil(t, m.ActualGainLossPct)
		require.NotNil(t, m.ActualGainLoss)
		assert.InDelta(t, 110.0, *m.ActualGainLoss, 1e-9)
		require.NotNil(t, m.TotalCost)
		assert.Zero(t, *m.TotalCost)
		assert.Contains(t, buf.String(), "rule=expected_gain_pct")
		assert.Contains(t, buf.String(), "entry=entry-1")
	})

	t.Run("unknown position", func(t *testing.T) {
		buf.Reset()
		entry := newEntry(model.Direction("Sideways"), "HK", "10.00", 10)

		m := calc.Derive(entry, []model.Exit{newExit("2024-01-03", "11.00", 10)})

		assert.Nil(t, m.ActualGainLoss)
		assert.Nil(t, m.ActualGainLossPct)
		require.NotNil(t, m.HoldingDays)
		assert.Equal(t, 1, *m.HoldingDays)
		require.NotNil(t, m.TotalCost)
		assert.Contains(t, buf.String(), "rule=actual_gain_loss")
	})
}

func TestDerive_Idempotent(t *testing.T) {
	calc := defaultCalculator()
	entry := newEntry(model.DirectionLong, "US", "100.00", 1000)
	entry.StopLossPrice = nullPrice("95.00")
	entry.TargetPrice = nullPrice("115.00")
	exits := []model.Exit{
		newExit("2024-01-12", "110.00", 500),
		newExit("2024-02-01", "120.00", 500),
	}
	entryBefore := entry
	exitsBefore := append([]model.Exit(nil), exits...)

	first := calc.Derive(entry, exits)
	second := calc.Derive(entry, exits)

	assert.Equal(t, first, second)
	assert.Equal(t, entryBefore, entry)
	assert.Equal(t, exitsBefore, exits)
}

func TestDerive_HoldingDaysUsesLatestExit(t *testing.T) {
	calc := defaultCalculator()
	entry := newEntry(model.DirectionLong, "HK", "10.00", 30)

	m := calc.Derive(entry, []model.Exit{
		newExit("2024-03-01", "11.00", 10),
		newExit("2024-01-10", "11.00", 10),
		newExit("2024-02-01", "11.00", 10),
	})

	require.NotNil(t, m.HoldingDays)
	assert.Equal(t, 59, *m.HoldingDays)
}

package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

// exitRecord is one (entry, exit) pair carrying the parent entry's metrics.
type exitRecord struct {
	gainLoss    *float64
	gainLossPct *float64
	holdingDays *int
}

type monthBucket struct {
	start   time.Time
	records []exitRecord
}

// SummarizeByMonth groups the exits of the given closed entries by the calendar
// month of the exit date and computes win/loss statistics per month.
//
// Every exit carries its entry's realized P&L, so an entry closed by several
// exits counts once per exit. Exits without a date are skipped. Months without
// exits do not appear. Rows are ordered by month.
func SummarizeByMonth(views []model.EntryView) []model.MonthlySummaryRow {
	buckets := make(map[string]*monthBucket)

	for _, v := range views {
		for _, x := range v.Exits {
			if x.ExitDate.IsZero() {
				continue
			}
			d := x.ExitDate.UTC()
			start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
			key := start.Format("2006-01")

			b, ok := buckets[key]
			if !ok {
				b = &monthBucket{start: start}
				buckets[key] = b
			}
			b.records = append(b.records, exitRecord{
				gainLoss:    v.ActualGainLoss,
				gainLossPct: v.ActualGainLossPct,
				holdingDays: v.HoldingDays,
			})
		}
	}

	rows := make([]model.MonthlySummaryRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, summarizeMonth(b))
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].MonthStart.Before(rows[j].MonthStart)
	})

	return rows
}

func summarizeMonth(b *monthBucket) model.MonthlySummaryRow {
	row := model.MonthlySummaryRow{
		Month:      b.start.Format("2006-01"),
		MonthStart: b.start,
		Label:      b.start.Format("Jan 2006"),
	}

	var wins, losses, all []exitRecord
	for _, r := range b.records {
		if r.gainLoss == nil {
			continue
		}
		all = append(all, r)
		switch {
		case *r.gainLoss > 0:
			wins = append(wins, r)
		case *r.gainLoss < 0:
			losses = append(losses, r)
		}
	}

	row.WinningTrades = len(wins)
	row.LosingTrades = len(losses)

	if total := len(wins) + len(losses); total > 0 {
		rate := float64(len(wins)) / float64(total)
		row.WinRate = &rate
	}

	avgGain := mean(gains(wins))
	avgLoss := mean(gains(losses))
	row.AverageGain = toFloat(avgGain)
	row.AverageLoss = toFloat(avgLoss)
	row.AverageGainPct = toFloat(mean(pcts(wins)))
	row.AverageLossPct = toFloat(mean(pcts(losses)))

	if avgGain.Valid && avgLoss.Valid && !avgLoss.Decimal.IsZero() {
		won := avgGain.Decimal.Mul(decimal.NewFromInt(int64(len(wins))))
		lost := avgLoss.Decimal.Mul(decimal.NewFromInt(int64(len(losses))))
		row.ActualRRRatio = toFloat(decimal.NewNullDecimal(won.Div(lost).Abs()))
	}

	if vals := gains(all); len(vals) > 0 {
		row.LargestGain = toFloat(decimal.NewNullDecimal(decimal.Max(vals[0], vals[1:]...)))
		row.LargestLoss = toFloat(decimal.NewNullDecimal(decimal.Min(vals[0], vals[1:]...)))
	}

	row.AvgHoldingDaysWin = toFloat(mean(days(wins)))
	row.AvgHoldingDaysLoss = toFloat(mean(days(losses)))

	return row
}

func gains(records []exitRecord) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(records))
	for _, r := range records {
		if r.gainLoss != nil {
			out = append(out, decimal.NewFromFloat(*r.gainLoss))
		}
	}
	return out
}

func pcts(records []exitRecord) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(records))
	for _, r := range records {
		if r.gainLossPct != nil {
			out = append(out, decimal.NewFromFloat(*r.gainLossPct))
		}
	}
	return out
}

func days(records []exitRecord) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(records))
	for _, r := range records {
		if r.holdingDays != nil {
			out = append(out, decimal.NewFromInt(int64(*r.holdingDays)))
		}
	}
	return out
}

// mean returns the average of vals, or an invalid NullDecimal for no values.
func mean(vals []decimal.Decimal) decimal.NullDecimal {
	if len(vals) == 0 {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.Avg(vals[0], vals[1:]...))
}

func toFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	return floatPtr(d.Decimal)
}

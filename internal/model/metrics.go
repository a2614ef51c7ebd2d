package model

import "time"

// DerivedMetrics holds the per-trade figures computed from an entry and its exits.
// Every field is independently nullable: a nil value means the inputs were
// missing or the computation failed for that field only.
type DerivedMetrics struct {
	ExpectedLossPct   *float64 `json:"expectedLossPct"`
	ExpectedGainPct   *float64 `json:"expectedGainPct"`
	RRRatio           *float64 `json:"rrRatio"`
	ActualGainLoss    *float64 `json:"actualGainLoss"`
	ActualGainLossPct *float64 `json:"actualGainLossPct"`
	HoldingDays       *int     `json:"holdingDays"`
	TotalCost         *float64 `json:"totalCost"`
}

// MonthlySummaryRow aggregates win/loss statistics for all exits dated in one calendar month.
// Averages and ratios are nil when the bucket they depend on is empty.
type MonthlySummaryRow struct {
	Month              string    `json:"month"`      // YYYY-MM
	MonthStart         time.Time `json:"monthStart"` // first day of the month, UTC
	Label              string    `json:"label"`      // e.g. "Jan 2024"
	WinningTrades      int       `json:"winningTrades"`
	LosingTrades       int       `json:"losingTrades"`
	WinRate            *float64  `json:"winRate"`
	AverageGain        *float64  `json:"averageGain"`
	AverageLoss        *float64  `json:"averageLoss"`
	AverageGainPct     *float64  `json:"averageGainPct"`
	AverageLossPct     *float64  `json:"averageLossPct"`
	ActualRRRatio      *float64  `json:"actualRrRatio"`
	LargestGain        *float64  `json:"largestGain"`
	LargestLoss        *float64  `json:"largestLoss"`
	AvgHoldingDaysWin  *float64  `json:"avgHoldingDaysWin"`
	AvgHoldingDaysLoss *float64  `json:"avgHoldingDaysLoss"`
}

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	gainStyle = cellStyle.Foreground(lipgloss.Color("#10B981"))

	lossStyle = cellStyle.Foreground(lipgloss.Color("#EF4444"))

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	titleStyle = lipgloss.NewStyle().Bold(true)
)

const missing = "-"

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// signedStyle colors a cell by the sign of its value.
func signedStyle(v *float64) lipgloss.Style {
	switch {
	case v == nil:
		return cellStyle
	case *v > 0:
		return gainStyle
	case *v < 0:
		return lossStyle
	default:
		return cellStyle
	}
}

func renderEntries(views []model.EntryView) string {
	const plCol = 8

	t := newTable("Date", "Symbol", "Market", "Pos", "Price", "Qty", "Left", "RR", "P&L", "P&L %", "Days")

	pl := make([]*float64, len(views))
	for i, v := range views {
		pl[i] = v.ActualGainLoss
		t.Row(
			v.EntryDate.Format("2006-01-02"),
			v.Symbol,
			v.Market,
			string(v.Position),
			v.EntryPrice.StringFixed(2),
			strconv.FormatInt(v.Qty, 10),
			strconv.FormatInt(v.RemainingQty, 10),
			formatFloat(v.RRRatio, 2),
			formatFloat(v.ActualGainLoss, 2),
			formatPct(v.ActualGainLossPct),
			formatInt(v.HoldingDays),
		)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col == plCol || col == plCol+1 {
			return signedStyle(pl[row])
		}
		return cellStyle
	})

	return t.String()
}

func renderSummary(rows []model.MonthlySummaryRow) string {
	t := newTable("Month", "Wins", "Losses", "Win %", "Avg Gain", "Avg Loss", "RR", "Largest Gain", "Largest Loss", "Days W", "Days L")

	for _, r := range rows {
		t.Row(
			r.Label,
			strconv.Itoa(r.WinningTrades),
			strconv.Itoa(r.LosingTrades),
			formatPct(r.WinRate),
			formatFloat(r.AverageGain, 2),
			formatFloat(r.AverageLoss, 2),
			formatFloat(r.ActualRRRatio, 2),
			formatFloat(r.LargestGain, 2),
			formatFloat(r.LargestLoss, 2),
			formatFloat(r.AvgHoldingDaysWin, 1),
			formatFloat(r.AvgHoldingDaysLoss, 1),
		)
	}

	t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	})

	return t.String()
}

func renderImportReport(report *model.ImportReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", titleStyle.Render("Import "+report.BatchID))
	fmt.Fprintf(&sb, "rows read: %d, entries: %d, exits: %d, failures: %d\n",
		report.RowsRead, report.EntriesImported, report.ExitsImported, len(report.Failures))

	if len(report.Failures) == 0 {
		return sb.String()
	}

	t := newTable("Line", "Error")
	for _, f := range report.Failures {
		t.Row(strconv.Itoa(f.Line), f.Message)
	}
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	})

	sb.WriteString(t.String())
	sb.WriteString("\n")
	return sb.String()
}

func renderAudit(report *model.AuditReport) string {
	summary := fmt.Sprintf("checked %d entries, %d finding(s)", report.EntriesChecked, len(report.Findings))
	if len(report.Findings) == 0 {
		return summary
	}

	t := newTable("Entry", "Rule", "Expected", "Actual")
	for _, f := range report.Findings {
		t.Row(f.EntryID, f.Rule, f.Expected, f.Actual)
	}
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return lossStyle
	})

	return summary + "\n" + t.String()
}

func formatFloat(v *float64, prec int) string {
	if v == nil {
		return missing
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func formatPct(v *float64) string {
	if v == nil {
		return missing
	}
	return strconv.FormatFloat(*v*100, 'f', 1, 64) + "%"
}

func formatInt(v *int) string {
	if v == nil {
		return missing
	}
	return strconv.Itoa(*v)
}

// Package analytics derives per-trade metrics from the ledger and aggregates them by month.
// Nothing in this package touches persistence or mutates its inputs.
package analytics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Trading-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

// Rule names used when a derivation step is skipped.
const (
	RuleExpectedLossPct   = "expected_loss_pct"
	RuleExpectedGainPct   = "expected_gain_pct"
	RuleRRRatio           = "rr_ratio"
	RuleActualGainLoss    = "actual_gain_loss"
	RuleActualGainLossPct = "actual_gain_loss_pct"
	RuleHoldingDays       = "holding_days"
	RuleTotalCost         = "total_cost"
)

var one = decimal.NewFromInt(1)

// Calculator computes DerivedMetrics. It is safe for concurrent use.
type Calculator struct {
	fx     map[string]decimal.Decimal
	logger *logging.Logger
}

// NewCalculator creates a Calculator with the given market multiplier table.
// Market codes are matched case-insensitively; unknown markets use 1.
func NewCalculator(fx map[string]decimal.Decimal, logger *logging.Logger) *Calculator {
	table := make(map[string]decimal.Decimal, len(fx))
	for market, m := range fx {
		table[strings.ToUpper(market)] = m
	}
	return &Calculator{fx: table, logger: logger}
}

// Multiplier returns the currency multiplier applied to monetary metrics of market.
func (c *Calculator) Multiplier(market string) decimal.Decimal {
	if m, ok := c.fx[strings.ToUpper(strings.TrimSpace(market))]; ok {
		return m
	}
	return one
}

// Derive computes the derived metrics of an entry from its exits.
//
// Each field is computed independently. A field whose inputs are missing is
// left nil; a field whose computation fails is left nil and logged, and the
// remaining fields are still computed.
func (c *Calculator) Derive(entry model.Entry, exits []model.Exit) model.DerivedMetrics {
	var m model.DerivedMetrics
	fx := c.Multiplier(entry.Market)

	var lossPct, gainPct, realized decimal.NullDecimal

	c.apply(entry.ID, RuleExpectedLossPct, func() error {
		if !entry.StopLossPrice.Valid || entry.EntryPrice.IsZero() {
			return nil
		}
		v := entry.EntryPrice.Sub(entry.StopLossPrice.Decimal).Abs().Div(entry.EntryPrice)
		lossPct = decimal.NewNullDecimal(v)
		m.ExpectedLossPct = floatPtr(v)
		return nil
	})

	c.apply(entry.ID, RuleExpectedGainPct, func() error {
		if !entry.TargetPrice.Valid {
			return nil
		}
		v := entry.TargetPrice.Decimal.Sub(entry.EntryPrice).Abs().Div(entry.EntryPrice)
		gainPct = decimal.NewNullDecimal(v)
		m.ExpectedGainPct = floatPtr(v)
		return nil
	})

	c.apply(entry.ID, RuleRRRatio, func() error {
		if !lossPct.Valid || !gainPct.Valid || lossPct.Decimal.IsZero() {
			return nil
		}
		m.RRRatio = floatPtr(gainPct.Decimal.Div(lossPct.Decimal))
		return nil
	})

	c.apply(entry.ID, RuleActualGainLoss, func() error {
		total := decimal.Zero
		for _, x := range exits {
			var delta decimal.Decimal
			switch entry.Position {
			case model.DirectionLong:
				delta = x.ExitPrice.Sub(entry.EntryPrice)
			case model.DirectionShort:
				delta = entry.EntryPrice.Sub(x.ExitPrice)
			default:
				return fmt.Errorf("unknown position %q", entry.Position)
			}
			total = total.Add(delta.Mul(decimal.NewFromInt(x.ExitQty)).Mul(fx))
		}
		realized = decimal.NewNullDecimal(total)
		m.ActualGainLoss = floatPtr(total)
		return nil
	})

	c.apply(entry.ID, RuleActualGainLossPct, func() error {
		if !realized.Valid || entry.Qty <= 0 {
			return nil
		}
		basis := decimal.NewFromInt(entry.Qty).Mul(entry.EntryPrice).Mul(fx)
		m.ActualGainLossPct = floatPtr(realized.Decimal.Div(basis))
		return nil
	})

	c.apply(entry.ID, RuleHoldingDays, func() error {
		days := 0
		if len(exits) > 0 {
			last := exits[0].ExitDate
			for _, x := range exits[1:] {
				if x.ExitDate.After(last) {
					last = x.ExitDate
				}
			}
			if last.IsZero() || entry.EntryDate.IsZero() {
				return fmt.Errorf("missing entry or exit date")
			}
			days = int(last.Sub(entry.EntryDate).Hours() / 24)
		}
		m.HoldingDays = &days
		return nil
	})

	c.apply(entry.ID, RuleTotalCost, func() error {
		m.TotalCost = floatPtr(entry.EntryPrice.Mul(decimal.NewFromInt(entry.Qty)))
		return nil
	})

	return m
}

// apply runs one derivation rule, turning an error or a panic into a logged, skipped field.
func (c *Calculator) apply(entryID, rule string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn(fmt.Errorf("%v", r), "derived metric skipped", logging.Fields{
				"entry": entryID,
				"rule":  rule,
			})
		}
	}()

	if err := fn(); err != nil {
		c.logger.Warn(err, "derived metric skipped", logging.Fields{
			"entry": entryID,
			"rule":  rule,
		})
	}
}

func floatPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}

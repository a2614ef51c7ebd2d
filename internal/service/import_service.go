package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trading-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

// CSV column names, matched case-insensitively.
const (
	colStock      = "stock"
	colMarket     = "market"
	colPosition   = "position"
	colEntryDate  = "entry date"
	colEntryPrice = "entry price"
	colQty        = "qty"
	colStopLoss   = "stop loss price"
	colTarget     = "target price"
	colExitPrice  = "exit price"
	colExitDate   = "exit date"
)

var requiredColumns = []string{colStock, colMarket, colPosition, colEntryDate, colEntryPrice, colQty}

// importDateLayouts are tried in order. Slashed and dashed dates are day-first.
var importDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
}

// ImportService bulk-loads entries, each optionally fully exited, from CSV.
type ImportService struct {
	ledger *LedgerService
	logger *logging.Logger
}

// NewImportService creates a new ImportService that writes through the ledger.
func NewImportService(ledger *LedgerService, logger *logging.Logger) *ImportService {
	return &ImportService{
		ledger: ledger,
		logger: logger,
	}
}

// Import reads entries from CSV. Each data row opens one entry; when the row
// also has an exit price and exit date, the entry is exited in full.
//
// A failing row is recorded in the report and the import continues. Missing
// required columns fail the whole import with apperrors.ErrInvalidCSVHeaders.
func (s *ImportService) Import(ctx context.Context, r io.Reader) (*model.ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", apperrors.ErrInvalidCSVHeaders)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", apperrors.ErrInvalidCSVHeaders, strings.Join(missing, ", "))
	}

	report := &model.ImportReport{
		BatchID:  ulid.Make().String(),
		Failures: []model.ImportFailure{},
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return report, fmt.Errorf("failed to read CSV: %w", err)
			}
			report.RowsRead++
			report.Failures = append(report.Failures, model.ImportFailure{Line: parseErr.StartLine, Message: err.Error()})
			continue
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		report.RowsRead++

		if err := ctx.Err(); err != nil {
			return report, err
		}

		row := csvRow{columns: columns, record: record}
		s.importRow(ctx, report, line, row)
	}

	s.logger.Info("import finished", logging.Fields{
		"batch":    report.BatchID,
		"rows":     report.RowsRead,
		"entries":  report.EntriesImported,
		"exits":    report.ExitsImported,
		"failures": len(report.Failures),
	})

	return report, nil
}

func (s *ImportService) importRow(ctx context.Context, report *model.ImportReport, line int, row csvRow) {
	fail := func(err error) {
		report.Failures = append(report.Failures, model.ImportFailure{Line: line, Message: err.Error()})
		s.logger.Warn(err, "import row failed", logging.Fields{"batch": report.BatchID, "line": line})
	}

	entryReq, exitReq, err := row.requests()
	if err != nil {
		fail(err)
		return
	}

	entry, err := s.ledger.OpenEntry(ctx, entryReq)
	if err != nil {
		fail(err)
		return
	}
	report.EntriesImported++

	if exitReq == nil {
		return
	}

	exitReq.EntryID = entry.ID
	if _, err := s.ledger.ApplyExit(ctx, *exitReq); err != nil {
		fail(fmt.Errorf("entry %s imported, exit failed: %w", entry.ID, err))
		return
	}
	report.ExitsImported++
}

type csvRow struct {
	columns map[string]int
	record  []string
}

func (r csvRow) get(col string) string {
	i, ok := r.columns[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// requests converts the row into ledger requests. The exit request is nil
// unless both exit price and exit date are present.
func (r csvRow) requests() (request.CreateEntryRequest, *request.CreateExitRequest, error) {
	var req request.CreateEntryRequest

	entryDate, err := parseImportDate(r.get(colEntryDate))
	if err != nil {
		return req, nil, fmt.Errorf("entry date: %w", err)
	}

	entryPrice, err := decimal.NewFromString(r.get(colEntryPrice))
	if err != nil {
		return req, nil, fmt.Errorf("entry price: %w", err)
	}

	qty, err := strconv.ParseInt(r.get(colQty), 10, 64)
	if err != nil {
		return req, nil, fmt.Errorf("qty: %w", err)
	}

	stop, err := optionalPrice(r.get(colStopLoss))
	if err != nil {
		return req, nil, fmt.Errorf("stop loss price: %w", err)
	}
	target, err := optionalPrice(r.get(colTarget))
	if err != nil {
		return req, nil, fmt.Errorf("target price: %w", err)
	}

	req = request.CreateEntryRequest{
		Symbol:        r.get(colStock),
		Market:        r.get(colMarket),
		Position:      normalizePosition(r.get(colPosition)),
		EntryDate:     entryDate,
		EntryPrice:    entryPrice.Round(2),
		Qty:           qty,
		StopLossPrice: stop,
		TargetPrice:   target,
	}

	exitPriceStr, exitDateStr := r.get(colExitPrice), r.get(colExitDate)
	if exitPriceStr == "" || exitDateStr == "" {
		return req, nil, nil
	}

	exitPrice, err := decimal.NewFromString(exitPriceStr)
	if err != nil {
		return req, nil, fmt.Errorf("exit price: %w", err)
	}
	exitDate, err := parseImportDate(exitDateStr)
	if err != nil {
		return req, nil, fmt.Errorf("exit date: %w", err)
	}

	return req, &request.CreateExitRequest{
		ExitDate:  exitDate,
		ExitPrice: exitPrice.Round(2),
		Qty:       qty,
	}, nil
}

func optionalPrice(value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	d = d.Round(2)
	return &d, nil
}

// parseImportDate accepts ISO or day-first dates and returns YYYY-MM-DD.
func parseImportDate(value string) (string, error) {
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("cannot parse %q as a date", value)
}

// normalizePosition maps "long"/"SHORT" to the canonical direction names.
func normalizePosition(value string) string {
	switch strings.ToLower(value) {
	case "long":
		return string(model.DirectionLong)
	case "short":
		return string(model.DirectionShort)
	default:
		return value
	}
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

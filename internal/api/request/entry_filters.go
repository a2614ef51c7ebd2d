package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

// EntryListParams are the parsed query parameters of GET /api/entry.
type EntryListParams struct {
	Filter    model.EntryFilter
	Limit     int
	PageToken string
}

// Scope identifies the filtered listing a page token belongs to.
// Market and symbol are compared case-insensitively, so they are normalized here.
func (p EntryListParams) Scope() string {
	return fmt.Sprintf("market=%s;symbol=%s;status=%s",
		strings.ToUpper(p.Filter.Market),
		strings.ToUpper(p.Filter.Symbol),
		p.Filter.Status,
	)
}

// ParseEntryListParams extracts and validates list parameters from query values.
// All parameters are optional.
//
// Validation rules:
//   - status: "open" or "closed" (case-insensitive)
//   - limit: between 1 and maxLimit (defaults to defaultLimit)
//
// Returns an error if any parameter fails validation.
func ParseEntryListParams(
	marketParam, symbolParam, statusParam, limitParam, pageTokenParam string,
	defaultLimit, maxLimit int,
) (*EntryListParams, error) {
	params := &EntryListParams{
		Filter: model.EntryFilter{
			Market: strings.TrimSpace(marketParam),
			Symbol: strings.TrimSpace(symbolParam),
		},
		PageToken: strings.TrimSpace(pageTokenParam),
	}

	if statusParam != "" {
		status := model.EntryStatus(strings.ToLower(strings.TrimSpace(statusParam)))
		if status != model.EntryStatusOpen && status != model.EntryStatusClosed {
			return nil, fmt.Errorf("invalid status: must be 'open' or 'closed'")
		}
		params.Filter.Status = status
	}

	if limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: must be a number")
		}
		if limit < 1 || limit > maxLimit {
			return nil, fmt.Errorf("invalid limit: must be between 1 and %d", maxLimit)
		}
		params.Limit = limit
	} else {
		params.Limit = defaultLimit
	}

	return params, nil
}

// ParseYear parses the optional year filter of the monthly summary.
// An empty value returns 0, meaning all years.
func ParseYear(yearParam string) (int, error) {
	if yearParam == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(yearParam)
	if err != nil || year < 1900 || year > 9999 {
		return 0, fmt.Errorf("invalid year: %q", yearParam)
	}
	return year, nil
}

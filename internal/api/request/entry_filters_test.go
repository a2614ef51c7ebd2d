package request

import (
	"testing"

	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
)

func TestParseEntryListParams(t *testing.T) {
	t.Run("default values when no parameters provided", func(t *testing.T) {
		params, err := ParseEntryListParams("", "", "", "", "", 100, 500)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if params.Limit != 100 {
			t.Errorf("Expected default Limit 100, got %d", params.Limit)
		}

		if params.Filter != (model.EntryFilter{}) {
			t.Errorf("Expected empty filter, got %+v", params.Filter)
		}
	})

	t.Run("all filters", func(t *testing.T) {
		params, err := ParseEntryListParams(" us ", "AAPL", "Closed", "25", "tok", 100, 500)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if params.Filter.Market != "us" {
			t.Errorf("Expected market 'us', got '%s'", params.Filter.Market)
		}
		if params.Filter.Symbol != "AAPL" {
			t.Errorf("Expected symbol 'AAPL', got '%s'", params.Filter.Symbol)
		}
		if params.Filter.Status != model.EntryStatusClosed {
			t.Errorf("Expected status closed, got '%s'", params.Filter.Status)
		}
		if params.Limit != 25 {
			t.Errorf("Expected Limit 25, got %d", params.Limit)
		}
		if params.PageToken != "tok" {
			t.Errorf("Expected page token 'tok', got '%s'", params.PageToken)
		}
	})

	t.Run("invalid status returns error", func(t *testing.T) {
		_, err := ParseEntryListParams("", "", "pending", "", "", 100, 500)
		if err == nil {
			t.Error("Expected error for invalid status, got nil")
		}
	})

	t.Run("invalid limits return error", func(t *testing.T) {
		for _, limit := range []string{"abc", "0", "-1", "501"} {
			if _, err := ParseEntryListParams("", "", "", limit, "", 100, 500); err == nil {
				t.Errorf("Expected error for limit %q, got nil", limit)
			}
		}
	})

	t.Run("scope ignores case of market and symbol", func(t *testing.T) {
		a, _ := ParseEntryListParams("us", "aapl", "open", "", "", 100, 500)
		b, _ := ParseEntryListParams("US", "AAPL", "open", "10", "", 100, 500)

		if a.Scope() != b.Scope() {
			t.Errorf("Expected equal scopes, got %q and %q", a.Scope(), b.Scope())
		}

		c, _ := ParseEntryListParams("US", "AAPL", "closed", "", "", 100, 500)
		if a.Scope() == c.Scope() {
			t.Error("Expected different scopes for different status")
		}
	})
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty means all years", "", 0, false},
		{"valid year", "2024", 2024, false},
		{"not a number", "last", 0, true},
		{"too small", "24", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseYear(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseYear() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseYear() = %d, want %d", got, tt.want)
			}
		})
	}
}

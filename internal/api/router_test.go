package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api"
	"github.com/ndewijer/Trading-Journal-Backend/internal/config"
	"github.com/ndewijer/Trading-Journal-Backend/internal/logging"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
	"github.com/ndewijer/Trading-Journal-Backend/internal/pagetoken"
	"github.com/ndewijer/Trading-Journal-Backend/internal/testutil"
)

func newTestRouter(t *testing.T) (http.Handler, model.Entry) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	tokens, err := pagetoken.New("", 0)
	if err != nil {
		t.Fatalf("pagetoken.New() error = %v", err)
	}

	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.Pagination.DefaultLimit = 100
	cfg.Pagination.MaxLimit = 500

	router := api.NewRouter(api.Services{
		System:  testutil.NewTestSystemService(t, db),
		Audit:   testutil.NewTestAuditService(t, db),
		Ledger:  testutil.NewTestLedgerService(t, db),
		Summary: testutil.NewTestSummaryService(t, db),
		Import:  testutil.NewTestImportService(t, db),
	}, tokens, cfg, logging.Discard())

	return router, testutil.NewEntry().Build(t, db)
}

func TestRouter(t *testing.T) {
	router, entry := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/api/system/health", "", http.StatusOK},
		{"version", http.MethodGet, "/api/system/version", "", http.StatusOK},
		{"audit", http.MethodGet, "/api/system/audit", "", http.StatusOK},
		{"list entries", http.MethodGet, "/api/entry", "", http.StatusOK},
		{"closed entries", http.MethodGet, "/api/entry/closed", "", http.StatusOK},
		{"get entry", http.MethodGet, "/api/entry/" + entry.ID, "", http.StatusOK},
		{"entry exits", http.MethodGet, "/api/entry/" + entry.ID + "/exit", "", http.StatusOK},
		{"invalid entry id", http.MethodGet, "/api/entry/not-a-uuid", "", http.StatusBadRequest},
		{"invalid exit id", http.MethodGet, "/api/exit/not-a-uuid", "", http.StatusBadRequest},
		{"unknown exit", http.MethodGet, "/api/exit/" + testutil.MakeID(), "", http.StatusNotFound},
		{"monthly summary", http.MethodGet, "/api/summary/monthly?year=2024", "", http.StatusOK},
		{
			"apply exit", http.MethodPost, "/api/exit",
			`{"entryId":"` + entry.ID + `","exitDate":"2024-02-01","exitPrice":110,"qty":10}`,
			http.StatusCreated,
		},
		{"unknown route", http.MethodGet, "/api/position", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_CORSExposesPageToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/entry?limit=1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "X-Next-Page-Token") {
		t.Errorf("Expected X-Next-Page-Token to be exposed, got %q", got)
	}
}

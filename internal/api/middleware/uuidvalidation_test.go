package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/middleware"
	"github.com/ndewijer/Trading-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trading-Journal-Backend/internal/testutil"
)

func TestValidateUUIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		wantCalled bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "passes through entry id",
			id:         testutil.MakeID(),
			wantCalled: true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "rejects malformed id",
			id:         "not-an-entry",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid UUID format",
		},
		{
			name:       "rejects empty id",
			id:         "",
			wantStatus: http.StatusBadRequest,
			wantError:  "valid UUID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/entry/"+tt.id, map[string]string{"uuid": tt.id})
			w := httptest.NewRecorder()

			middleware.ValidateUUIDMiddleware(next).ServeHTTP(w, req)

			if called != tt.wantCalled {
				t.Errorf("Expected next handler called=%v, got %v", tt.wantCalled, called)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantError == "" {
				return
			}

			var body response.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("Expected error %q, got %q", tt.wantError, body.Error)
			}
		})
	}
}

func TestValidateUUIDMiddleware_GuardsExitRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/api/entry/{uuid}", func(r chi.Router) {
		r.Use(middleware.ValidateUUIDMiddleware)
		r.Get("/exit", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/entry/123/exit", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

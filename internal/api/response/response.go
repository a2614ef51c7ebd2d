// Package response writes the JSON bodies and headers shared by every endpoint.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ndewijer/Trading-Journal-Backend/internal/validation"
)

// NextPageTokenHeader carries the token of the following page of a listing.
const NextPageTokenHeader = "X-Next-Page-Token"

// ErrorResponse is the body of every non-2xx response.
// Details holds the field messages of a validation failure, or the underlying error text.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON encodes data before writing the status, so an unencodable value
// becomes a 500 instead of a truncated success. A nil data sends only the status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.WriteHeader(status)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "failed to encode response"})
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// RespondError sends an ErrorResponse. A validation.Error anywhere in the details
// chain is expanded to its per-field messages.
//
//	response.RespondError(w, http.StatusNotFound, "entry not found", err)
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	if err, ok := details.(error); ok {
		var verr *validation.Error
		if errors.As(err, &verr) {
			details = verr.Fields
		} else {
			details = err.Error()
		}
	}
	if s, ok := details.(string); ok && s == "" {
		details = nil
	}

	RespondJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// RespondPage sends one page of a listing. A non-empty next token is exposed
// through NextPageTokenHeader.
func RespondPage(w http.ResponseWriter, items any, next string) {
	if next != "" {
		w.Header().Set(NextPageTokenHeader, next)
	}
	RespondJSON(w, http.StatusOK, items)
}

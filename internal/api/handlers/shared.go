package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T. Unknown fields and trailing data are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode request body: %w", err)
	}
	if dec.More() {
		return req, errors.New("request body must contain a single JSON object")
	}

	return req, nil
}

// respondLedgerError maps ledger and validation errors to their status codes.
// Anything unrecognized is a 500 reported under fallback.
func respondLedgerError(w http.ResponseWriter, err error, fallback error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		response.RespondError(w, http.StatusBadRequest, "validation failed", err)
	case errors.Is(err, apperrors.ErrEntryNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrEntryNotFound.Error(), err)
	case errors.Is(err, apperrors.ErrExitNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrExitNotFound.Error(), err)
	case errors.Is(err, apperrors.ErrEntryClosed):
		response.RespondError(w, http.StatusConflict, apperrors.ErrEntryClosed.Error(), err)
	case errors.Is(err, apperrors.ErrExitExceedsRemaining):
		response.RespondError(w, http.StatusConflict, apperrors.ErrExitExceedsRemaining.Error(), err)
	case errors.Is(err, apperrors.ErrInvalidPageToken):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPageToken.Error(), err)
	case errors.Is(err, apperrors.ErrInvalidCSVHeaders):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidCSVHeaders.Error(), err)
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err)
	}
}

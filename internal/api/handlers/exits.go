package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trading-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trading-Journal-Backend/internal/service"
)

// ExitHandler handles HTTP requests for exit endpoints.
type ExitHandler struct {
	ledgerService *service.LedgerService
}

// NewExitHandler creates a new ExitHandler with the provided service dependency.
func NewExitHandler(ledgerService *service.LedgerService) *ExitHandler {
	return &ExitHandler{
		ledgerService: ledgerService,
	}
}

// CreateExit handles POST requests to apply an exit to an open entry.
//
// Endpoint: POST /api/exit
// Request Body: CreateExitRequest (entryId, exitDate, exitPrice, qty)
// Response: 201 Created with Exit
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the entry does not exist
// Error: 409 Conflict if the entry is closed or the quantity exceeds what remains
// Error: 500 Internal Server Error if creation fails
func (h *ExitHandler) CreateExit(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateExitRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	exit, err := h.ledgerService.ApplyExit(r.Context(), req)
	if err != nil {
		respondLedgerError(w, err, apperrors.ErrFailedToCreateExit)
		return
	}

	response.RespondJSON(w, http.StatusCreated, exit)
}

// GetExit handles GET requests to retrieve a single exit by ID.
//
// Endpoint: GET /api/exit/{uuid}
// Response: 200 OK with Exit
// Error: 400 Bad Request if exit ID is invalid (validated by middleware)
// Error: 404 Not Found if exit not found
// Error: 500 Internal Server Error if retrieval fails
func (h *ExitHandler) GetExit(w http.ResponseWriter, r *http.Request) {
	exitID := chi.URLParam(r, "uuid")

	exit, err := h.ledgerService.GetExit(r.Context(), exitID)
	if err != nil {
		respondLedgerError(w, err, apperrors.ErrFailedToRetrieveExit)
		return
	}

	response.RespondJSON(w, http.StatusOK, exit)
}

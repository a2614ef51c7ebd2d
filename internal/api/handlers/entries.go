package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trading-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trading-Journal-Backend/internal/model"
	"github.com/ndewijer/Trading-Journal-Backend/internal/pagetoken"
	"github.com/ndewijer/Trading-Journal-Backend/internal/service"
)

// PageLimits bounds the page size of list endpoints.
type PageLimits struct {
	Default int
	Max     int
}

// EntryHandler handles HTTP requests for entry endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the ledger service.
type EntryHandler struct {
	ledgerService *service.LedgerService
	tokens        *pagetoken.Codec
	limits        PageLimits
}

// NewEntryHandler creates a new EntryHandler with the provided dependencies.
func NewEntryHandler(ledgerService *service.LedgerService, tokens *pagetoken.Codec, limits PageLimits) *EntryHandler {
	return &EntryHandler{
		ledgerService: ledgerService,
		tokens:        tokens,
		limits:        limits,
	}
}

// ListEntries handles GET requests to list entry views, newest entry date first.
// When a full page is returned the token of the next page is sent in the
// X-Next-Page-Token header; its absence means the listing is exhausted.
//
// Endpoint: GET /api/entry
// Query Parameters: market, symbol, status (open|closed), limit, pageToken
// Response: 200 OK with array of EntryView
// Error: 400 Bad Request if a parameter or the page token is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params, err := request.ParseEntryListParams(
		q.Get("market"),
		q.Get("symbol"),
		q.Get("status"),
		q.Get("limit"),
		q.Get("pageToken"),
		h.limits.Default,
		h.limits.Max,
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	scope := params.Scope()
	offset, err := h.tokens.Decode(scope, params.PageToken)
	if err != nil {
		respondLedgerError(w, err, apperrors.ErrFailedToRetrieveEntries)
		return
	}

	views, err := h.ledgerService.ListEntryViews(r.Context(), params.Filter, model.Page{Offset: offset, Limit: params.Limit})
	if err != nil {
		respondLedgerError(w, err, apperrors.ErrFailedToRetrieveEntries)
		return
	}

	var next string
	if len(views) == params.Limit {
		next, err = h.tokens.Encode(scope, offset+params.Limit)
		if err != nil {
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveEntries.Error(), err)
			return
		}
	}

	response.RespondPage(w, views, next)
}

// ClosedEntries handles GET requests to list every closed entry view.
//
// Endpoint: GET /api/entry/closed
// Response: 200 OK with array of EntryView
// Error: 500 Internal Server Error if retrieval fails
func (h *EntryHandler) ClosedEntries(w http.ResponseWriter, r *http.Request) {
	views, err := h.ledgerService.ListClosedEntryViews(r.Context())
	if err != nil {
		respondLedgerError(w, err, apperrors.ErrFailedToRetrieveEntries)
		return
	}

	response.RespondJSON(w, http.StatusOK, views)
}

// GetEntry handles GET requests to retrieve a single entry view by ID.
//
// Endpoint: GET /api/entry/{uuid}
// Response: 200 OK with EntryView
// Error: 400 Bad Request if entry ID is invalid (validated by middleware)
// Error: 404 Not Found if entry not found
// Error: 500 Internal Server Error if retrieval fails
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "uuid")

	view, err := h.ledgerService.GetEntryView(r.Context(), entryID)
	if err != nil {
		respondLedgerError(w, err, apperrors.ErrFailedToRetrieveEntry)
		return
	}

	response.RespondJSON(w, http.StatusOK, view)
}

// EntryExits handles GET requests to retrieve the exits of one entry, oldest first.
//
// Endpoint: GET /api/entry/{uuid}/exit
// Response: 200 OK with array of Exit
// Error: 400 Bad Request if entry ID is invalid (validated by middleware)
// Error: 404 Not Found if entry not found
// Error: 500 Internal Server Error if retrieval fails
func (h *EntryHandler) EntryExits(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "uuid")

	exits, err := h.ledgerService.ListExitsForEntry(r.Context(), entryID)
	if err != nil {
		respondLedgerError(w, err, apperrors.ErrFailedToRetrieveExits)
		return
	}

	response.RespondJSON(w, http.StatusOK, exits)
}

// CreateEntry handles POST requests to open a new entry.
//
// Endpoint: POST /api/entry
// Request Body: CreateEntryRequest (symbol, market, position, entryDate, entryPrice, qty,
// optional stopLossPrice and targetPrice)
// Response: 201 Created with EntryView
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateEntryRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	entry, err := h.ledgerService.OpenEntry(r.Context(), req)
	if err != nil {
		respondLedgerError(w, err, apperrors.ErrFailedToCreateEntry)
		return
	}

	view, err := h.ledgerService.GetEntryView(r.Context(), entry.ID)
	if err != nil {
		respondLedgerError(w, err, apperrors.ErrFailedToRetrieveEntry)
		return
	}

	response.RespondJSON(w, http.StatusCreated, view)
}

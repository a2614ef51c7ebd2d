package handlers

import (
	"net/http"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/request"
	"github.com/ndewijer/Trading-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trading-Journal-Backend/internal/service"
)

// SummaryHandler handles HTTP requests for performance summaries.
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// Monthly handles GET requests for the month-by-month win/loss summary of closed entries.
//
// Endpoint: GET /api/summary/monthly
// Query Parameters: year (optional)
// Response: 200 OK with array of MonthlySummaryRow, oldest month first
// Error: 400 Bad Request if year is invalid
// Error: 500 Internal Server Error if the summary cannot be computed
func (h *SummaryHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	year, err := request.ParseYear(r.URL.Query().Get("year"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidYear.Error(), err)
		return
	}

	rows, err := h.summaryService.GetMonthlySummary(r.Context(), year)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetSummary.Error(), err)
		return
	}

	response.RespondJSON(w, http.StatusOK, rows)
}

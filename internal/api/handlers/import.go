package handlers

import (
	"io"
	"mime"
	"net/http"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trading-Journal-Backend/internal/service"
)

// maxImportBytes caps uploaded CSV files.
const maxImportBytes = 10 << 20

// ImportHandler handles CSV imports of entries.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// ImportEntries handles POST requests carrying a CSV file of entries.
// The file is either the raw body or the multipart form field "file".
// Rows that fail are listed in the report; the rest are imported.
//
// Endpoint: POST /api/entry/import
// Response: 200 OK with ImportReport
// Error: 400 Bad Request if the file is missing or lacks required columns
// Error: 500 Internal Server Error if the import fails
func (h *ImportHandler) ImportEntries(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var file io.Reader = r.Body

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid multipart form", err)
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "file is required", err)
			return
		}
		defer f.Close()
		file = f
	}

	report, err := h.importService.Import(r.Context(), file)
	if err != nil {
		respondLedgerError(w, err, apperrors.ErrFailedToImportEntries)
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

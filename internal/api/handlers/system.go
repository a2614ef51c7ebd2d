package handlers

import (
	"net/http"

	"github.com/ndewijer/Trading-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trading-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trading-Journal-Backend/internal/service"
)

// SystemHandler serves health, version and audit endpoints.
type SystemHandler struct {
	systemService *service.SystemService
	auditService  *service.AuditService
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(systemService *service.SystemService, auditService *service.AuditService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
		auditService:  auditService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health reports database connectivity. An unreachable database is a 503.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(r.Context()); err != nil {
		resp := HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		}
		response.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp := HealthResponse{
		Status:   "healthy",
		Database: "connected",
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// Version reports the build version, the schema version and pending migrations.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	info, err := h.systemService.CheckVersion(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetVersionInfo.Error(), err)
		return
	}

	response.RespondJSON(w, http.StatusOK, info)
}

// Audit handles GET requests to run the ledger audit on demand.
// Findings are reported with 200; only a failure to run is an error.
//
// Endpoint: GET /api/system/audit
// Response: 200 OK with AuditReport
// Error: 500 Internal Server Error if the audit cannot run
func (h *SystemHandler) Audit(w http.ResponseWriter, r *http.Request) {
	report, err := h.auditService.Run(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRunAudit.Error(), err)
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

package handlers

import (
	"net/http"

	"github.com/wonny/contractdesk/internal/dashboard"
	"github.com/wonny/contractdesk/pkg/logger"
)

// DashboardHandler serves the read-only analytics endpoints
type DashboardHandler struct {
	svc    *dashboard.Service
	logger *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *dashboard.Service, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: log}
}

// Summary returns every dashboard widget
// GET /api/dashboard?year=2024&month=3&provider=Enel
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q, err := dashboard.ParseQuery(params.Get("year"), params.Get("month"), params.Get("provider"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.svc.Summary(r.Context(), q)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to compute dashboard")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Expiring returns contracts ending within the next 30 days
// GET /api/dashboard/expiring
func (h *DashboardHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Expiring(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to list expiring contracts")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Search matches clients and contracts against q
// GET /api/search?q=rossi
func (h *DashboardHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to search")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

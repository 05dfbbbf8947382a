package handlers

import (
	"net/http"

	"github.com/wonny/contractdesk/internal/store"
	"github.com/wonny/contractdesk/pkg/logger"
)

// ProviderHandler serves /api/providers
type ProviderHandler struct {
	repo   store.Repository
	notify Notifier
	logger *logger.Logger
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(repo store.Repository, notify Notifier, log *logger.Logger) *ProviderHandler {
	return &ProviderHandler{repo: repo, notify: orNop(notify), logger: log}
}

// AddProviderRequest is the body of POST /api/providers
type AddProviderRequest struct {
	Name string `json:"name"`
}

// List returns provider names sorted case-insensitively
// GET /api/providers
func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request) {
	providers, err := h.repo.ListProviders(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to list providers")
		return
	}
	respondJSON(w, http.StatusOK, providers)
}

// Add registers a provider and returns the updated list
// POST /api/providers
func (h *ProviderHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddProviderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	providers, err := h.repo.AddProvider(r.Context(), req.Name)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to add provider")
		return
	}

	h.notify.Changed()
	respondJSON(w, http.StatusOK, providers)
}

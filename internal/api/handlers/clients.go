package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/contractdesk/internal/domain"
	"github.com/wonny/contractdesk/internal/store"
	"github.com/wonny/contractdesk/pkg/logger"
)

// ClientHandler serves /api/clients
type ClientHandler struct {
	repo   store.Repository
	notify Notifier
	logger *logger.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(repo store.Repository, notify Notifier, log *logger.Logger) *ClientHandler {
	return &ClientHandler{repo: repo, notify: orNop(notify), logger: log}
}

// List returns every client in creation order
// GET /api/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.repo.ListClients(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to list clients")
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

// Get returns one client
// GET /api/clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, err := h.repo.GetClient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to get client")
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// Create stores a new client. id and createdAt in the body are ignored.
// POST /api/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.Client
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	client, err := h.repo.CreateClient(r.Context(), req)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to create client")
		return
	}

	h.logger.WithField("client_id", client.ID).Info("Client created")
	h.notify.Changed()
	respondJSON(w, http.StatusCreated, client)
}

// Update replaces a client
// PUT /api/clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.Client
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ID = mux.Vars(r)["id"]

	client, err := h.repo.UpdateClient(r.Context(), req)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to update client")
		return
	}

	h.notify.Changed()
	respondJSON(w, http.StatusOK, client)
}

// Delete removes a client and its contracts
// DELETE /api/clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.repo.DeleteClient(r.Context(), id); err != nil {
		respondDomainError(w, h.logger, err, "Failed to delete client")
		return
	}

	h.logger.WithField("client_id", id).Info("Client deleted")
	h.notify.Changed()
	w.WriteHeader(http.StatusNoContent)
}

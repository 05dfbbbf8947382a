package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/contractdesk/internal/dashboard"
	"github.com/wonny/contractdesk/internal/domain"
	"github.com/wonny/contractdesk/internal/engine"
	"github.com/wonny/contractdesk/internal/store"
	"github.com/wonny/contractdesk/pkg/logger"
)

const dateLayout = "2006-01-02"

// ContractHandler serves /api/contracts
type ContractHandler struct {
	repo      store.Repository
	dashboard *dashboard.Service
	notify    Notifier
	loc       *time.Location
	logger    *logger.Logger
}

// NewContractHandler creates a new contract handler. Request dates are
// calendar days in loc.
func NewContractHandler(repo store.Repository, svc *dashboard.Service, notify Notifier, loc *time.Location, log *logger.Logger) *ContractHandler {
	return &ContractHandler{repo: repo, dashboard: svc, notify: orNop(notify), loc: loc, logger: log}
}

// ContractRequest is the write shape of a contract. Dates are YYYY-MM-DD and
// may be empty.
type ContractRequest struct {
	ClientID      string          `json:"clientId"`
	Type          string          `json:"type"`
	Provider      string          `json:"provider"`
	ContractCode  string          `json:"contractCode"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate"`
	Commission    *float64        `json:"commission"`
	SupplyAddress *domain.Address `json:"supplyAddress"`
}

func (req ContractRequest) toContract(loc *time.Location) (domain.Contract, error) {
	start, err := parseDate(req.StartDate, loc)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("%w: startDate: %v", domain.ErrInvalid, err)
	}
	end, err := parseDate(req.EndDate, loc)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("%w: endDate: %v", domain.ErrInvalid, err)
	}

	return domain.Contract{
		ClientID:      req.ClientID,
		Type:          domain.ContractType(strings.ToLower(strings.TrimSpace(req.Type))),
		Provider:      strings.TrimSpace(req.Provider),
		ContractCode:  strings.TrimSpace(req.ContractCode),
		StartDate:     start,
		EndDate:       end,
		Commission:    req.Commission,
		SupplyAddress: req.SupplyAddress,
	}, nil
}

func parseDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns contracts, optionally for one provider
// GET /api/contracts?provider=Enel
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	provider := engine.ParseProvider(r.URL.Query().Get("provider"))

	contracts, err := h.dashboard.Contracts(r.Context(), provider)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to list contracts")
		return
	}
	respondJSON(w, http.StatusOK, contracts)
}

// Get returns one contract
// GET /api/contracts/{id}
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	contract, err := h.repo.GetContract(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to get contract")
		return
	}
	respondJSON(w, http.StatusOK, contract)
}

// Create stores a new contract for an existing client
// POST /api/contracts
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := h.decode(w, r)
	if !ok {
		return
	}

	contract, err := h.repo.CreateContract(r.Context(), c)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to create contract")
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"contract_id": contract.ID,
		"client_id":   contract.ClientID,
		"provider":    contract.Provider,
	}).Info("Contract created")
	h.notify.Changed()
	respondJSON(w, http.StatusCreated, contract)
}

// Update replaces a contract
// PUT /api/contracts/{id}
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.decode(w, r)
	if !ok {
		return
	}
	c.ID = mux.Vars(r)["id"]

	contract, err := h.repo.UpdateContract(r.Context(), c)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to update contract")
		return
	}

	h.notify.Changed()
	respondJSON(w, http.StatusOK, contract)
}

// Delete removes a contract
// DELETE /api/contracts/{id}
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteContract(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondDomainError(w, h.logger, err, "Failed to delete contract")
		return
	}
	h.notify.Changed()
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContractHandler) decode(w http.ResponseWriter, r *http.Request) (domain.Contract, bool) {
	var req ContractRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return domain.Contract{}, false
	}
	c, err := req.toContract(h.loc)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return domain.Contract{}, false
	}
	return c, true
}

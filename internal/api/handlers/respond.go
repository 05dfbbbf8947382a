package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/contractdesk/internal/domain"
	"github.com/wonny/contractdesk/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps store sentinels to status codes. Anything else is a
// 500 and is logged; the client only sees fallback.
func respondDomainError(w http.ResponseWriter, log *logger.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalid):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.WithError(err).Error(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

// Notifier is told about every successful write
type Notifier interface {
	Changed()
}

type nopNotifier struct{}

func (nopNotifier) Changed() {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

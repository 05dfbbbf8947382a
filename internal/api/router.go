package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/contractdesk/internal/api/feed"
	"github.com/wonny/contractdesk/internal/api/handlers"
	"github.com/wonny/contractdesk/pkg/logger"
)

// HealthFunc reports whether a dependency is reachable
type HealthFunc func(ctx context.Context) error

// Handlers groups everything the router mounts
type Handlers struct {
	Clients   *handlers.ClientHandler
	Contracts *handlers.ContractHandler
	Providers *handlers.ProviderHandler
	Dashboard *handlers.DashboardHandler
	Feed      *feed.Hub
	Health    HealthFunc
}

// NewRouter creates and configures the HTTP router
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler(h.Health)).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/clients", h.Clients.List).Methods("GET")
	api.HandleFunc("/clients", h.Clients.Create).Methods("POST")
	api.HandleFunc("/clients/{id}", h.Clients.Get).Methods("GET")
	api.HandleFunc("/clients/{id}", h.Clients.Update).Methods("PUT")
	api.HandleFunc("/clients/{id}", h.Clients.Delete).Methods("DELETE")

	api.HandleFunc("/contracts", h.Contracts.List).Methods("GET")
	api.HandleFunc("/contracts", h.Contracts.Create).Methods("POST")
	api.HandleFunc("/contracts/{id}", h.Contracts.Get).Methods("GET")
	api.HandleFunc("/contracts/{id}", h.Contracts.Update).Methods("PUT")
	api.HandleFunc("/contracts/{id}", h.Contracts.Delete).Methods("DELETE")

	api.HandleFunc("/providers", h.Providers.List).Methods("GET")
	api.HandleFunc("/providers", h.Providers.Add).Methods("POST")

	api.HandleFunc("/search", h.Dashboard.Search).Methods("GET")
	api.HandleFunc("/dashboard", h.Dashboard.Summary).Methods("GET")
	api.HandleFunc("/dashboard/expiring", h.Dashboard.Expiring).Methods("GET")

	if h.Feed != nil {
		r.Handle("/ws/dashboard", h.Feed).Methods("GET")
	}

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

func healthCheckHandler(check HealthFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		body := map[string]interface{}{"service": "contractdesk-api"}
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
				body["error"] = err.Error()
			}
		}
		body["status"] = status

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(body)
	}
}

// statusRecorder captures the status code for the access log. Hijack is
// forwarded so websocket upgrades still work behind the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			if r.Header.Get("Upgrade") != "" {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

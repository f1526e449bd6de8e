package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/simaogato/portfolio-backend/internal/adapter/auth"
	"github.com/simaogato/portfolio-backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(handler *PortfolioHandler, verifier *auth.Verifier, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api/portfolio").Subrouter()
	api.Use(authMiddleware(verifier))

	// Aggregates are registered before /assets/{id} so they are not read as ids
	api.HandleFunc("/assets/summary", handler.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/assets/performance", handler.GetPerformance).Methods(http.MethodGet)

	api.HandleFunc("/assets", handler.ListAssets).Methods(http.MethodGet)
	api.HandleFunc("/assets", handler.CreateAsset).Methods(http.MethodPost)
	api.HandleFunc("/assets/{id}", handler.GetAsset).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}", handler.ReplaceAsset).Methods(http.MethodPut)
	api.HandleFunc("/assets/{id}", handler.PatchAsset).Methods(http.MethodPatch)
	api.HandleFunc("/assets/{id}", handler.DeleteAsset).Methods(http.MethodDelete)

	api.HandleFunc("/summary", handler.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/performance", handler.GetPerformance).Methods(http.MethodGet)
	api.HandleFunc("/allocation", handler.GetAllocation).Methods(http.MethodGet)
	api.HandleFunc("/asset-types", handler.ListAssetTypes).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "portfolio-api",
	})
}

// authMiddleware verifies the bearer token and stores the owner in the request context
func authMiddleware(verifier *auth.Verifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID, err := verifier.ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="portfolio"`)
				respondError(w, http.StatusUnauthorized, "authentication credentials were not provided or are invalid")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithOwner(r.Context(), ownerID)))
		})
	}
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
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
						"error": fmt.Sprint(err),
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					respondError(w, http.StatusInternalServerError, internalErrorMessage)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

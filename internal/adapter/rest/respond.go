package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/simaogato/portfolio-backend/internal/adapter/auth"
	"github.com/simaogato/portfolio-backend/internal/domain"
)

const internalErrorMessage = "Internal server error"

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps an error to its HTTP status and client-facing message.
// Unclassified errors are reported as 500 without their details.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrInvalidType), errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

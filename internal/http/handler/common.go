package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saravana-agencies/billing-sync/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondError maps a service error to the appropriate HTTP response.
// Validation failures carry field details; remote failures surface as
// 502 because the backing store, not this process, rejected the call.
func respondError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(domain.APIError{
			Type:   domain.ErrorTypeValidation,
			Title:  "Validation Error",
			Status: http.StatusBadRequest,
			Detail: ve.Message,
			Errors: ve.Fields,
		})
		return
	}

	if domain.IsUniqueViolation(err) {
		respondWithError(w, http.StatusConflict, err.Error())
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	if errors.Is(err, domain.ErrRemote) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(domain.APIError{
			Type:   domain.ErrorTypeRemote,
			Title:  http.StatusText(http.StatusBadGateway),
			Status: http.StatusBadGateway,
			Detail: err.Error(),
		})
		return
	}

	respondWithError(w, http.StatusInternalServerError, err.Error())
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	default:
		return domain.ErrorTypeInternal
	}
}

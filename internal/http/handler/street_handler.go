package handler

import (
	"encoding/json"
	"net/http"

	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/service"
	"go.uber.org/zap"
)

type StreetHandler struct {
	streetService *service.StreetService
	logger        *zap.Logger
}

func NewStreetHandler(streetService *service.StreetService, logger *zap.Logger) *StreetHandler {
	return &StreetHandler{
		streetService: streetService,
		logger:        logger,
	}
}

func (h *StreetHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.streetService.List())
}

// Add registers a street name. Duplicates are accepted silently so the
// client can re-submit without caring whether the name already exists.
func (h *StreetHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req domain.AddStreetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.streetService.Add(r.Context(), &req); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

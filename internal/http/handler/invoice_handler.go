package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/service"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// List returns invoices newest first, narrowed by the optional status,
// street, date and mobile query parameters.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.InvoiceFilter{
		Street:       r.URL.Query().Get("street"),
		Date:         r.URL.Query().Get("date"),
		MobileSearch: r.URL.Query().Get("mobile"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.InvoiceStatus(status)
		if s != domain.InvoiceStatusPaid && s != domain.InvoiceStatusUnpaid {
			respondWithError(w, http.StatusBadRequest, "status must be paid or unpaid")
			return
		}
		filter.Status = s
	}

	respondJSON(w, http.StatusOK, h.invoiceService.List(filter))
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft domain.InvoiceDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dto, err := h.invoiceService.Submit(r.Context(), &draft)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// NextNumber previews the invoice number the next submission will take.
func (h *InvoiceHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"invoiceNumber": h.invoiceService.NextNumber()})
}

func (h *InvoiceHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	status, err := h.invoiceService.ToggleStatus(r.Context(), number)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"invoiceNumber": number,
		"status":        string(status),
	})
}

func (h *InvoiceHandler) PrintView(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	view, err := h.invoiceService.PrintView(number)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// StreetOptions lists the distinct street names present on invoices,
// used to populate the street filter dropdown.
func (h *InvoiceHandler) StreetOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.invoiceService.StreetOptions())
}

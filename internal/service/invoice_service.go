package service

import (
	"context"
	"errors"
	"math"

	"github.com/saravana-agencies/billing-sync/internal/config"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/mapper"
	"github.com/saravana-agencies/billing-sync/internal/repository"
	"go.uber.org/zap"
)

// InvoiceService is the command layer over the invoice collection. It
// owns invoice assembly: turning a draft (line rows + customer fields)
// into an immutable invoice record with a computed total, validated
// before any remote call.
type InvoiceService struct {
	invoiceRepo  *repository.InvoiceRepository
	customerRepo *repository.CustomerRepository
	itemRepo     *repository.ItemRepository
	client       *config.ClientConfig
	logger       *zap.Logger
}

func NewInvoiceService(
	invoiceRepo *repository.InvoiceRepository,
	customerRepo *repository.CustomerRepository,
	itemRepo *repository.ItemRepository,
	client *config.ClientConfig,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		client:       client,
		logger:       logger,
	}
}

// Submit validates and persists an invoice draft. On any validation
// failure nothing is persisted and the draft is untouched, so the user
// can correct and resubmit. On success the customer is resolved by
// mobile number (created on the fly when unknown) and the assembled
// record handed to the invoice repository.
//
// The customer insert and invoice insert are two sequential remote
// calls with no compensating rollback: a failed invoice insert after a
// successful customer insert leaves the customer row behind.
func (s *InvoiceService) Submit(ctx context.Context, draft *domain.InvoiceDraft) (*domain.InvoiceDTO, error) {
	if err := validateStruct(draft); err != nil {
		return nil, err
	}

	lines, err := s.assembleLines(draft.Lines)
	if err != nil {
		return nil, err
	}

	invoiceDate := domain.Today()
	if draft.InvoiceDate != "" {
		invoiceDate = domain.ISODate(draft.InvoiceDate)
	}

	customer, err := s.customerRepo.FindByMobile(draft.MobileNumber)
	if errors.Is(err, domain.ErrNotFound) {
		customer, err = s.customerRepo.Create(ctx, draft.CustomerName, draft.MobileNumber, draft.StreetName)
	}
	if err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		InvoiceNumber: s.invoiceRepo.NextInvoiceNumber(),
		CustomerID:    customer.ID,
		Customer:      customer,
		InvoiceDate:   invoiceDate,
		Items:         lines,
		Total:         lines.Sum(),
		Status:        domain.InvoiceStatusUnpaid,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("mobile", customer.Mobile),
		zap.Float64("total", invoice.Total))

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// assembleLines turns draft rows into line items. Fully empty rows are
// skipped; a row with only some fields filled is a hard failure, as is
// a draft with zero usable rows. The price is copied from the matching
// item and rounded per the client variant (two decimals on desktop,
// whole units on mobile); the form's price field is display-only.
func (s *InvoiceService) assembleLines(rows []domain.DraftLine) (domain.LineItems, error) {
	var lines domain.LineItems
	for _, row := range rows {
		if row.Empty() {
			continue
		}
		if row.Description == "" || row.Quantity < 1 {
			return nil, domain.NewValidationError("incomplete row: every line needs an item and a quantity of at least 1")
		}

		item, err := s.itemRepo.FindByName(row.Description)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("unknown item: " + row.Description)
		}

		price := s.roundPrice(item.Price)
		if price < s.client.MinLinePrice {
			return nil, domain.NewValidationError("incomplete row: price is below the minimum")
		}

		lines = append(lines, domain.LineItem{
			Description: item.Name,
			Quantity:    row.Quantity,
			Price:       price,
			Total:       float64(row.Quantity) * price,
		})
	}

	if len(lines) == 0 {
		return nil, domain.NewValidationError("an invoice needs at least one complete line item")
	}
	return lines, nil
}

// List returns the flattened invoice views matching the filter, newest
// first. The date filter accepts either display or ISO form.
func (s *InvoiceService) List(filter domain.InvoiceFilter) []domain.InvoiceDTO {
	if filter.Date != "" {
		filter.Date = domain.ISODate(filter.Date)
	}
	return mapper.ToInvoiceDTOs(s.invoiceRepo.Search(filter))
}

// ToggleStatus transitions an invoice's payment status by number.
func (s *InvoiceService) ToggleStatus(ctx context.Context, number string) (domain.InvoiceStatus, error) {
	return s.invoiceRepo.ToggleStatus(ctx, number)
}

// NextNumber returns the number the next created invoice would get.
// Purely advisory: Submit recomputes it at save time.
func (s *InvoiceService) NextNumber() string {
	return s.invoiceRepo.NextInvoiceNumber()
}

// PrintView returns the plain data the print template renders for one
// invoice.
func (s *InvoiceService) PrintView(number string) (*domain.PrintView, error) {
	invoice, err := s.invoiceRepo.FindByNumber(number)
	if err != nil {
		return nil, err
	}
	view := mapper.ToPrintView(invoice)
	return &view, nil
}

// StreetOptions returns the street names present on loaded invoices,
// for the list filter dropdown.
func (s *InvoiceService) StreetOptions() []string {
	return s.invoiceRepo.Streets()
}

func (s *InvoiceService) roundPrice(price float64) float64 {
	if s.client.WholeUnitPrices {
		return math.Round(price)
	}
	return math.Round(price*100) / 100
}

// Package mapper converts persisted rows into the flat view shapes the
// UI variants render.
package mapper

import (
	"strings"

	"github.com/google/uuid"
	"github.com/saravana-agencies/billing-sync/internal/domain"
)

// ToInvoiceDTO flattens an invoice row: joined customer fields inlined,
// date in display form.
func ToInvoiceDTO(inv *domain.Invoice) domain.InvoiceDTO {
	dto := domain.InvoiceDTO{
		InvoiceNumber: inv.InvoiceNumber,
		Date:          domain.DisplayDate(inv.InvoiceDate),
		CustomerName:  inv.CustomerName(),
		MobileNumber:  inv.MobileNumber(),
		StreetName:    inv.StreetName(),
		Items:         inv.Items,
		Total:         inv.Total,
		Status:        inv.Status,
	}
	if inv.ID != uuid.Nil {
		dto.ID = inv.ID.String()
	}
	return dto
}

// ToInvoiceDTOs flattens a collection, preserving order.
func ToInvoiceDTOs(invoices []domain.Invoice) []domain.InvoiceDTO {
	out := make([]domain.InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		out = append(out, ToInvoiceDTO(&invoices[i]))
	}
	return out
}

// ToPrintView builds the plain data the fixed print template consumes.
// The template itself is out of scope; this is everything it needs.
func ToPrintView(inv *domain.Invoice) domain.PrintView {
	street := inv.StreetName()
	if street == "" {
		street = "Not specified"
	}
	return domain.PrintView{
		InvoiceNumber: inv.InvoiceNumber,
		Date:          domain.DisplayDate(inv.InvoiceDate),
		CustomerName:  inv.CustomerName(),
		MobileNumber:  inv.MobileNumber(),
		StreetName:    street,
		Items:         inv.Items,
		GrandTotal:    inv.Total,
		Status:        strings.ToUpper(string(inv.Status)),
		PaidStamp:     inv.Status == domain.InvoiceStatusPaid,
	}
}

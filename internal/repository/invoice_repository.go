package repository

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/saravana-agencies/billing-sync/internal/cache"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/gateway"
	"go.uber.org/zap"
)

var invoiceNumberPattern = regexp.MustCompile(`INV-(\d+)`)

// InvoiceRepository owns the invoice collection, newest first. The two
// front-end variants differ in number padding width and in whether a
// paid invoice can be reverted; both differences are constructor
// parameters, not separate implementations.
type InvoiceRepository struct {
	remote          gateway.Remote
	snapshots       *cache.Snapshots
	logger          *zap.Logger
	numberWidth     int
	allowUnmarkPaid bool

	mu       sync.RWMutex
	invoices []domain.Invoice
}

func NewInvoiceRepository(
	remote gateway.Remote,
	snapshots *cache.Snapshots,
	logger *zap.Logger,
	numberWidth int,
	allowUnmarkPaid bool,
) *InvoiceRepository {
	return &InvoiceRepository{
		remote:          remote,
		snapshots:       snapshots,
		logger:          logger,
		numberWidth:     numberWidth,
		allowUnmarkPaid: allowUnmarkPaid,
	}
}

// LoadFromCache seeds the collection from the last snapshot.
func (r *InvoiceRepository) LoadFromCache() {
	var invoices []domain.Invoice
	r.snapshots.Load(cache.KindInvoices, &invoices)

	r.mu.Lock()
	r.invoices = invoices
	r.mu.Unlock()
}

// Refresh replaces the collection with a full read ordered newest
// first, customers joined in, and writes through to the snapshot cache.
func (r *InvoiceRepository) Refresh(ctx context.Context) error {
	var invoices []domain.Invoice
	err := r.remote.SelectAll(ctx, domain.TableInvoices, "created_at DESC", &invoices,
		gateway.WithPreload("Customer"))
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.invoices = invoices
	r.mu.Unlock()

	r.saveSnapshot(invoices)
	return nil
}

// All returns a copy of the current collection, newest first.
func (r *InvoiceRepository) All() []domain.Invoice {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Invoice, len(r.invoices))
	copy(out, r.invoices)
	return out
}

// FindByNumber looks an invoice up by its invoice number.
func (r *InvoiceRepository) FindByNumber(number string) (*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.invoices {
		if r.invoices[i].InvoiceNumber == number {
			inv := r.invoices[i]
			return &inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

// NextInvoiceNumber scans every known invoice number for the INV-
// digit suffix, takes the maximum and formats max+1 zero-padded to the
// configured width. It is recomputed from the loaded collection on
// every call rather than held as a counter: another client may have
// created invoices since the last read, and the source of truth is the
// listing, not a local count. Two clients can still generate the same
// number between read and write; the unique index on invoice_number
// turns that race into a RemoteError rather than a silent duplicate.
func (r *InvoiceRepository) NextInvoiceNumber() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for i := range r.invoices {
		m := invoiceNumberPattern.FindStringSubmatch(r.invoices[i].InvoiceNumber)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("INV-%0*d", r.numberWidth, max+1)
}

// Create persists a new invoice and, after remote confirmation,
// prepends it so the newest-first ordering holds without a re-fetch.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	if err := r.remote.Insert(ctx, domain.TableInvoices, invoice); err != nil {
		return err
	}

	r.mu.Lock()
	r.invoices = append([]domain.Invoice{*invoice}, r.invoices...)
	snapshot := make([]domain.Invoice, len(r.invoices))
	copy(snapshot, r.invoices)
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
	return nil
}

// ToggleStatus transitions an invoice's payment status by invoice
// number. With AllowUnmarkPaid off (the mobile variant) a paid invoice
// stays paid and the call is a no-op. An invoice that has no backend id
// yet is flipped in memory only, with no remote call attempted.
func (r *InvoiceRepository) ToggleStatus(ctx context.Context, number string) (domain.InvoiceStatus, error) {
	r.mu.RLock()
	var current *domain.Invoice
	for i := range r.invoices {
		if r.invoices[i].InvoiceNumber == number {
			inv := r.invoices[i]
			current = &inv
			break
		}
	}
	r.mu.RUnlock()

	if current == nil {
		return "", domain.ErrNotFound
	}

	if current.Status == domain.InvoiceStatusPaid && !r.allowUnmarkPaid {
		return current.Status, nil
	}
	next := current.Status.Toggled()

	if current.Persisted() {
		patch := map[string]interface{}{"status": string(next)}
		if err := r.remote.Update(ctx, domain.TableInvoices, current.ID, patch); err != nil {
			return current.Status, err
		}
	}

	r.mu.Lock()
	for i := range r.invoices {
		if r.invoices[i].InvoiceNumber == number {
			r.invoices[i].Status = next
			break
		}
	}
	snapshot := make([]domain.Invoice, len(r.invoices))
	copy(snapshot, r.invoices)
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
	return next, nil
}

// Search filters the collection by status, street, exact date and
// mobile-number substring. Zero filter values match everything.
func (r *InvoiceRepository) Search(filter domain.InvoiceFilter) []domain.Invoice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Invoice
	for i := range r.invoices {
		inv := r.invoices[i]
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.Street != "" && inv.StreetName() != filter.Street {
			continue
		}
		if filter.Date != "" && inv.InvoiceDate != filter.Date {
			continue
		}
		if filter.MobileSearch != "" && !strings.Contains(inv.MobileNumber(), filter.MobileSearch) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// Streets returns the distinct street names present on loaded invoices,
// in first-seen order. Feeds the street filter dropdown.
func (r *InvoiceRepository) Streets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for i := range r.invoices {
		street := r.invoices[i].StreetName()
		if street != "" && !seen[street] {
			seen[street] = true
			out = append(out, street)
		}
	}
	return out
}

func (r *InvoiceRepository) saveSnapshot(invoices []domain.Invoice) {
	if err := r.snapshots.Save(cache.KindInvoices, invoices); err != nil {
		r.logger.Warn("failed to save invoice snapshot", zap.Error(err))
	}
}

package repository_test

import (
	"context"
	"testing"

	"github.com/saravana-agencies/billing-sync/internal/cache"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/gateway"
	"github.com/saravana-agencies/billing-sync/internal/repository"
	"github.com/saravana-agencies/billing-sync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInvoiceRepo(t *testing.T, numberWidth int, allowUnmarkPaid bool) (*repository.InvoiceRepository, *repository.CustomerRepository) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	remote := gateway.NewGormGateway(db, nil, zap.NewNop())
	snapshots := testutil.SetupTestSnapshots(t)
	invoiceRepo := repository.NewInvoiceRepository(remote, snapshots, zap.NewNop(), numberWidth, allowUnmarkPaid)
	customerRepo := repository.NewCustomerRepository(remote, snapshots, zap.NewNop())
	return invoiceRepo, customerRepo
}

func createInvoice(t *testing.T, repo *repository.InvoiceRepository, customer *domain.Customer, number, date string, status domain.InvoiceStatus) *domain.Invoice {
	t.Helper()
	invoice := &domain.Invoice{
		InvoiceNumber: number,
		CustomerID:    customer.ID,
		Customer:      customer,
		InvoiceDate:   date,
		Items:         domain.LineItems{{Description: "Soap", Quantity: 1, Price: 20, Total: 20}},
		Total:         20,
		Status:        status,
	}
	require.NoError(t, repo.Create(context.Background(), invoice))
	return invoice
}

func TestInvoiceRepository_NextInvoiceNumber_Empty(t *testing.T) {
	repo, _ := newInvoiceRepo(t, 4, true)
	assert.Equal(t, "INV-0001", repo.NextInvoiceNumber())
}

func TestInvoiceRepository_NextInvoiceNumber_MobileWidth(t *testing.T) {
	repo, _ := newInvoiceRepo(t, 3, false)
	assert.Equal(t, "INV-001", repo.NextInvoiceNumber())
}

func TestInvoiceRepository_NextInvoiceNumber_Increments(t *testing.T) {
	repo, customerRepo := newInvoiceRepo(t, 4, true)
	customer, err := customerRepo.Create(context.Background(), "Lakshmi", "9876543210", "Gandhi Road")
	require.NoError(t, err)

	createInvoice(t, repo, customer, "INV-0007", "2025-03-15", domain.InvoiceStatusUnpaid)
	createInvoice(t, repo, customer, "INV-0002", "2025-03-15", domain.InvoiceStatusUnpaid)

	// Max suffix wins regardless of insertion order
	assert.Equal(t, "INV-0008", repo.NextInvoiceNumber())
}

func TestInvoiceRepository_NextInvoiceNumber_IgnoresForeignFormats(t *testing.T) {
	repo, customerRepo := newInvoiceRepo(t, 4, true)
	customer, err := customerRepo.Create(context.Background(), "Lakshmi", "9876543210", "Gandhi Road")
	require.NoError(t, err)

	createInvoice(t, repo, customer, "DRAFT-99", "2025-03-15", domain.InvoiceStatusUnpaid)
	assert.Equal(t, "INV-0001", repo.NextInvoiceNumber())
}

func TestInvoiceRepository_Create_PrependsNewest(t *testing.T) {
	repo, customerRepo := newInvoiceRepo(t, 4, true)
	customer, err := customerRepo.Create(context.Background(), "Lakshmi", "9876543210", "Gandhi Road")
	require.NoError(t, err)

	createInvoice(t, repo, customer, "INV-0001", "2025-03-14", domain.InvoiceStatusUnpaid)
	createInvoice(t, repo, customer, "INV-0002", "2025-03-15", domain.InvoiceStatusUnpaid)

	all := repo.All()
	require.Len(t, all, 2)
	assert.Equal(t, "INV-0002", all[0].InvoiceNumber)
}

func TestInvoiceRepository_Create_DuplicateNumber(t *testing.T) {
	repo, customerRepo := newInvoiceRepo(t, 4, true)
	ctx := context.Background()
	customer, err := customerRepo.Create(ctx, "Lakshmi", "9876543210", "Gandhi Road")
	require.NoError(t, err)

	createInvoice(t, repo, customer, "INV-0001", "2025-03-15", domain.InvoiceStatusUnpaid)

	dup := &domain.Invoice{
		InvoiceNumber: "INV-0001",
		CustomerID:    customer.ID,
		InvoiceDate:   "2025-03-15",
		Items:         domain.LineItems{},
		Status:        domain.InvoiceStatusUnpaid,
	}
	err = repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, domain.IsUniqueViolation(err))
	assert.Len(t, repo.All(), 1)
}

func TestInvoiceRepository_ToggleStatus(t *testing.T) {
	repo, customerRepo := newInvoiceRepo(t, 4, true)
	ctx := context.Background()
	customer, err := customerRepo.Create(ctx, "Lakshmi", "9876543210", "Gandhi Road")
	require.NoError(t, err)

	createInvoice(t, repo, customer, "INV-0001", "2025-03-15", domain.InvoiceStatusUnpaid)

	status, err := repo.ToggleStatus(ctx, "INV-0001")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, status)

	// Desktop toggles back
	status, err = repo.ToggleStatus(ctx, "INV-0001")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusUnpaid, status)
}

func TestInvoiceRepository_ToggleStatus_PaidStaysPaidOnMobile(t *testing.T) {
	repo, customerRepo := newInvoiceRepo(t, 3, false)
	ctx := context.Background()
	customer, err := customerRepo.Create(ctx, "Lakshmi", "9876543210", "Gandhi Road")
	require.NoError(t, err)

	createInvoice(t, repo, customer, "INV-001", "2025-03-15", domain.InvoiceStatusUnpaid)

	status, err := repo.ToggleStatus(ctx, "INV-001")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, status)

	// Second call is a no-op, not an error
	status, err = repo.ToggleStatus(ctx, "INV-001")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, status)
}

func TestInvoiceRepository_ToggleStatus_UnknownNumber(t *testing.T) {
	repo, _ := newInvoiceRepo(t, 4, true)
	_, err := repo.ToggleStatus(context.Background(), "INV-9999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceRepository_ToggleStatus_UnpersistedSkipsRemote(t *testing.T) {
	// An invoice restored from snapshot may predate the id column;
	// flipping it must not attempt a remote write.
	snapshots := testutil.SetupTestSnapshots(t)
	repo := repository.NewInvoiceRepository(failingRemote{}, snapshots, zap.NewNop(), 4, true)

	require.NoError(t, snapshots.Save(cache.KindInvoices, []domain.Invoice{
		{InvoiceNumber: "INV-0001", InvoiceDate: "2025-03-15", Status: domain.InvoiceStatusUnpaid},
	}))
	repo.LoadFromCache()

	status, err := repo.ToggleStatus(context.Background(), "INV-0001")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, status)
}

func TestInvoiceRepository_Search(t *testing.T) {
	repo, customerRepo := newInvoiceRepo(t, 4, true)
	ctx := context.Background()

	anand, err := customerRepo.Create(ctx, "Anand", "9000000001", "Gandhi Road")
	require.NoError(t, err)
	bala, err := customerRepo.Create(ctx, "Bala", "9555000002", "Nehru Street")
	require.NoError(t, err)

	createInvoice(t, repo, anand, "INV-0001", "2025-03-14", domain.InvoiceStatusUnpaid)
	createInvoice(t, repo, bala, "INV-0002", "2025-03-15", domain.InvoiceStatusPaid)
	createInvoice(t, repo, anand, "INV-0003", "2025-03-15", domain.InvoiceStatusPaid)

	t.Run("all", func(t *testing.T) {
		assert.Len(t, repo.Search(domain.InvoiceFilter{}), 3)
	})

	t.Run("by status", func(t *testing.T) {
		got := repo.Search(domain.InvoiceFilter{Status: domain.InvoiceStatusPaid})
		assert.Len(t, got, 2)
	})

	t.Run("by street", func(t *testing.T) {
		got := repo.Search(domain.InvoiceFilter{Street: "Nehru Street"})
		require.Len(t, got, 1)
		assert.Equal(t, "INV-0002", got[0].InvoiceNumber)
	})

	t.Run("by date", func(t *testing.T) {
		got := repo.Search(domain.InvoiceFilter{Date: "2025-03-15"})
		assert.Len(t, got, 2)
	})

	t.Run("by mobile substring", func(t *testing.T) {
		got := repo.Search(domain.InvoiceFilter{MobileSearch: "9555"})
		require.Len(t, got, 1)
		assert.Equal(t, "INV-0002", got[0].InvoiceNumber)
	})

	t.Run("combined", func(t *testing.T) {
		got := repo.Search(domain.InvoiceFilter{Status: domain.InvoiceStatusPaid, Street: "Gandhi Road"})
		require.Len(t, got, 1)
		assert.Equal(t, "INV-0003", got[0].InvoiceNumber)
	})
}

func TestInvoiceRepository_Streets_FirstSeenOrder(t *testing.T) {
	repo, customerRepo := newInvoiceRepo(t, 4, true)
	ctx := context.Background()

	anand, err := customerRepo.Create(ctx, "Anand", "9000000001", "Gandhi Road")
	require.NoError(t, err)
	bala, err := customerRepo.Create(ctx, "Bala", "9000000002", "Nehru Street")
	require.NoError(t, err)

	createInvoice(t, repo, anand, "INV-0001", "2025-03-14", domain.InvoiceStatusUnpaid)
	createInvoice(t, repo, bala, "INV-0002", "2025-03-15", domain.InvoiceStatusUnpaid)
	createInvoice(t, repo, anand, "INV-0003", "2025-03-15", domain.InvoiceStatusUnpaid)

	// Newest first, so Nehru Street was seen before Gandhi Road...
	// except INV-0003 (Gandhi Road) is newest. First-seen order over
	// the newest-first collection.
	assert.Equal(t, []string{"Gandhi Road", "Nehru Street"}, repo.Streets())
}

func TestInvoiceRepository_Refresh_LoadsCustomerAssociation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	remote := gateway.NewGormGateway(db, nil, zap.NewNop())
	snapshots := testutil.SetupTestSnapshots(t)
	customerRepo := repository.NewCustomerRepository(remote, snapshots, zap.NewNop())
	repo := repository.NewInvoiceRepository(remote, snapshots, zap.NewNop(), 4, true)
	ctx := context.Background()

	customer, err := customerRepo.Create(ctx, "Lakshmi", "9876543210", "Gandhi Road")
	require.NoError(t, err)

	require.NoError(t, remote.Insert(ctx, domain.TableInvoices, &domain.Invoice{
		InvoiceNumber: "INV-0001",
		CustomerID:    customer.ID,
		InvoiceDate:   "2025-03-15",
		Items:         domain.LineItems{},
		Status:        domain.InvoiceStatusUnpaid,
	}))

	require.NoError(t, repo.Refresh(ctx))

	all := repo.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Lakshmi", all[0].CustomerName())
	assert.Equal(t, "Gandhi Road", all[0].StreetName())
}

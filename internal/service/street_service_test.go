package service_test

import (
	"context"
	"testing"

	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/gateway"
	"github.com/saravana-agencies/billing-sync/internal/repository"
	"github.com/saravana-agencies/billing-sync/internal/service"
	"github.com/saravana-agencies/billing-sync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStreetService(t *testing.T) (*service.StreetService, *repository.CustomerRepository) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	remote := gateway.NewGormGateway(db, nil, zap.NewNop())
	snapshots := testutil.SetupTestSnapshots(t)
	log := zap.NewNop()

	streetRepo := repository.NewStreetRepository(remote, snapshots, log)
	customerRepo := repository.NewCustomerRepository(remote, snapshots, log)
	return service.NewStreetService(streetRepo, customerRepo, log), customerRepo
}

func TestStreetService_Add(t *testing.T) {
	svc, _ := newStreetService(t)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, &domain.AddStreetRequest{Name: "Gandhi Road"}))
	assert.Equal(t, []string{"Gandhi Road"}, svc.List())

	// Re-adding the same street succeeds without a second entry
	require.NoError(t, svc.Add(ctx, &domain.AddStreetRequest{Name: "Gandhi Road"}))
	assert.Equal(t, []string{"Gandhi Road"}, svc.List())
}

func TestStreetService_Add_RequiresName(t *testing.T) {
	svc, _ := newStreetService(t)
	err := svc.Add(context.Background(), &domain.AddStreetRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStreetService_Migrate(t *testing.T) {
	svc, customerRepo := newStreetService(t)
	ctx := context.Background()

	_, err := customerRepo.Create(ctx, "Anand", "9000000001", "Nehru Street")
	require.NoError(t, err)
	_, err = customerRepo.Create(ctx, "Bala", "9000000002", "Gandhi Road")
	require.NoError(t, err)
	require.NoError(t, svc.Add(ctx, &domain.AddStreetRequest{Name: "Market Road"}))

	svc.Migrate()

	assert.Equal(t, []string{"Gandhi Road", "Market Road", "Nehru Street"}, svc.List())
}

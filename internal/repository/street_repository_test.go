package repository_test

import (
	"context"
	"testing"

	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/gateway"
	"github.com/saravana-agencies/billing-sync/internal/repository"
	"github.com/saravana-agencies/billing-sync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStreetRepo(t *testing.T) *repository.StreetRepository {
	t.Helper()
	db := testutil.SetupTestDB(t)
	remote := gateway.NewGormGateway(db, nil, zap.NewNop())
	return repository.NewStreetRepository(remote, testutil.SetupTestSnapshots(t), zap.NewNop())
}

func TestStreetRepository_AddAndContains(t *testing.T) {
	repo := newStreetRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "Gandhi Road"))
	assert.True(t, repo.Contains("Gandhi Road"))
	assert.False(t, repo.Contains("Nehru Street"))
}

func TestStreetRepository_Add_DuplicateIsBenign(t *testing.T) {
	repo := newStreetRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "Gandhi Road"))
	// The backend rejects the duplicate row but the caller sees success
	require.NoError(t, repo.Add(ctx, "Gandhi Road"))

	count := 0
	for _, s := range repo.All() {
		if s == "Gandhi Road" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestStreetRepository_Refresh(t *testing.T) {
	db := testutil.SetupTestDB(t)
	remote := gateway.NewGormGateway(db, nil, zap.NewNop())
	repo := repository.NewStreetRepository(remote, testutil.SetupTestSnapshots(t), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, remote.Insert(ctx, domain.TableStreets, &domain.Street{Name: "Nehru Street"}))
	require.NoError(t, remote.Insert(ctx, domain.TableStreets, &domain.Street{Name: "Gandhi Road"}))

	require.NoError(t, repo.Refresh(ctx))
	assert.Equal(t, []string{"Gandhi Road", "Nehru Street"}, repo.All())
}

func TestStreetRepository_MigrateFromCustomers(t *testing.T) {
	repo := newStreetRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, "Market Road"))

	repo.MigrateFromCustomers([]domain.Customer{
		{Name: "A", Mobile: "9000000001", Street: "Gandhi Road"},
		{Name: "B", Mobile: "9000000002", Street: "Market Road"},
		{Name: "C", Mobile: "9000000003", Street: ""},
		{Name: "D", Mobile: "9000000004", Street: "Gandhi Road"},
	})

	// Union of existing names and customer streets, deduplicated,
	// sorted, blanks dropped
	assert.Equal(t, []string{"Gandhi Road", "Market Road"}, repo.All())
}

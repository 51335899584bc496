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

func newItemRepo(t *testing.T) *repository.ItemRepository {
	t.Helper()
	db := testutil.SetupTestDB(t)
	remote := gateway.NewGormGateway(db, nil, zap.NewNop())
	return repository.NewItemRepository(remote, testutil.SetupTestSnapshots(t), zap.NewNop())
}

func TestItemRepository_CreateAndFindByName(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Rice Bag", 550)
	require.NoError(t, err)
	assert.Equal(t, 550.0, created.Price)

	found, err := repo.FindByName("Rice Bag")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByName("Unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemRepository_Update(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Soap", 20)
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, created.ID, "Soap", 22))

	found, err := repo.FindByName("Soap")
	require.NoError(t, err)
	assert.Equal(t, 22.0, found.Price)
}

func TestItemRepository_Delete(t *testing.T) {
	repo := newItemRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "Soap", 20)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.Empty(t, repo.All())
}

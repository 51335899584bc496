package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/saravana-agencies/billing-sync/internal/cache"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/gateway"
	"go.uber.org/zap"
)

// ItemRepository owns the sellable-item collection. Items feed the
// invoice form's dropdowns; the display name is the lookup key.
type ItemRepository struct {
	remote    gateway.Remote
	snapshots *cache.Snapshots
	logger    *zap.Logger

	mu    sync.RWMutex
	items []domain.Item
}

func NewItemRepository(remote gateway.Remote, snapshots *cache.Snapshots, logger *zap.Logger) *ItemRepository {
	return &ItemRepository{
		remote:    remote,
		snapshots: snapshots,
		logger:    logger,
	}
}

// LoadFromCache seeds the collection from the last snapshot.
func (r *ItemRepository) LoadFromCache() {
	var items []domain.Item
	r.snapshots.Load(cache.KindItems, &items)

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
}

// Refresh replaces the collection with a full ordered read and writes
// through to the snapshot cache.
func (r *ItemRepository) Refresh(ctx context.Context) error {
	var items []domain.Item
	if err := r.remote.SelectAll(ctx, domain.TableItems, "name", &items); err != nil {
		return err
	}

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()

	r.saveSnapshot(items)
	return nil
}

// All returns a copy of the current collection.
func (r *ItemRepository) All() []domain.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Item, len(r.items))
	copy(out, r.items)
	return out
}

// FindByName looks an item up by display name. Returns
// domain.ErrNotFound when no loaded item matches.
func (r *ItemRepository) FindByName(name string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.items {
		if r.items[i].Name == name {
			item := r.items[i]
			return &item, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create persists a new item and appends it after remote confirmation.
func (r *ItemRepository) Create(ctx context.Context, name string, price float64) (*domain.Item, error) {
	item := &domain.Item{Name: name, Price: price}
	if err := r.remote.Insert(ctx, domain.TableItems, item); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.items = append(r.items, *item)
	snapshot := make([]domain.Item, len(r.items))
	copy(snapshot, r.items)
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
	return item, nil
}

// Update patches an item remotely, then in memory.
func (r *ItemRepository) Update(ctx context.Context, id uuid.UUID, name string, price float64) error {
	patch := map[string]interface{}{
		"name":  name,
		"price": price,
	}
	if err := r.remote.Update(ctx, domain.TableItems, id, patch); err != nil {
		return err
	}

	r.mu.Lock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Name = name
			r.items[i].Price = price
			break
		}
	}
	snapshot := make([]domain.Item, len(r.items))
	copy(snapshot, r.items)
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
	return nil
}

// Delete removes an item remotely, then from memory.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.remote.Delete(ctx, domain.TableItems, id); err != nil {
		return err
	}

	r.mu.Lock()
	kept := r.items[:0]
	for _, item := range r.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	r.items = kept
	snapshot := make([]domain.Item, len(r.items))
	copy(snapshot, r.items)
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
	return nil
}

func (r *ItemRepository) saveSnapshot(items []domain.Item) {
	if err := r.snapshots.Save(cache.KindItems, items); err != nil {
		r.logger.Warn("failed to save item snapshot", zap.Error(err))
	}
}

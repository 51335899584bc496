// Package repository holds the client-side entity repositories. Each
// repository owns one entity type's in-memory collection, refreshes it
// wholesale from the remote gateway, and writes through to both the
// gateway and the local snapshot cache. The remote store is the source
// of truth; memory and cache are projections of the last successful
// read.
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

// CustomerRepository owns the customer collection. Customers are looked
// up by mobile number, their business key.
type CustomerRepository struct {
	remote    gateway.Remote
	snapshots *cache.Snapshots
	logger    *zap.Logger

	mu        sync.RWMutex
	customers []domain.Customer
}

func NewCustomerRepository(remote gateway.Remote, snapshots *cache.Snapshots, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{
		remote:    remote,
		snapshots: snapshots,
		logger:    logger,
	}
}

// LoadFromCache seeds the collection from the last snapshot so the UI
// has something to render before the first remote round-trip.
func (r *CustomerRepository) LoadFromCache() {
	var customers []domain.Customer
	r.snapshots.Load(cache.KindCustomers, &customers)

	r.mu.Lock()
	r.customers = customers
	r.mu.Unlock()
}

// Refresh replaces the collection with a full ordered read from the
// remote store and writes the result through to the snapshot cache. A
// failed read leaves the previous collection untouched.
func (r *CustomerRepository) Refresh(ctx context.Context) error {
	var customers []domain.Customer
	if err := r.remote.SelectAll(ctx, domain.TableCustomers, "name", &customers); err != nil {
		return err
	}

	r.mu.Lock()
	r.customers = customers
	r.mu.Unlock()

	r.saveSnapshot(customers)
	return nil
}

// All returns a copy of the current collection.
func (r *CustomerRepository) All() []domain.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Customer, len(r.customers))
	copy(out, r.customers)
	return out
}

// FindByMobile looks a customer up by mobile number. Returns
// domain.ErrNotFound when no loaded customer matches; the caller must
// clear dependent fields rather than keep stale values.
func (r *CustomerRepository) FindByMobile(mobile string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.customers {
		if r.customers[i].Mobile == mobile {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Create persists a new customer and, after remote confirmation,
// appends it to the collection and snapshot.
func (r *CustomerRepository) Create(ctx context.Context, name, mobile, street string) (*domain.Customer, error) {
	customer := &domain.Customer{Name: name, Mobile: mobile, Street: street}
	if err := r.remote.Insert(ctx, domain.TableCustomers, customer); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.customers = append(r.customers, *customer)
	snapshot := make([]domain.Customer, len(r.customers))
	copy(snapshot, r.customers)
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
	return customer, nil
}

// Update patches a customer remotely, then in memory.
func (r *CustomerRepository) Update(ctx context.Context, id uuid.UUID, name, mobile, street string) error {
	patch := map[string]interface{}{
		"name":   name,
		"mobile": mobile,
		"street": street,
	}
	if err := r.remote.Update(ctx, domain.TableCustomers, id, patch); err != nil {
		return err
	}

	r.mu.Lock()
	for i := range r.customers {
		if r.customers[i].ID == id {
			r.customers[i].Name = name
			r.customers[i].Mobile = mobile
			r.customers[i].Street = street
			break
		}
	}
	snapshot := make([]domain.Customer, len(r.customers))
	copy(snapshot, r.customers)
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
	return nil
}

// Delete removes a customer remotely, then from memory.
func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.remote.Delete(ctx, domain.TableCustomers, id); err != nil {
		return err
	}

	r.mu.Lock()
	kept := r.customers[:0]
	for _, c := range r.customers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	r.customers = kept
	snapshot := make([]domain.Customer, len(r.customers))
	copy(snapshot, r.customers)
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
	return nil
}

func (r *CustomerRepository) saveSnapshot(customers []domain.Customer) {
	if err := r.snapshots.Save(cache.KindCustomers, customers); err != nil {
		r.logger.Warn("failed to save customer snapshot", zap.Error(err))
	}
}

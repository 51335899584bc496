package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/saravana-agencies/billing-sync/internal/cache"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/gateway"
	"go.uber.org/zap"
)

// StreetRepository owns the street-name collection. The working set is
// the union of explicit street rows and any street value carried on a
// customer; the union is reconciled once at startup.
type StreetRepository struct {
	remote    gateway.Remote
	snapshots *cache.Snapshots
	logger    *zap.Logger

	mu      sync.RWMutex
	streets []string
}

func NewStreetRepository(remote gateway.Remote, snapshots *cache.Snapshots, logger *zap.Logger) *StreetRepository {
	return &StreetRepository{
		remote:    remote,
		snapshots: snapshots,
		logger:    logger,
	}
}

// LoadFromCache seeds the collection from the last snapshot.
func (r *StreetRepository) LoadFromCache() {
	var streets []string
	r.snapshots.Load(cache.KindStreets, &streets)

	r.mu.Lock()
	r.streets = streets
	r.mu.Unlock()
}

// Refresh replaces the collection with a full ordered read, keeping
// only the names, and writes through to the snapshot cache.
func (r *StreetRepository) Refresh(ctx context.Context) error {
	var rows []domain.Street
	if err := r.remote.SelectAll(ctx, domain.TableStreets, "name", &rows); err != nil {
		return err
	}

	streets := make([]string, 0, len(rows))
	for _, row := range rows {
		streets = append(streets, row.Name)
	}

	r.mu.Lock()
	r.streets = streets
	r.mu.Unlock()

	r.saveSnapshot(streets)
	return nil
}

// All returns a copy of the current street names.
func (r *StreetRepository) All() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.streets))
	copy(out, r.streets)
	return out
}

// Contains reports whether name is already in the collection.
func (r *StreetRepository) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.streets {
		if s == name {
			return true
		}
	}
	return false
}

// Add persists a new street name. A duplicate is benign: the union
// semantics tolerate it, so a unique violation is swallowed and the
// collection left as-is. Any other remote failure is surfaced.
func (r *StreetRepository) Add(ctx context.Context, name string) error {
	street := &domain.Street{Name: name}
	if err := r.remote.Insert(ctx, domain.TableStreets, street); err != nil {
		if domain.IsUniqueViolation(err) {
			return nil
		}
		return err
	}

	r.mu.Lock()
	added := false
	if !containsLocked(r.streets, name) {
		r.streets = append(r.streets, name)
		added = true
	}
	snapshot := make([]string, len(r.streets))
	copy(snapshot, r.streets)
	r.mu.Unlock()

	if added {
		r.saveSnapshot(snapshot)
	}
	return nil
}

// MigrateFromCustomers unions the street values present on customers
// into the collection, de-duplicated and sorted. Runs once at startup,
// after the initial loads.
func (r *StreetRepository) MigrateFromCustomers(customers []domain.Customer) {
	r.mu.Lock()
	seen := make(map[string]bool, len(r.streets))
	for _, s := range r.streets {
		seen[s] = true
	}
	for _, c := range customers {
		if c.Street != "" && !seen[c.Street] {
			r.streets = append(r.streets, c.Street)
			seen[c.Street] = true
		}
	}
	sort.Strings(r.streets)
	snapshot := make([]string, len(r.streets))
	copy(snapshot, r.streets)
	r.mu.Unlock()

	r.saveSnapshot(snapshot)
}

func (r *StreetRepository) saveSnapshot(streets []string) {
	if err := r.snapshots.Save(cache.KindStreets, streets); err != nil {
		r.logger.Warn("failed to save street snapshot", zap.Error(err))
	}
}

func containsLocked(streets []string, name string) bool {
	for _, s := range streets {
		if s == name {
			return true
		}
	}
	return false
}

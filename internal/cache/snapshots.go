// Package cache is the local snapshot store: the last-known copy of
// each entity collection, used to render something immediately before
// the first remote round-trip completes. It is a disposable fallback,
// not a consistency mechanism: every successful remote read overwrites
// it wholesale and nothing ever expires.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"github.com/saravana-agencies/billing-sync/internal/config"
	"go.uber.org/zap"
)

// Snapshot kinds. One JSON file per kind under the snapshot directory.
const (
	KindCustomers = "customers"
	KindStreets   = "streets"
	KindItems     = "items"
	KindInvoices  = "invoices"
)

// legacyAliases maps a kind to older snapshot keys still readable from
// disk. The mobile variant historically saved streets as "streetNames".
var legacyAliases = map[string][]string{
	KindStreets: {"streetNames"},
}

// Snapshots is the process-local snapshot store: an in-memory layer in
// front of one JSON file per entity kind.
type Snapshots struct {
	dir    string
	mem    *gocache.Cache
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSnapshots creates the store, ensuring the snapshot directory
// exists. The in-memory layer never expires; last write wins.
func NewSnapshots(cfg *config.CacheConfig, logger *zap.Logger) (*Snapshots, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &Snapshots{
		dir:    cfg.Dir,
		mem:    gocache.New(gocache.NoExpiration, 0),
		logger: logger,
	}, nil
}

// Load reads the last-saved snapshot for kind into dest. A missing or
// unparseable snapshot leaves dest untouched; Load never fails, a bad
// snapshot just means a momentarily blank view.
func (s *Snapshots) Load(kind string, dest interface{}) {
	data, ok := s.read(kind)
	if !ok {
		for _, alias := range legacyAliases[kind] {
			if data, ok = s.read(alias); ok {
				break
			}
		}
	}
	if !ok {
		return
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("discarding unparseable snapshot",
			zap.String("kind", kind),
			zap.Error(err))
	}
}

// Save overwrites the snapshot for kind with the given collection.
func (s *Snapshots) Save(kind string, collection interface{}) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("failed to marshal %s snapshot: %w", kind, err)
	}

	s.mem.Set(kind, data, gocache.NoExpiration)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path(kind), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s snapshot: %w", kind, err)
	}
	return nil
}

func (s *Snapshots) read(kind string) ([]byte, bool) {
	if v, ok := s.mem.Get(kind); ok {
		return v.([]byte), true
	}

	data, err := os.ReadFile(s.path(kind))
	if err != nil {
		return nil, false
	}
	s.mem.Set(kind, data, gocache.NoExpiration)
	return data, true
}

func (s *Snapshots) path(kind string) string {
	return filepath.Join(s.dir, kind+".json")
}

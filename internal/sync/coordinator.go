// Package sync reacts to remote change notifications: every push for a
// table re-runs that table's full refresh and then tells dependent
// views to recompute. There is no debouncing, so a burst of N changes
// is N refreshes; refreshes are idempotent, so a race between the
// initial load and the first push at worst costs a redundant read.
package sync

import (
	"context"
	"sync"

	"github.com/saravana-agencies/billing-sync/internal/gateway"
	"go.uber.org/zap"
)

// Refresher is the slice of a repository the coordinator needs. A
// future incremental-patch strategy would slot in behind this same
// interface.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Listener is notified after a table's refresh completes, so dependent
// views (dropdowns, filters, the next invoice number) can recompute.
type Listener func(table string)

// Coordinator owns one change subscription per table.
type Coordinator struct {
	subscriber gateway.Subscriber
	logger     *zap.Logger

	mu         sync.Mutex
	refreshers map[string]Refresher
	listeners  []Listener
	stops      []func()
}

func NewCoordinator(subscriber gateway.Subscriber, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		subscriber: subscriber,
		logger:     logger,
		refreshers: make(map[string]Refresher),
	}
}

// Watch registers a table's refresher. Must be called before Start.
func (c *Coordinator) Watch(table string, refresher Refresher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshers[table] = refresher
}

// OnRefresh registers a listener invoked after every successful
// notification-driven refresh.
func (c *Coordinator) OnRefresh(listener Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, listener)
}

// Start opens the change subscriptions. Call after the initial full
// loads so the first notification finds a populated collection. A
// subscription that later drops is not reopened; live updates stop
// silently until the next process start, with the periodic resync job
// as the only backstop.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for table, refresher := range c.refreshers {
		table, refresher := table, refresher
		stop, err := c.subscriber.Subscribe(ctx, table, func(event gateway.ChangeEvent) {
			c.handleChange(ctx, table, refresher, event)
		})
		if err != nil {
			return err
		}
		c.stops = append(c.stops, stop)
	}

	c.logger.Info("live update coordinator started", zap.Int("tables", len(c.refreshers)))
	return nil
}

// Stop closes all subscriptions.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, stop := range c.stops {
		stop()
	}
	c.stops = nil
}

func (c *Coordinator) handleChange(ctx context.Context, table string, refresher Refresher, event gateway.ChangeEvent) {
	c.logger.Debug("change notification received",
		zap.String("table", table),
		zap.String("action", string(event.Action)))

	if err := refresher.Refresh(ctx); err != nil {
		// Push-driven refreshes have no user to notify; the previous
		// collection stays in place until the next notification or
		// resync succeeds.
		c.logger.Warn("refresh after change notification failed",
			zap.String("table", table),
			zap.Error(err))
		return
	}

	c.mu.Lock()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(table)
	}
}

// RefreshAll runs every registered table's refresh once. Used for the
// initial load and by the periodic resync job.
func (c *Coordinator) RefreshAll(ctx context.Context) error {
	c.mu.Lock()
	refreshers := make(map[string]Refresher, len(c.refreshers))
	for table, r := range c.refreshers {
		refreshers[table] = r
	}
	c.mu.Unlock()

	var firstErr error
	for table, refresher := range refreshers {
		if err := refresher.Refresh(ctx); err != nil {
			c.logger.Warn("table refresh failed",
				zap.String("table", table),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

package sync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saravana-agencies/billing-sync/internal/gateway"
	syncpkg "github.com/saravana-agencies/billing-sync/internal/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSubscriber hands delivered callbacks back to the test so events
// can be injected synchronously.
type fakeSubscriber struct {
	handlers map[string]func(gateway.ChangeEvent)
	stopped  []string
	err      error
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{handlers: make(map[string]func(gateway.ChangeEvent))}
}

func (s *fakeSubscriber) Subscribe(_ context.Context, table string, fn func(gateway.ChangeEvent)) (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	s.handlers[table] = fn
	return func() { s.stopped = append(s.stopped, table) }, nil
}

func (s *fakeSubscriber) emit(table string, action gateway.ChangeAction) {
	s.handlers[table](gateway.ChangeEvent{Table: table, Action: action})
}

// countingRefresher counts refreshes and optionally fails.
type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls++
	return r.err
}

func TestCoordinator_RefreshOnChange(t *testing.T) {
	sub := newFakeSubscriber()
	coord := syncpkg.NewCoordinator(sub, zap.NewNop())

	customers := &countingRefresher{}
	invoices := &countingRefresher{}
	coord.Watch("customers", customers)
	coord.Watch("invoices", invoices)

	require.NoError(t, coord.Start(context.Background()))

	sub.emit("customers", gateway.ChangeInsert)
	assert.Equal(t, 1, customers.calls)
	assert.Equal(t, 0, invoices.calls)

	sub.emit("customers", gateway.ChangeUpdate)
	sub.emit("invoices", gateway.ChangeDelete)
	assert.Equal(t, 2, customers.calls)
	assert.Equal(t, 1, invoices.calls)
}

func TestCoordinator_ListenersRunAfterSuccessfulRefresh(t *testing.T) {
	sub := newFakeSubscriber()
	coord := syncpkg.NewCoordinator(sub, zap.NewNop())

	coord.Watch("customers", &countingRefresher{})

	var notified []string
	coord.OnRefresh(func(table string) {
		notified = append(notified, table)
	})

	require.NoError(t, coord.Start(context.Background()))
	sub.emit("customers", gateway.ChangeInsert)

	assert.Equal(t, []string{"customers"}, notified)
}

func TestCoordinator_ListenersSkippedOnFailedRefresh(t *testing.T) {
	sub := newFakeSubscriber()
	coord := syncpkg.NewCoordinator(sub, zap.NewNop())

	coord.Watch("customers", &countingRefresher{err: errors.New("remote down")})

	notified := false
	coord.OnRefresh(func(string) { notified = true })

	require.NoError(t, coord.Start(context.Background()))
	sub.emit("customers", gateway.ChangeInsert)

	assert.False(t, notified)
}

func TestCoordinator_StartFailsWhenSubscribeFails(t *testing.T) {
	sub := newFakeSubscriber()
	sub.err = errors.New("connection refused")
	coord := syncpkg.NewCoordinator(sub, zap.NewNop())
	coord.Watch("customers", &countingRefresher{})

	assert.Error(t, coord.Start(context.Background()))
}

func TestCoordinator_StopClosesSubscriptions(t *testing.T) {
	sub := newFakeSubscriber()
	coord := syncpkg.NewCoordinator(sub, zap.NewNop())
	coord.Watch("customers", &countingRefresher{})
	coord.Watch("items", &countingRefresher{})

	require.NoError(t, coord.Start(context.Background()))
	coord.Stop()

	assert.Len(t, sub.stopped, 2)
}

func TestCoordinator_RefreshAll(t *testing.T) {
	coord := syncpkg.NewCoordinator(newFakeSubscriber(), zap.NewNop())

	ok := &countingRefresher{}
	failing := &countingRefresher{err: errors.New("remote down")}
	coord.Watch("customers", ok)
	coord.Watch("invoices", failing)

	err := coord.RefreshAll(context.Background())
	assert.Error(t, err)
	// Every table is still attempted
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, failing.calls)
}

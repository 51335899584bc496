package jobs_test

import (
	"context"
	"testing"

	"github.com/saravana-agencies/billing-sync/internal/config"
	"github.com/saravana-agencies/billing-sync/internal/gateway"
	"github.com/saravana-agencies/billing-sync/internal/jobs"
	syncpkg "github.com/saravana-agencies/billing-sync/internal/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopSubscriber struct{}

func (nopSubscriber) Subscribe(context.Context, string, func(gateway.ChangeEvent)) (func(), error) {
	return func() {}, nil
}

func TestScheduler_AddJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("resync", "@every 15m", func() {}))

	// Duplicate names are rejected
	err := s.AddJob("resync", "@every 15m", func() {})
	assert.Error(t, err)

	// Bad expressions are rejected
	err = s.AddJob("broken", "not a cron expr", func() {})
	assert.Error(t, err)
}

func TestResyncJob_Register(t *testing.T) {
	coordinator := syncpkg.NewCoordinator(nopSubscriber{}, zap.NewNop())

	t.Run("enabled", func(t *testing.T) {
		s := jobs.NewScheduler(zap.NewNop())
		job := jobs.NewResyncJob(coordinator, &config.ResyncConfig{Enabled: true, Interval: 900}, zap.NewNop())
		require.NoError(t, job.Register(s))

		// The slot is taken, proving the job was scheduled
		assert.Error(t, s.AddJob("full-resync", "@every 15m", func() {}))
	})

	t.Run("disabled registers nothing", func(t *testing.T) {
		s := jobs.NewScheduler(zap.NewNop())
		job := jobs.NewResyncJob(coordinator, &config.ResyncConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, job.Register(s))

		assert.NoError(t, s.AddJob("full-resync", "@every 15m", func() {}))
	})
}

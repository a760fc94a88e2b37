package services

import (
	"context"
	"time"

	"remote-admin-svc/app/clients"

	"github.com/rs/zerolog"
)

// DefaultRetention is how long delivered commands are kept before purge.
const DefaultRetention = 24 * time.Hour

// Sweeper periodically purges delivered commands past the retention window.
// Pending commands are never touched: a command no agent ever polls for stays
// queued until an operator intervenes. Sweep failures are logged and retried
// on the next cycle; they never affect request handling.
type Sweeper struct {
	storage   clients.StorageAdapter
	interval  time.Duration
	retention time.Duration
	logger    zerolog.Logger
}

// NewSweeper creates a queue sweeper.
func NewSweeper(storage clients.StorageAdapter, interval, retention time.Duration, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Sweeper{storage: storage, interval: interval, retention: retention, logger: logger}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single sweep cycle.
func (s *Sweeper) RunOnce(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)
	removed, err := s.storage.DeleteDeliveredBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error().Err(err).Msg("queue sweep failed")
		return
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("purged delivered commands")
	}
}

package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/woodtong/storefront/internal/api/metrics"
	"github.com/woodtong/storefront/internal/core/ports"
)

const defaultInterval = time.Hour

// Sweeper periodically purges expired sessions. Validation already deletes
// expired rows eagerly when they are looked up; the sweeper catches sessions
// nobody queries anymore. It only ever deletes rows whose expiry has passed,
// so it cannot race with live validation over a still-valid session.
type Sweeper struct {
	sessions ports.SessionService
	interval time.Duration
	log      zerolog.Logger
}

// New creates a Sweeper running every interval. If interval <= 0,
// defaultInterval is used.
func New(sessions ports.SessionService, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{sessions: sessions, interval: interval, log: log}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	count, err := s.sessions.PurgeExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("expired session purge failed")
		return
	}
	if count > 0 {
		s.log.Info().Int64("purged", count).Msg("expired sessions removed")
	}
	metrics.SessionsPurgedTotal.Add(float64(count))
}

package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/api/metrics"
	"github.com/dsDomingossobrinho/Automo-Backend-sub004/internal/core/ports"
)

const (
	defaultInterval = 10 * time.Minute
	defaultMargin   = time.Minute
)

// Sweeper periodically deletes one-time codes that expired more than a safety
// margin ago. Pure garbage collection: correctness never depends on it, and
// the margin keeps it clear of in-flight verifications near the expiry
// boundary.
type Sweeper struct {
	repo     ports.OtpRepository
	interval time.Duration
	margin   time.Duration
	log      zerolog.Logger
}

// NewSweeper creates a Sweeper. Non-positive interval or margin fall back to
// defaults.
func NewSweeper(repo ports.OtpRepository, interval, margin time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	if margin <= 0 {
		margin = defaultMargin
	}
	return &Sweeper{repo: repo, interval: interval, margin: margin, log: log}
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
			s.log.Info().Msg("otp sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.margin)
	deleted, err := s.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("otp sweep failed")
		return
	}
	if deleted > 0 {
		metrics.OtpSweptTotal.Add(float64(deleted))
		s.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("expired otp records swept")
	}
}

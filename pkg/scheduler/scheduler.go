// Package scheduler fires reconciliation passes at a fixed wall-clock
// interval, independent of watcher activity. A tick arriving while a
// pass is already in flight is coalesced into a no-op for that
// interval; ticks are never accumulated.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotsync/pkg/logging"
)

// Scheduler runs a trigger on a fixed interval.
type Scheduler struct {
	interval time.Duration

	// tryTrigger attempts one pass and reports false when a pass was
	// already in flight and the tick was coalesced.
	tryTrigger func(ctx context.Context) bool

	logger zerolog.Logger
}

// New creates a scheduler firing every interval.
func New(interval time.Duration, tryTrigger func(ctx context.Context) bool) *Scheduler {
	return &Scheduler{
		interval:   interval,
		tryTrigger: tryTrigger,
		logger:     logging.GetLogger("scheduler"),
	}
}

// Run ticks until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("Scheduler started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !s.tryTrigger(ctx) {
				s.logger.Debug().Msg("Pass in flight, tick coalesced")
			}
		}
	}
}

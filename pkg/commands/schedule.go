package commands

import (
	"context"
	"time"

	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/scheduler"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// ScheduleOptions defines the options for the Schedule command.
type ScheduleOptions struct {
	Profile string

	// Interval between passes. Zero falls back to the configured
	// sync_interval.
	Interval time.Duration

	// OnReport receives the result of every completed pass.
	OnReport func(*types.Report)
}

// Schedule runs a reconciliation pass at a fixed interval until the
// context is canceled. Ticks firing while a pass is in flight are
// coalesced, never queued.
func Schedule(ctx context.Context, opts ScheduleOptions) error {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Schedule").Msg("Executing command")

	e, err := loadEnv()
	if err != nil {
		return err
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Duration(e.cfg.SyncInterval) * time.Second
	}
	s := e.newSyncer(opts.Profile, false)

	sched := scheduler.New(interval, func(ctx context.Context) bool {
		report, ok, err := s.TryRun(ctx)
		if !ok {
			return false
		}
		if err != nil {
			log.Error().Err(err).Msg("Scheduled pass failed")
			return true
		}
		if opts.OnReport != nil {
			opts.OnReport(report)
		}
		return true
	})
	return sched.Run(ctx)
}

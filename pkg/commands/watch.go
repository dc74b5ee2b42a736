package commands

import (
	"context"
	"time"

	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/arthur-debert/dotsync/pkg/watcher"
)

// WatchOptions defines the options for the Watch command.
type WatchOptions struct {
	Profile  string
	Debounce time.Duration

	// OnReport receives the result of every triggered pass.
	OnReport func(*types.Report)
}

// Watch subscribes to change notifications on the active profile's
// local paths and the repository working copy and runs a
// reconciliation pass whenever a change burst settles. It blocks until
// the context is canceled.
func Watch(ctx context.Context, opts WatchOptions) error {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Watch").Msg("Executing command")

	e, err := loadEnv()
	if err != nil {
		return err
	}
	name, err := e.resolveProfile(opts.Profile)
	if err != nil {
		return err
	}
	prof, err := e.cfg.Profile(name)
	if err != nil {
		return err
	}
	s := e.newSyncer(name, false)

	w, err := watcher.New(watcher.Options{
		Files:    prof.LocalPaths(),
		Dirs:     []string{e.paths.RepoDir()},
		Debounce: opts.Debounce,
		Trigger: func(ctx context.Context) {
			report, err := s.Run(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Pass failed")
				return
			}
			if opts.OnReport != nil {
				opts.OnReport(report)
			}
		},
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	return w.Run(ctx)
}

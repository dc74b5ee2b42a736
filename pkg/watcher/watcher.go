// Package watcher triggers reconciliation passes from filesystem
// change notifications. A small explicit state machine (armed ->
// debouncing -> triggering -> armed) debounces event bursts so N
// events within the window produce exactly one pass, with a ceiling
// bounding worst-case latency under sustained churn.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/logging"
)

// Default debounce tuning.
const (
	DefaultDebounce = 500 * time.Millisecond

	// DefaultMaxDebounce bounds how long rapid event churn can delay a
	// pass: the window resets per event but never past this ceiling.
	DefaultMaxDebounce = 5 * time.Second
)

type machineState int

const (
	stateArmed machineState = iota
	stateDebouncing
)

// Options configures a Watcher.
type Options struct {
	// Files are the exact local paths to react to. Their parent
	// directories are registered with fsnotify; events for unrelated
	// siblings are filtered out.
	Files []string

	// Dirs are directories to react to as a whole, typically the
	// repository working copy.
	Dirs []string

	// Debounce is the quiet window after the last event before a pass
	// triggers. Zero means DefaultDebounce.
	Debounce time.Duration

	// MaxDebounce is the ceiling on total debounce delay. Zero means
	// DefaultMaxDebounce.
	MaxDebounce time.Duration

	// Trigger runs one reconciliation pass. It is invoked
	// synchronously, so passes never run concurrently with each other;
	// events arriving during a pass start a fresh debounce cycle after
	// it completes.
	Trigger func(ctx context.Context)
}

// Watcher subscribes to change notifications for the mapped paths and
// the repository working copy and funnels them into reconciliation
// triggers.
type Watcher struct {
	opts   Options
	fsw    *fsnotify.Watcher
	files  map[string]struct{}
	dirs   []string
	logger zerolog.Logger
}

// New creates a watcher subscribed to all the given paths.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MaxDebounce <= 0 {
		opts.MaxDebounce = DefaultMaxDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create filesystem watcher")
	}

	w := &Watcher{
		opts:   opts,
		fsw:    fsw,
		files:  make(map[string]struct{}, len(opts.Files)),
		logger: logging.GetLogger("watcher"),
	}

	watched := make(map[string]struct{})
	add := func(dir string) error {
		if _, ok := watched[dir]; ok {
			return nil
		}
		if err := fsw.Add(dir); err != nil {
			return err
		}
		watched[dir] = struct{}{}
		return nil
	}

	for _, f := range opts.Files {
		clean := filepath.Clean(f)
		w.files[clean] = struct{}{}
		// Watch the parent: editors replace files by rename, which
		// drops a watch registered on the file itself.
		if err := add(filepath.Dir(clean)); err != nil {
			w.logger.Warn().Err(err).Str("path", clean).Msg("Cannot watch mapped path")
		}
	}
	for _, d := range opts.Dirs {
		clean := filepath.Clean(d)
		w.dirs = append(w.dirs, clean)
		if err := add(clean); err != nil {
			w.logger.Warn().Err(err).Str("dir", clean).Msg("Cannot watch directory")
		}
	}

	return w, nil
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run drives the state machine until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	state := stateArmed

	debounce := time.NewTimer(w.opts.Debounce)
	stopTimer(debounce)
	ceiling := time.NewTimer(w.opts.MaxDebounce)
	stopTimer(ceiling)

	fire := func() {
		stopTimer(debounce)
		stopTimer(ceiling)
		w.logger.Info().Msg("Change burst settled, triggering pass")
		w.opts.Trigger(ctx)
		state = stateArmed
	}

	w.logger.Info().
		Int("files", len(w.files)).
		Int("dirs", len(w.dirs)).
		Dur("debounce", w.opts.Debounce).
		Msg("Watching for changes")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("Change detected")
			if state == stateArmed {
				state = stateDebouncing
				debounce.Reset(w.opts.Debounce)
				ceiling.Reset(w.opts.MaxDebounce)
			} else {
				// Every event during the window resets it; the ceiling
				// keeps running so the window cannot extend forever.
				stopTimer(debounce)
				debounce.Reset(w.opts.Debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Watch error")

		case <-debounce.C:
			fire()

		case <-ceiling.C:
			fire()
		}
	}
}

// relevant filters out events for unrelated siblings in watched parent
// directories. Chmod-only events are ignored: they carry no content
// change.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	if _, ok := w.files[name]; ok {
		return true
	}
	for _, dir := range w.dirs {
		if name == dir || strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

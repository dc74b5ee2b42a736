// Package syncer coordinates reconciliation passes. It owns the single
// coordination point all trigger sources share: manual invocation, the
// change watcher and the scheduler all funnel into the same pipeline,
// and exactly one pass (selection -> classification -> execution) is
// in flight at any time.
package syncer

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/executor"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/profiles"
	"github.com/arthur-debert/dotsync/pkg/reconcile"
	"github.com/arthur-debert/dotsync/pkg/state"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// Options configures a Syncer.
type Options struct {
	Config    *config.Config
	Transport types.Transport

	// BackupDir is where backup records are written.
	BackupDir string

	// StateFile holds the last-known-synced checksums.
	StateFile string

	// Profile forces a profile instead of rule-based detection.
	Profile string

	// FS defaults to the OS filesystem.
	FS types.FS

	DryRun bool
}

// Syncer drives reconciliation passes.
type Syncer struct {
	cfg       *config.Config
	transport types.Transport
	fs        types.FS
	backupDir string
	stateFile string
	profile   string
	dryRun    bool
	logger    zerolog.Logger

	// mu is the single-flight gate shared by every trigger source.
	mu sync.Mutex
}

// New creates a Syncer.
func New(opts Options) *Syncer {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Syncer{
		cfg:       opts.Config,
		transport: opts.Transport,
		fs:        fsys,
		backupDir: opts.BackupDir,
		stateFile: opts.StateFile,
		profile:   opts.Profile,
		dryRun:    opts.DryRun,
		logger:    logging.GetLogger("syncer"),
	}
}

// Run executes one reconciliation pass, waiting for any in-flight pass
// to finish first. Used by manual sync and the change watcher.
func (s *Syncer) Run(ctx context.Context) (*types.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pass(ctx)
}

// TryRun executes one pass unless another is already in flight, in
// which case the trigger is coalesced and ok is false. Used by the
// scheduler so ticks are never queued.
func (s *Syncer) TryRun(ctx context.Context) (report *types.Report, ok bool, err error) {
	if !s.mu.TryLock() {
		return nil, false, nil
	}
	defer s.mu.Unlock()
	report, err = s.pass(ctx)
	return report, true, err
}

// ActiveProfile resolves the profile a pass would run with.
func (s *Syncer) ActiveProfile() (string, error) {
	if s.profile != "" {
		return s.profile, nil
	}
	var rules []types.DetectionRule
	if s.cfg.Detection != nil {
		rules = s.cfg.Rules()
	}
	return profiles.Select(rules, s.cfg.DefaultProfile, profiles.CurrentFacts())
}

// Plan runs selection and classification only, without executing or
// pushing. When pull is true the working copy is refreshed first.
func (s *Syncer) Plan(ctx context.Context, pull bool) (*types.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, store, err := s.prepare(ctx, pull)
	if err != nil {
		return nil, err
	}
	engine := reconcile.New(s.transport.WorkTree())
	local := reconcile.TakeLocalSnapshot(s.fs, prof)
	remote := reconcile.TakeRemoteSnapshot(s.fs, s.transport.WorkTree(), prof)
	return engine.Reconcile(prof, local, remote, store.Get(prof.Name)), nil
}

// pass is one full cycle: select -> pull -> snapshot -> classify ->
// execute -> push -> persist checksums. Fatal configuration errors and
// pull failures abort before any filesystem mutation; push failures
// are reported on the result while applied local outcomes stand.
func (s *Syncer) pass(ctx context.Context) (*types.Report, error) {
	prof, store, err := s.prepare(ctx, true)
	if err != nil {
		return nil, err
	}

	worktree := s.transport.WorkTree()
	lastSynced := store.Get(prof.Name)
	local := reconcile.TakeLocalSnapshot(s.fs, prof)
	remote := reconcile.TakeRemoteSnapshot(s.fs, worktree, prof)

	engine := reconcile.New(worktree)
	plan := engine.Reconcile(prof, local, remote, lastSynced)

	exec := executor.New(executor.Options{
		FS:        s.fs,
		RepoRoot:  worktree,
		BackupDir: s.backupDir,
		DryRun:    s.dryRun,
	})
	report := exec.Apply(ctx, plan)

	if s.dryRun {
		return report, nil
	}

	s.recordCheckpoints(store, prof.Name, report, local, remote)
	if err := store.Save(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist sync state")
	}

	if pushNeeded(report) {
		msg := fmt.Sprintf("Sync dotfiles (%s)", prof.Name)
		if err := s.transport.Push(ctx, msg); err != nil {
			report.PushErr = err
		}
	}

	applied, skipped, failed, conflicted := report.Counts()
	s.logger.Info().
		Str("profile", prof.Name).
		Int("applied", applied).
		Int("skipped", skipped).
		Int("failed", failed).
		Int("conflicted", conflicted).
		Msg("Pass complete")
	return report, nil
}

// prepare resolves the active profile, refreshes the working copy and
// loads the checksum state.
func (s *Syncer) prepare(ctx context.Context, pull bool) (*types.Profile, *state.Store, error) {
	name, err := s.ActiveProfile()
	if err != nil {
		return nil, nil, err
	}
	prof, err := s.cfg.Profile(name)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug().Str("profile", name).Msg("Profile selected")

	if pull {
		if err := s.transport.Pull(ctx); err != nil {
			return nil, nil, err
		}
	}

	store := state.NewStore(s.fs, s.stateFile)
	if err := store.Load(); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrStateLoad, "failed to load sync state")
	}
	return prof, store, nil
}

// recordCheckpoints updates the last-known-synced checksums from the
// pass outcomes: the winning side's content becomes the new checkpoint.
func (s *Syncer) recordCheckpoints(store *state.Store, profile string, report *types.Report, local, remote types.Snapshot) {
	for _, o := range report.Outcomes {
		key := o.Mapping.Key
		switch {
		case o.Status == types.OutcomeApplied && o.Action == types.ActionMaterializeFromRemote:
			store.Set(profile, key, remote[key].Checksum)
		case o.Status == types.OutcomeApplied && o.Action == types.ActionMaterializeToRemote:
			store.Set(profile, key, local[key].Checksum)
		case o.Status == types.OutcomeApplied && o.Action == types.ActionDeleteLocal:
			store.Delete(profile, key)
		case o.Status == types.OutcomeSkipped && o.State == types.StateInSync:
			store.Set(profile, key, local[key].Checksum)
		}
	}
}

func pushNeeded(report *types.Report) bool {
	for _, o := range report.Outcomes {
		if o.Status == types.OutcomeApplied && o.Action == types.ActionMaterializeToRemote {
			return true
		}
	}
	return false
}

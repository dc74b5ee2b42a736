// Package executor applies reconciliation plans to the filesystem. It
// executes action by action, continuing past individual failures: no
// single bad file aborts a pass. Every destructive overwrite of an
// existing local file is preceded by a backup, and a failed backup
// skips the wrapped action rather than proceeding without one.
package executor

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// Options contains configuration for the executor
type Options struct {
	// FS is the filesystem operations interface, swappable for testing
	FS types.FS

	// RepoRoot is the repository working copy root
	RepoRoot string

	// BackupDir is the append-only directory backups are written to
	BackupDir string

	// DryRun reports what would happen without mutating anything
	DryRun bool
}

// Executor applies plans produced by the reconciliation engine.
type Executor struct {
	fs        types.FS
	repoRoot  string
	backupDir string
	dryRun    bool
	logger    zerolog.Logger
}

// New creates a new executor instance
func New(opts Options) *Executor {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	return &Executor{
		fs:        fsys,
		repoRoot:  opts.RepoRoot,
		backupDir: opts.BackupDir,
		dryRun:    opts.DryRun,
		logger:    logging.GetLogger("executor"),
	}
}

// Apply executes a plan and returns the per-mapping report. Side
// effects are confined to the mapped paths, the repository working
// copy and the backup directory.
func (e *Executor) Apply(ctx context.Context, plan *types.Plan) *types.Report {
	report := &types.Report{Profile: plan.Profile}
	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			report.Outcomes = append(report.Outcomes, types.MappingOutcome{
				Mapping: action.Mapping,
				State:   action.State,
				Action:  action.Kind,
				Status:  types.OutcomeSkipped,
				Reason:  "pass canceled",
			})
			continue
		}
		report.Outcomes = append(report.Outcomes, e.apply(action, plan.LinkMode))
	}
	return report
}

func (e *Executor) apply(action types.PlannedAction, mode types.LinkMode) types.MappingOutcome {
	start := time.Now()
	outcome := types.MappingOutcome{
		Mapping: action.Mapping,
		State:   action.State,
		Action:  action.Kind,
		Reason:  action.Reason,
	}

	e.logger.Debug().
		Str("mapping", action.Mapping.Key).
		Str("action", string(action.Kind)).
		Bool("dry_run", e.dryRun).
		Msg("Executing action")

	switch action.Kind {
	case types.ActionNoOp:
		outcome.Status = types.OutcomeSkipped
		if outcome.Reason == "" {
			outcome.Reason = "nothing to do"
		}

	case types.ActionReportConflict:
		// Never auto-resolved: surfaced distinctly so the caller can
		// decide which side wins.
		outcome.Status = types.OutcomeConflict

	default:
		if e.dryRun {
			outcome.Status = types.OutcomeSkipped
			outcome.Reason = "dry run - no changes made"
			break
		}
		e.mutate(action, mode, &outcome)
	}

	outcome.Duration = time.Since(start)
	if outcome.Status == types.OutcomeFailed {
		e.logger.Error().Err(outcome.Err).Str("mapping", action.Mapping.Key).Msg("Action failed")
	} else {
		e.logger.Info().
			Str("mapping", action.Mapping.Key).
			Str("status", string(outcome.Status)).
			Dur("duration", outcome.Duration).
			Msg("Action finished")
	}
	return outcome
}

func (e *Executor) mutate(action types.PlannedAction, mode types.LinkMode, outcome *types.MappingOutcome) {
	m := action.Mapping
	repoPath := filepath.Join(e.repoRoot, m.RepoPath)

	if action.Backup {
		record, err := e.backup(m.LocalPath)
		if err != nil {
			// Backups are a correctness precondition for destructive
			// writes, never best-effort: skip the wrapped action.
			outcome.Status = types.OutcomeFailed
			outcome.Err = errors.Wrapf(err, errors.ErrFileBackup, "backup failed for %s, action skipped", m.LocalPath)
			return
		}
		outcome.Backup = record
	}

	var err error
	switch action.Kind {
	case types.ActionMaterializeFromRemote:
		if mode == types.LinkModeSymlink {
			err = e.link(repoPath, m.LocalPath)
		} else {
			err = e.copyFile(repoPath, m.LocalPath)
		}
	case types.ActionMaterializeToRemote:
		err = e.copyFile(m.LocalPath, repoPath)
	case types.ActionDeleteLocal:
		if rerr := e.fs.Remove(m.LocalPath); rerr != nil {
			err = errors.Wrapf(rerr, errors.ErrFileDelete, "failed to remove %s", m.LocalPath)
		}
	default:
		err = errors.Newf(errors.ErrInternal, "unknown action kind %q", action.Kind)
	}

	if err != nil {
		outcome.Status = types.OutcomeFailed
		outcome.Err = err
		return
	}
	outcome.Status = types.OutcomeApplied
}

// copyFile copies src to dst, creating parent directories and carrying
// the source permissions over.
func (e *Executor) copyFile(src, dst string) error {
	content, err := e.fs.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", src)
	}
	info, err := e.fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "failed to stat %s", src)
	}
	if err := e.fs.MkdirAll(filepath.Dir(dst), fs.FileMode(0755)); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent directory for %s", dst)
	}
	if err := e.fs.WriteFile(dst, content, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", dst)
	}
	// WriteFile perm only applies on create; propagate mode changes to
	// files that already existed.
	if err := e.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to set permissions on %s", dst)
	}
	return nil
}

// link replaces dst with a symlink pointing at target.
func (e *Executor) link(target, dst string) error {
	if err := e.fs.MkdirAll(filepath.Dir(dst), fs.FileMode(0755)); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent directory for %s", dst)
	}
	if _, err := e.fs.Lstat(dst); err == nil {
		if err := e.fs.Remove(dst); err != nil {
			return errors.Wrapf(err, errors.ErrFileDelete, "failed to remove existing %s", dst)
		}
	}
	if err := e.fs.Symlink(target, dst); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s -> %s", dst, target)
	}
	return nil
}

// backup writes a timestamped full copy of path into the backup
// directory and returns its record. Backups are taken strictly before
// the overwrite is observable.
func (e *Executor) backup(path string) (*types.BackupRecord, error) {
	content, err := e.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := e.fs.Lstat(path)
	if err != nil {
		return nil, err
	}
	if err := e.fs.MkdirAll(e.backupDir, fs.FileMode(0755)); err != nil {
		return nil, err
	}

	now := time.Now()
	backupPath := filepath.Join(e.backupDir, fmt.Sprintf("%s.%d.bak", filepath.Base(path), now.UnixNano()))
	if err := e.fs.WriteFile(backupPath, content, info.Mode().Perm()); err != nil {
		return nil, err
	}

	e.logger.Info().Str("original", path).Str("backup", backupPath).Msg("Created backup")
	return &types.BackupRecord{
		Original:   path,
		BackupPath: backupPath,
		Timestamp:  now,
	}, nil
}

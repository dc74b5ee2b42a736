// Package reconcile implements the reconciliation engine: it compares
// local filesystem state against the repository working copy for the
// active profile's mappings and produces an ordered plan of filesystem
// actions. Classification is a pure function of the two snapshots and
// the last-known-synced checksums; it performs no I/O itself.
package reconcile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// Engine classifies mappings and produces reconciliation plans.
type Engine struct {
	repoRoot string
	logger   zerolog.Logger
}

// New creates an engine for the repository working copy at repoRoot.
func New(repoRoot string) *Engine {
	return &Engine{
		repoRoot: repoRoot,
		logger:   logging.GetLogger("reconcile"),
	}
}

// Reconcile produces the plan for one pass. Actions are ordered by
// mapping declaration order, giving deterministic, reproducible
// execution order. lastSynced maps mapping keys to the checksum
// recorded when each mapping was last known to be in sync.
func (e *Engine) Reconcile(profile *types.Profile, local, remote types.Snapshot, lastSynced map[string]string) *types.Plan {
	plan := &types.Plan{Profile: profile.Name, LinkMode: profile.LinkMode}
	for _, m := range profile.Mappings {
		action := e.classify(profile, m, local[m.Key], remote[m.Key], lastSynced)
		e.logger.Debug().
			Str("mapping", m.Key).
			Str("state", string(action.State)).
			Str("action", string(action.Kind)).
			Bool("backup", action.Backup).
			Msg("Classified mapping")
		plan.Actions = append(plan.Actions, action)
	}
	return plan
}

func (e *Engine) classify(profile *types.Profile, m types.FileMapping, local, remote types.FileSnapshot, lastSynced map[string]string) types.PlannedAction {
	action := types.PlannedAction{Mapping: m}

	if pattern, ok := matchIgnore(profile.IgnorePatterns, m.Key); ok {
		action.State = types.StateIgnored
		action.Kind = types.ActionNoOp
		action.Reason = fmt.Sprintf("matches ignore pattern %q", pattern)
		return action
	}

	repoAbs := filepath.Join(e.repoRoot, m.RepoPath)
	symlinkMode := profile.LinkMode == types.LinkModeSymlink
	linked := symlinkMode && local.Exists && local.LinkTarget == repoAbs

	switch {
	case !local.Exists && !remote.Exists:
		action.State = types.StateMissingBoth
		action.Kind = types.ActionNoOp
		action.Reason = "missing on both sides"

	case !local.Exists:
		action.State = types.StateRemoteOnly
		action.Kind = types.ActionMaterializeFromRemote

	case !remote.Exists:
		if symlinkMode && local.LinkTarget != "" && strings.HasPrefix(local.LinkTarget, e.repoRoot+string(filepath.Separator)) {
			// Dangling link into the repository: the tracked copy is
			// gone, so the link is stale.
			action.State = types.StateLocalOnly
			action.Kind = types.ActionDeleteLocal
			action.Reason = "stale link to removed repository copy"
		} else {
			action.State = types.StateLocalOnly
			action.Kind = types.ActionMaterializeToRemote
		}

	case linked:
		action.State = types.StateInSync
		action.Kind = types.ActionNoOp

	case symlinkMode && local.Checksum == remote.Checksum:
		// Content matches but the local side is a plain file, not a
		// link. Re-materialize as a link, preserving the old copy.
		action.State = types.StateRemoteNewer
		action.Kind = types.ActionMaterializeFromRemote
		action.Backup = true
		action.Reason = "converting local copy to symlink"

	case !symlinkMode && local.Checksum == remote.Checksum:
		action.State = types.StateInSync
		action.Kind = types.ActionNoOp

	default:
		action = e.classifyDiverged(m, local, remote, lastSynced)
	}
	return action
}

// classifyDiverged handles the both-present-and-different cases, where
// the last-known-synced checksum decides which side wins. When both
// sides differ from it, or when no checksum was ever recorded, the
// mapping is a conflict: the system never silently picks a side.
func (e *Engine) classifyDiverged(m types.FileMapping, local, remote types.FileSnapshot, lastSynced map[string]string) types.PlannedAction {
	action := types.PlannedAction{Mapping: m}

	last, known := lastSynced[m.Key]
	localChanged := !known || local.Checksum != last
	remoteChanged := !known || remote.Checksum != last

	switch {
	case localChanged && remoteChanged:
		action.State = types.StateConflict
		action.Kind = types.ActionReportConflict
		if known {
			action.Reason = "both sides changed since last sync"
		} else {
			action.Reason = "both sides differ and no prior sync is recorded"
		}

	case localChanged:
		action.State = types.StateLocalNewer
		action.Kind = types.ActionMaterializeToRemote
		action.Reason = "local side changed since last sync"

	case remoteChanged:
		action.State = types.StateRemoteNewer
		action.Kind = types.ActionMaterializeFromRemote
		// Overwriting an existing local file with different content
		// always goes through backup-then-overwrite.
		action.Backup = true
		action.Reason = "remote side changed since last sync"

	default:
		// Both checksums equal the recorded one yet differ from each
		// other; cannot happen with a consistent snapshot, but a
		// racing writer could produce it. Treat as conflict.
		action.State = types.StateConflict
		action.Kind = types.ActionReportConflict
		action.Reason = "inconsistent snapshot"
	}
	return action
}

// matchIgnore reports the first ignore pattern the key matches.
// Patterns containing glob metacharacters match against the key and
// its base name; plain patterns match as path substrings, so ".git"
// ignores anything under a .git directory.
func matchIgnore(patterns []string, key string) (string, bool) {
	base := filepath.Base(key)
	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[") {
			if ok, _ := filepath.Match(pattern, key); ok {
				return pattern, true
			}
			if ok, _ := filepath.Match(pattern, base); ok {
				return pattern, true
			}
			continue
		}
		if strings.Contains(key, pattern) {
			return pattern, true
		}
	}
	return "", false
}

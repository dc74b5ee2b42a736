package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotsync/pkg/diff"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// SyncOptions defines the options for the Sync command.
type SyncOptions struct {
	Profile string
	DryRun  bool

	// ShowDiff renders per-mapping line diffs for everything the pass
	// is about to change.
	ShowDiff bool
}

// SyncResult is one pass result plus any rendered diffs, keyed by
// mapping key.
type SyncResult struct {
	Report *types.Report
	Diffs  map[string]string
}

// Sync runs one manual reconciliation pass.
func Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Sync").Bool("dry_run", opts.DryRun).Msg("Executing command")

	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	s := e.newSyncer(opts.Profile, opts.DryRun)

	result := &SyncResult{}
	if opts.ShowDiff {
		plan, err := s.Plan(ctx, true)
		if err != nil {
			return nil, err
		}
		result.Diffs = renderDiffs(plan, e.paths.RepoDir())
	}

	report, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}
	result.Report = report
	return result, nil
}

// renderDiffs produces local-vs-repository diffs for the plan's
// mutating and conflicted actions. Unreadable sides are skipped; the
// executor reports those failures properly.
func renderDiffs(plan *types.Plan, repoRoot string) map[string]string {
	diffs := make(map[string]string)
	for _, a := range plan.Actions {
		switch a.Kind {
		case types.ActionMaterializeFromRemote, types.ActionMaterializeToRemote, types.ActionReportConflict:
		default:
			continue
		}
		local, err := os.ReadFile(a.Mapping.LocalPath)
		if err != nil {
			continue
		}
		remote, err := os.ReadFile(filepath.Join(repoRoot, a.Mapping.RepoPath))
		if err != nil {
			continue
		}
		if rendered := diff.Render(string(local), string(remote)); rendered != "" {
			diffs[a.Mapping.Key] = rendered
		}
	}
	return diffs
}

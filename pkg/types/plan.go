package types

// FileState classifies one mapping's local file against its repository
// copy. It is derived fresh at the start of every reconciliation pass
// and never cached across passes.
type FileState string

const (
	StateInSync      FileState = "in-sync"
	StateLocalNewer  FileState = "local-newer"
	StateRemoteNewer FileState = "remote-newer"
	StateLocalOnly   FileState = "local-only"
	StateRemoteOnly  FileState = "remote-only"
	StateMissingBoth FileState = "missing-both"
	StateConflict    FileState = "conflict"
	StateIgnored     FileState = "ignored"
)

// ActionKind is the kind of filesystem action planned for one mapping.
type ActionKind string

const (
	// ActionNoOp means the mapping requires no change.
	ActionNoOp ActionKind = "no-op"

	// ActionMaterializeFromRemote copies (or, in symlink mode, links)
	// the repository copy to the local path.
	ActionMaterializeFromRemote ActionKind = "materialize-from-remote"

	// ActionMaterializeToRemote copies the local file into the
	// repository working copy.
	ActionMaterializeToRemote ActionKind = "materialize-to-remote"

	// ActionDeleteLocal removes a stale local link whose repository
	// copy no longer exists.
	ActionDeleteLocal ActionKind = "delete-local"

	// ActionReportConflict surfaces a both-sides-changed mapping. The
	// executor never mutates a conflicted mapping.
	ActionReportConflict ActionKind = "report-conflict"
)

// PlannedAction is one entry of a reconciliation plan: the mapping, the
// state it was classified into and the action that follows from it.
type PlannedAction struct {
	Mapping FileMapping
	State   FileState
	Kind    ActionKind

	// Backup wraps the action in backup-then-overwrite: the executor
	// must write a BackupRecord of the existing local file strictly
	// before the overwrite. This is a policy flag, not a separate
	// classification outcome.
	Backup bool

	// Reason is a short human-readable note (ignore pattern hit, which
	// side changed, ...).
	Reason string
}

// Plan is the ordered sequence of actions for one reconciliation pass,
// one per mapping in declaration order. It is produced once per pass,
// consumed immediately and never persisted.
type Plan struct {
	Profile  string
	LinkMode LinkMode
	Actions  []PlannedAction
}

// HasWork reports whether any action in the plan mutates anything.
func (p *Plan) HasWork() bool {
	for _, a := range p.Actions {
		switch a.Kind {
		case ActionMaterializeFromRemote, ActionMaterializeToRemote, ActionDeleteLocal:
			return true
		}
	}
	return false
}

// Conflicts returns the actions classified as conflicts.
func (p *Plan) Conflicts() []PlannedAction {
	var out []PlannedAction
	for _, a := range p.Actions {
		if a.Kind == ActionReportConflict {
			out = append(out, a)
		}
	}
	return out
}

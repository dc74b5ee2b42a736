package types

import "time"

// OutcomeStatus is the result of executing one planned action.
type OutcomeStatus string

const (
	OutcomeApplied  OutcomeStatus = "applied"
	OutcomeSkipped  OutcomeStatus = "skipped"
	OutcomeFailed   OutcomeStatus = "failed"
	OutcomeConflict OutcomeStatus = "conflict"
)

// BackupRecord describes one backup taken immediately before a
// destructive overwrite. Records are append-only; pruning is a caller
// concern.
type BackupRecord struct {
	Original   string
	BackupPath string
	Timestamp  time.Time
}

// MappingOutcome is the per-mapping result of one executed action.
// Failures carry their cause; skips carry a reason.
type MappingOutcome struct {
	Mapping  FileMapping
	State    FileState
	Action   ActionKind
	Status   OutcomeStatus
	Reason   string
	Err      error
	Backup   *BackupRecord
	Duration time.Duration
}

// Report is the full result of one reconciliation pass. Every mapping
// of the active profile appears exactly once, whatever its outcome.
type Report struct {
	Profile  string
	Outcomes []MappingOutcome

	// PushErr records a transport push failure. Local outcomes already
	// applied stand; the failure is surfaced rather than rolled back.
	PushErr error
}

// Counts returns the number of applied, skipped, failed and conflicted
// outcomes, in that order.
func (r *Report) Counts() (applied, skipped, failed, conflicted int) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case OutcomeApplied:
			applied++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		case OutcomeConflict:
			conflicted++
		}
	}
	return
}

// Partial reports whether the pass completed with per-mapping failures,
// conflicts or a push failure. Callers use this to distinguish partial
// success from clean success when signaling their exit status.
func (r *Report) Partial() bool {
	_, _, failed, conflicted := r.Counts()
	return failed > 0 || conflicted > 0 || r.PushErr != nil
}

package main

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort     = "Keep your dotfiles in sync across machines"
	MsgRootLong      = `dotsync keeps a set of configuration files synchronized between this
machine and a version-controlled remote repository, under named
profiles. Files can be materialized as copies or symlinks; changes are
reconciled on demand, on file-change notification, or on a schedule.`
	MsgAddShort      = "Start tracking a file in a profile"
	MsgRemoveShort   = "Stop tracking a file in a profile"
	MsgSyncShort     = "Run one reconciliation pass"
	MsgWatchShort    = "Watch tracked files and sync on change"
	MsgScheduleShort = "Sync on a fixed interval"
	MsgStatusShort   = "Show what a sync would do without doing it"
	MsgInitShort     = "Write the default configuration file"
	MsgVersionShort  = "Print version information"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagProfile  = "Profile to use instead of rule-based detection"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagDiff     = "Show line diffs for files about to change"
	MsgFlagInterval = "Seconds between passes (defaults to sync_interval from the config)"
	MsgFlagDebounce = "Quiet window after a change burst before syncing"

	// Status messages
	MsgDryRunNotice    = "\nDRY RUN MODE - No changes were made"
	MsgFileAdded       = "Tracking '%s' in profile '%s'\n"
	MsgFileRemoved     = "Stopped tracking '%s' in profile '%s'\n"
	MsgFileNotTracked  = "'%s' is not tracked in profile '%s'\n"
	MsgConfigCreated   = "Wrote default configuration to %s\n"
	MsgConfigExists    = "Configuration already exists at %s\n"
	MsgNothingToDo     = "Everything in sync."
	MsgConflictsNotice = "\n%d mapping(s) in conflict - resolve manually, dotsync never picks a side:\n"
	MsgPushFailed      = "\nPush failed (local changes stand): %v\n"
)

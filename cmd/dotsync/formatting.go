package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/dotsync/pkg/types"
)

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	// Only apply formatting if output is a terminal
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// statusSymbol maps an outcome status to its list marker.
func statusSymbol(status types.OutcomeStatus) string {
	switch status {
	case types.OutcomeApplied:
		return "✓"
	case types.OutcomeFailed:
		return "✗"
	case types.OutcomeConflict:
		return "!"
	default:
		return "-"
	}
}

// printReport writes the full per-mapping pass result: every mapping
// appears, not just the failures.
func printReport(report *types.Report, dryRun bool) {
	fmt.Printf("%s\n", formatBold(fmt.Sprintf("Profile %s", report.Profile)))
	for _, o := range report.Outcomes {
		line := fmt.Sprintf("  %s %-30s %s", statusSymbol(o.Status), o.Mapping.Key, o.Action)
		if o.Reason != "" {
			line += fmt.Sprintf(" (%s)", o.Reason)
		}
		if o.Err != nil {
			line += fmt.Sprintf(": %v", o.Err)
		}
		fmt.Println(line)
	}

	applied, skipped, failed, conflicted := report.Counts()
	fmt.Printf("\n%d applied, %d skipped, %d failed, %d conflicted\n",
		applied, skipped, failed, conflicted)

	if conflicted > 0 {
		fmt.Printf(MsgConflictsNotice, conflicted)
		for _, o := range report.Outcomes {
			if o.Status == types.OutcomeConflict {
				fmt.Printf("  ! %s: %s\n", o.Mapping.Key, o.Reason)
			}
		}
	}
	if report.PushErr != nil {
		fmt.Printf(MsgPushFailed, report.PushErr)
	}
	if dryRun {
		fmt.Println(MsgDryRunNotice)
	}
}

// printDiffs writes rendered diffs in deterministic key order.
func printDiffs(diffs map[string]string) {
	keys := make([]string, 0, len(diffs))
	for k := range diffs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s\n%s\n", formatBold(fmt.Sprintf("Diff for %s:", k)), diffs[k])
	}
}

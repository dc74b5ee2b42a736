package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotsync/internal/version"
	"github.com/arthur-debert/dotsync/pkg/commands"
	"github.com/arthur-debert/dotsync/pkg/types"
)

func newAddCmd() *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: MsgAddShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Add(commands.AddOptions{Path: args[0], Profile: profile})
			if err != nil {
				return err
			}
			fmt.Printf(MsgFileAdded, result.Key, result.Profile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", MsgFlagProfile)
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "remove <path>",
		Short: MsgRemoveShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Remove(commands.RemoveOptions{Path: args[0], Profile: profile})
			if err != nil {
				return err
			}
			if result.Removed {
				fmt.Printf(MsgFileRemoved, result.Key, result.Profile)
			} else {
				fmt.Printf(MsgFileNotTracked, result.Key, result.Profile)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", MsgFlagProfile)
	return cmd
}

func newSyncCmd() *cobra.Command {
	var (
		profile  string
		dryRun   bool
		showDiff bool
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: MsgSyncShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Sync(cmd.Context(), commands.SyncOptions{
				Profile:  profile,
				DryRun:   dryRun,
				ShowDiff: showDiff,
			})
			if err != nil {
				return err
			}
			if showDiff {
				printDiffs(result.Diffs)
			}
			printReport(result.Report, dryRun)
			if result.Report.Partial() {
				return errPartial
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", MsgFlagProfile)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&showDiff, "diff", false, MsgFlagDiff)
	return cmd
}

func newStatusCmd() *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "status",
		Short: MsgStatusShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Status(cmd.Context(), commands.StatusOptions{Profile: profile})
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatBold(fmt.Sprintf("Profile %s", result.Profile)))
			pending := 0
			for _, a := range result.Actions {
				line := fmt.Sprintf("  %-30s %-14s %s", a.Mapping.Key, a.State, a.Kind)
				if a.Reason != "" {
					line += fmt.Sprintf(" (%s)", a.Reason)
				}
				fmt.Println(line)
				if a.Kind != types.ActionNoOp {
					pending++
				}
			}
			if pending == 0 {
				fmt.Println(MsgNothingToDo)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", MsgFlagProfile)
	return cmd
}

func newWatchCmd() *cobra.Command {
	var (
		profile  string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: MsgWatchShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err := commands.Watch(ctx, commands.WatchOptions{
				Profile:  profile,
				Debounce: debounce,
				OnReport: func(r *types.Report) { printReport(r, false) },
			})
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", MsgFlagProfile)
	cmd.Flags().DurationVar(&debounce, "debounce", 0, MsgFlagDebounce)
	return cmd
}

func newScheduleCmd() *cobra.Command {
	var (
		profile  string
		interval int
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: MsgScheduleShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err := commands.Schedule(ctx, commands.ScheduleOptions{
				Profile:  profile,
				Interval: time.Duration(interval) * time.Second,
				OnReport: func(r *types.Report) { printReport(r, false) },
			})
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", MsgFlagProfile)
	cmd.Flags().IntVarP(&interval, "interval", "i", 0, MsgFlagInterval)
	return cmd
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: MsgInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Init()
			if err != nil {
				return err
			}
			if result.Created {
				fmt.Printf(MsgConfigCreated, result.ConfigPath)
			} else {
				fmt.Printf(MsgConfigExists, result.ConfigPath)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dotsync %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

package commands

import (
	"context"

	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// StatusOptions defines the options for the Status command.
type StatusOptions struct {
	Profile string
}

// StatusResult is a classification-only view of the active profile:
// what a pass would do, without doing it.
type StatusResult struct {
	Profile string
	Actions []types.PlannedAction
}

// Status refreshes the working copy and classifies every mapping, but
// executes nothing.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Status").Msg("Executing command")

	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	s := e.newSyncer(opts.Profile, false)

	plan, err := s.Plan(ctx, true)
	if err != nil {
		return nil, err
	}
	return &StatusResult{Profile: plan.Profile, Actions: plan.Actions}, nil
}

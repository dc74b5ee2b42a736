// Package commands provides the high-level command implementations for
// dotsync. This is the orchestration layer between the CLI and the
// sync pipeline: each command takes an Options struct and returns a
// Result, leaving all terminal output to the caller.
package commands

import (
	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/paths"
	"github.com/arthur-debert/dotsync/pkg/profiles"
	"github.com/arthur-debert/dotsync/pkg/syncer"
	"github.com/arthur-debert/dotsync/pkg/transport"
)

// env bundles the loaded configuration and resolved paths every
// command needs.
type env struct {
	cfg   *config.Config
	paths *paths.Paths
}

func loadEnv() (*env, error) {
	p := paths.New()
	cfg, err := config.Load(p.ConfigFile())
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, paths: p}, nil
}

// resolveProfile returns the explicit override or runs rule-based
// detection.
func (e *env) resolveProfile(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return profiles.Select(e.cfg.Rules(), e.cfg.DefaultProfile, profiles.CurrentFacts())
}

// newSyncer wires the sync pipeline against the configured remote.
func (e *env) newSyncer(profile string, dryRun bool) *syncer.Syncer {
	t := transport.New(transport.Options{
		URL:    e.cfg.Remote.URL,
		Token:  e.cfg.Remote.Token,
		Branch: e.cfg.Remote.Branch,
		Dir:    e.paths.RepoDir(),
	})
	return syncer.New(syncer.Options{
		Config:    e.cfg,
		Transport: t,
		BackupDir: e.paths.BackupDir(),
		StateFile: e.paths.StateFile(),
		Profile:   profile,
		DryRun:    dryRun,
	})
}

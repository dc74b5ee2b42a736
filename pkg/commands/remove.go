package commands

import (
	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/logging"
)

// RemoveOptions defines the options for the Remove command.
type RemoveOptions struct {
	Path    string
	Profile string
}

// RemoveResult reports whether the mapping existed.
type RemoveResult struct {
	Profile string
	Key     string
	Removed bool
}

// Remove stops tracking a file in the given profile. Removing an
// untracked file is not an error; the result carries Removed=false so
// the caller can warn.
func Remove(opts RemoveOptions) (*RemoveResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Remove").Str("path", opts.Path).Msg("Executing command")

	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	profile, err := e.resolveProfile(opts.Profile)
	if err != nil {
		return nil, err
	}

	key, _, err := config.HomeRelativeKey(opts.Path)
	if err != nil {
		return nil, err
	}
	removed, err := e.cfg.RemoveMapping(profile, key)
	if err != nil {
		return nil, err
	}
	if removed {
		if err := config.Save(e.paths.ConfigFile(), e.cfg); err != nil {
			return nil, err
		}
		log.Info().Str("key", key).Str("profile", profile).Msg("Removed file")
	} else {
		log.Warn().Str("key", key).Str("profile", profile).Msg("File not tracked")
	}
	return &RemoveResult{Profile: profile, Key: key, Removed: removed}, nil
}

package commands

import (
	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/logging"
)

// AddOptions defines the options for the Add command.
type AddOptions struct {
	// Path is the local file to start tracking.
	Path string
	// Profile overrides rule-based profile detection.
	Profile string
}

// AddResult reports the mapping that was created.
type AddResult struct {
	Profile   string
	Key       string
	LocalPath string
}

// Add starts tracking a file in the given profile and saves the
// configuration. The path must live under the home directory; its
// home-relative path becomes the mapping key and the tracked location
// in the repository.
func Add(opts AddOptions) (*AddResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Add").Str("path", opts.Path).Msg("Executing command")

	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	profile, err := e.resolveProfile(opts.Profile)
	if err != nil {
		return nil, err
	}

	key, abs, err := config.HomeRelativeKey(opts.Path)
	if err != nil {
		return nil, err
	}
	if err := e.cfg.AddMapping(profile, key, abs); err != nil {
		return nil, err
	}
	if err := config.Save(e.paths.ConfigFile(), e.cfg); err != nil {
		return nil, err
	}

	log.Info().Str("key", key).Str("profile", profile).Msg("Added file")
	return &AddResult{Profile: profile, Key: key, LocalPath: abs}, nil
}

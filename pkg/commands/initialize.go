package commands

import (
	"os"

	"github.com/arthur-debert/dotsync/pkg/config"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/paths"
)

// InitResult reports where the configuration lives and whether it was
// just created.
type InitResult struct {
	ConfigPath string
	Created    bool
}

// Init writes the default configuration file if none exists yet. An
// existing file is left untouched.
func Init() (*InitResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Init").Msg("Executing command")

	p := paths.New()
	path := p.ConfigFile()
	if _, err := os.Stat(path); err == nil {
		return &InitResult{ConfigPath: path, Created: false}, nil
	}

	if err := config.Save(path, config.Default()); err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Msg("Wrote default configuration")
	return &InitResult{ConfigPath: path, Created: true}, nil
}

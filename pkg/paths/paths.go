// Package paths provides centralized path handling for dotsync.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for dotsync
	EnvConfigDir = "DOTSYNC_CONFIG_DIR"

	// EnvDataDir overrides the XDG data directory for dotsync
	EnvDataDir = "DOTSYNC_DATA_DIR"

	// EnvStateDir overrides the XDG state directory for dotsync
	EnvStateDir = "DOTSYNC_STATE_DIR"
)

// Directory and file names within the dotsync trees.
// These define dotsync's internal layout and are not user-configurable.
const (
	appDirName = "dotsync"

	// ConfigFileName is the name of the configuration file
	ConfigFileName = "config.toml"

	// RepoDirName is the directory holding the repository working copy
	RepoDirName = "repo"

	// BackupDirName is the append-only directory of backup records
	BackupDirName = "backups"

	// StateFileName holds the last-known-synced checksums
	StateFileName = "state.json"
)

// Paths resolves the directories and files dotsync uses. Construct it
// once with New and pass it down; every method returns an absolute path.
type Paths struct {
	configDir string
	dataDir   string
	stateDir  string
}

// New resolves dotsync's directories from the environment, preferring
// the DOTSYNC_* overrides over the XDG base directories.
func New() *Paths {
	p := &Paths{
		configDir: filepath.Join(xdg.ConfigHome, appDirName),
		dataDir:   filepath.Join(xdg.DataHome, appDirName),
		stateDir:  filepath.Join(xdg.StateHome, appDirName),
	}
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = dir
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		p.dataDir = dir
	}
	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = dir
	}
	return p
}

// ConfigDir returns the configuration directory.
func (p *Paths) ConfigDir() string { return p.configDir }

// ConfigFile returns the path of the TOML configuration file.
func (p *Paths) ConfigFile() string { return filepath.Join(p.configDir, ConfigFileName) }

// DataDir returns the data directory.
func (p *Paths) DataDir() string { return p.dataDir }

// RepoDir returns the repository working copy directory.
func (p *Paths) RepoDir() string { return filepath.Join(p.dataDir, RepoDirName) }

// BackupDir returns the backup directory.
func (p *Paths) BackupDir() string { return filepath.Join(p.dataDir, BackupDirName) }

// StateFile returns the path of the checksum state file.
func (p *Paths) StateFile() string { return filepath.Join(p.stateDir, StateFileName) }

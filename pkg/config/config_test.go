package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/types"
)

const sampleConfig = `
default_profile = "default"
sync_interval = 300

[remote]
url = "https://example.com/u/dotfiles.git"
token = "secret"
branch = "master"

[profiles.default]
use_symlinks = false
ignore_patterns = [".git", "*.swp"]

[profiles.default.files]
".vimrc" = "/home/u/.vimrc"
".bashrc" = "/home/u/.bashrc"

[profiles.work]
use_symlinks = true

[profiles.work.files]
".gitconfig" = "/home/u/.gitconfig"

[[detection.rules]]
profile = "work"

[[detection.rules.conditions]]
kind = "hostname"
value = "work-laptop"

[[detection.rules.conditions]]
kind = "env"
name = "WORK_ENV"
value = "1"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.DefaultProfile)
	assert.Equal(t, 300, cfg.SyncInterval)
	assert.Equal(t, "https://example.com/u/dotfiles.git", cfg.Remote.URL)
	assert.Equal(t, "secret", cfg.Remote.Token)
	require.Len(t, cfg.Profiles, 2)
	assert.Equal(t, "/home/u/.vimrc", cfg.Profiles["default"].Files[".vimrc"])
	assert.True(t, cfg.Profiles["work"].UseSymlinks)

	rules := cfg.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "work", rules[0].Profile)
	require.Len(t, rules[0].Conditions, 2)
	assert.Equal(t, types.ConditionHostname, rules[0].Conditions[0].Kind)
	assert.Equal(t, types.ConditionEnvVar, rules[0].Conditions[1].Kind)
	assert.Equal(t, "WORK_ENV", rules[0].Conditions[1].Name)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DOTSYNC_REMOTE_TOKEN", "from-env")
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Remote.Token)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.ErrorCode
	}{
		{
			name:   "missing remote url",
			mutate: func(c *Config) { c.Remote.URL = "" },
			code:   errors.ErrConfigInvalid,
		},
		{
			name:   "zero interval",
			mutate: func(c *Config) { c.SyncInterval = 0 },
			code:   errors.ErrConfigInvalid,
		},
		{
			name:   "no profiles",
			mutate: func(c *Config) { c.Profiles = nil },
			code:   errors.ErrConfigInvalid,
		},
		{
			name: "relative local path",
			mutate: func(c *Config) {
				c.Profiles["default"] = ProfileConfig{Files: map[string]string{".vimrc": "relative/path"}}
			},
			code: errors.ErrMappingInvalid,
		},
		{
			name: "rule references unknown profile",
			mutate: func(c *Config) {
				c.Detection = &DetectionConfig{Rules: []RuleConfig{{Profile: "ghost"}}}
			},
			code: errors.ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Remote.URL = "https://example.com/r.git"
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Remote.URL = "https://example.com/r.git"
	require.NoError(t, cfg.AddMapping("default", ".vimrc", "/home/u/.vimrc"))
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Remote.URL, loaded.Remote.URL)
	assert.Equal(t, "/home/u/.vimrc", loaded.Profiles["default"].Files[".vimrc"])
}

func TestProfileModel(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	prof, err := cfg.Profile("default")
	require.NoError(t, err)
	assert.Equal(t, types.LinkModeCopy, prof.LinkMode)
	require.Len(t, prof.Mappings, 2)
	// Mapping order is sorted by key for deterministic plans.
	assert.Equal(t, ".bashrc", prof.Mappings[0].Key)
	assert.Equal(t, ".vimrc", prof.Mappings[1].Key)
	assert.Equal(t, []string{".git", "*.swp"}, prof.IgnorePatterns)

	work, err := cfg.Profile("work")
	require.NoError(t, err)
	assert.Equal(t, types.LinkModeSymlink, work.LinkMode)

	_, err = cfg.Profile("ghost")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
}

func TestAddRemoveMapping(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.AddMapping("default", ".vimrc", "/home/u/.vimrc"))
	assert.Equal(t, "/home/u/.vimrc", cfg.Profiles["default"].Files[".vimrc"])

	removed, err := cfg.RemoveMapping("default", ".vimrc")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = cfg.RemoveMapping("default", ".vimrc")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = cfg.RemoveMapping("ghost", ".vimrc")
	assert.Error(t, err)
}

// Package config loads, validates and persists the dotsync
// configuration file. The rest of the system consumes the typed model
// produced here; no other package parses configuration.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// envPrefix is the prefix for environment overrides, e.g.
// DOTSYNC_REMOTE_TOKEN maps onto remote.token.
const envPrefix = "DOTSYNC_"

// RemoteConfig locates the remote repository and its credentials.
type RemoteConfig struct {
	URL    string `koanf:"url" toml:"url"`
	Token  string `koanf:"token" toml:"token"`
	Branch string `koanf:"branch" toml:"branch"`
}

// ProfileConfig is the on-disk form of one profile.
type ProfileConfig struct {
	// Files maps logical keys (home-relative paths) to local absolute
	// paths.
	Files          map[string]string `koanf:"files" toml:"files"`
	IgnorePatterns []string          `koanf:"ignore_patterns" toml:"ignore_patterns"`
	UseSymlinks    bool              `koanf:"use_symlinks" toml:"use_symlinks"`
}

// ConditionConfig is the on-disk form of one detection condition.
type ConditionConfig struct {
	Kind  string `koanf:"kind" toml:"kind"`
	Name  string `koanf:"name" toml:"name,omitempty"`
	Value string `koanf:"value" toml:"value"`
}

// RuleConfig is the on-disk form of one detection rule.
type RuleConfig struct {
	Profile    string            `koanf:"profile" toml:"profile"`
	Conditions []ConditionConfig `koanf:"conditions" toml:"conditions"`
}

// DetectionConfig holds the ordered detection rules.
type DetectionConfig struct {
	Rules []RuleConfig `koanf:"rules" toml:"rules"`
}

// Config is the full dotsync configuration.
type Config struct {
	DefaultProfile string                   `koanf:"default_profile" toml:"default_profile"`
	SyncInterval   int                      `koanf:"sync_interval" toml:"sync_interval"`
	Remote         RemoteConfig             `koanf:"remote" toml:"remote"`
	Profiles       map[string]ProfileConfig `koanf:"profiles" toml:"profiles"`
	Detection      *DetectionConfig         `koanf:"detection" toml:"detection,omitempty"`
}

// Default returns the configuration written on first run: a single
// empty "default" profile syncing every five minutes.
func Default() *Config {
	return &Config{
		DefaultProfile: "default",
		SyncInterval:   300,
		Remote:         RemoteConfig{Branch: "master"},
		Profiles: map[string]ProfileConfig{
			"default": {
				Files:          map[string]string{},
				IgnorePatterns: []string{".git", ".gitignore"},
				UseSymlinks:    false,
			},
		},
	}
}

// Load reads the configuration file at path and applies DOTSYNC_*
// environment overrides on top of it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path)
	}

	// Environment overrides, mainly for the remote token.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration as TOML, creating the parent directory
// if needed.
func Save(path string, cfg *Config) error {
	data, err := gotoml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "failed to serialize config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to create config directory")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to write config file")
	}
	return nil
}

// Validate checks the configuration for the errors that must abort a
// pass before any filesystem mutation.
func (c *Config) Validate() error {
	if c.Remote.URL == "" {
		return errors.New(errors.ErrConfigInvalid, "remote repository URL is missing in the configuration")
	}
	if c.SyncInterval <= 0 {
		return errors.New(errors.ErrConfigInvalid, "sync interval must be greater than 0")
	}
	if len(c.Profiles) == 0 {
		return errors.New(errors.ErrConfigInvalid, "no profiles configured")
	}
	for name, p := range c.Profiles {
		for key, local := range p.Files {
			if key == "" || local == "" {
				return errors.Newf(errors.ErrMappingInvalid, "profile %q has an empty mapping", name)
			}
			if !filepath.IsAbs(local) {
				return errors.Newf(errors.ErrMappingInvalid,
					"profile %q: local path for %q must be absolute, got %q", name, key, local)
			}
		}
	}
	if c.Detection != nil {
		for _, rule := range c.Detection.Rules {
			if _, ok := c.Profiles[rule.Profile]; !ok {
				return errors.Newf(errors.ErrConfigInvalid,
					"detection rule references unknown profile %q", rule.Profile)
			}
		}
	}
	return nil
}

// Rules converts the detection configuration into typed rules, in
// declaration order.
func (c *Config) Rules() []types.DetectionRule {
	if c.Detection == nil {
		return nil
	}
	rules := make([]types.DetectionRule, 0, len(c.Detection.Rules))
	for _, r := range c.Detection.Rules {
		conds := make([]types.Condition, 0, len(r.Conditions))
		for _, cond := range r.Conditions {
			conds = append(conds, types.Condition{
				Kind:  types.ConditionKind(cond.Kind),
				Name:  cond.Name,
				Value: cond.Value,
			})
		}
		rules = append(rules, types.DetectionRule{Profile: r.Profile, Conditions: conds})
	}
	return rules
}

// Profile builds the immutable profile model for one named profile.
// Mapping order is by sorted key: TOML table order does not survive
// parsing, and plan ordering must be deterministic.
func (c *Config) Profile(name string) (*types.Profile, error) {
	pc, ok := c.Profiles[name]
	if !ok {
		return nil, errors.Newf(errors.ErrProfileNotFound, "profile %q not found", name)
	}

	keys := make([]string, 0, len(pc.Files))
	for key := range pc.Files {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	mappings := make([]types.FileMapping, 0, len(keys))
	for _, key := range keys {
		mappings = append(mappings, types.FileMapping{
			Key:       key,
			LocalPath: pc.Files[key],
			RepoPath:  filepath.FromSlash(key),
		})
	}

	mode := types.LinkModeCopy
	if pc.UseSymlinks {
		mode = types.LinkModeSymlink
	}

	return &types.Profile{
		Name:           name,
		Mappings:       mappings,
		IgnorePatterns: append([]string(nil), pc.IgnorePatterns...),
		LinkMode:       mode,
	}, nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
)

// HomeRelativeKey canonicalizes path and returns its logical mapping
// key, the path relative to the user's home directory. Paths outside
// the home directory are rejected: the repository layout mirrors the
// home tree.
func HomeRelativeKey(path string) (key, absolute string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrMappingInvalid, "failed to canonicalize path")
	}
	if resolved, rerr := filepath.EvalSymlinks(abs); rerr == nil {
		abs = resolved
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrInternal, "failed to get home directory")
	}
	rel, err := filepath.Rel(home, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", "", errors.Newf(errors.ErrMappingNotInHome, "path %q is not in home directory", path)
	}
	return filepath.ToSlash(rel), abs, nil
}

// AddMapping inserts a mapping into the named profile.
func (c *Config) AddMapping(profile, key, localPath string) error {
	pc, ok := c.Profiles[profile]
	if !ok {
		return errors.Newf(errors.ErrProfileNotFound, "profile %q not found", profile)
	}
	if pc.Files == nil {
		pc.Files = make(map[string]string)
	}
	pc.Files[key] = localPath
	c.Profiles[profile] = pc
	return nil
}

// RemoveMapping deletes a mapping from the named profile. It reports
// whether the key was present.
func (c *Config) RemoveMapping(profile, key string) (bool, error) {
	pc, ok := c.Profiles[profile]
	if !ok {
		return false, errors.Newf(errors.ErrProfileNotFound, "profile %q not found", profile)
	}
	if _, present := pc.Files[key]; !present {
		return false, nil
	}
	delete(pc.Files, key)
	c.Profiles[profile] = pc
	return true, nil
}

// Package testutil provides shared helpers for dotsync tests:
// in-memory filesystems, profile fixtures and file assertions.
package testutil

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// NewMemoryFS returns an empty in-memory filesystem.
func NewMemoryFS() types.FS {
	return filesystem.NewMemory()
}

// WriteFile writes content, creating parent directories.
func WriteFile(t *testing.T, fsys types.FS, path, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), fs.FileMode(0755)))
	require.NoError(t, fsys.WriteFile(path, []byte(content), fs.FileMode(0644)))
}

// ReadFile reads a file that must exist.
func ReadFile(t *testing.T, fsys types.FS, path string) string {
	t.Helper()
	content, err := fsys.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

// Exists reports whether the path exists.
func Exists(fsys types.FS, path string) bool {
	_, err := fsys.Lstat(path)
	return err == nil
}

// NewProfile builds a profile whose mappings live under localRoot,
// keyed and repo-addressed by the given keys.
func NewProfile(name string, mode types.LinkMode, localRoot string, keys ...string) *types.Profile {
	p := &types.Profile{Name: name, LinkMode: mode}
	for _, key := range keys {
		p.Mappings = append(p.Mappings, types.FileMapping{
			Key:       key,
			LocalPath: filepath.Join(localRoot, key),
			RepoPath:  key,
		})
	}
	return p
}

package types

import (
	"context"
	"io/fs"
)

// FS provides filesystem operations for dotsync.
// This abstraction allows for testing with in-memory filesystems.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	Rename(oldpath, newpath string) error
	Chmod(name string, mode fs.FileMode) error

	// Lstat does not follow symlinks. Implementations without symlink
	// support may fall back to Stat.
	Lstat(name string) (fs.FileInfo, error)
}

// Transport is the remote-repository boundary. The core never inspects
// commit history; it treats the working copy directory as the
// remote-side filesystem state for classification. Any backend
// satisfying these operations is substitutable.
type Transport interface {
	// Pull brings the working copy up to date with the remote.
	Pull(ctx context.Context) error

	// Push records the working copy changes on the remote.
	Push(ctx context.Context, message string) error

	// WorkTree returns the absolute path of the working copy root.
	WorkTree() string
}

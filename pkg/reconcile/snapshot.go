package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotsync/pkg/types"
)

// Checksum returns the hex SHA-256 of content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// TakeLocalSnapshot reads the local side of every mapping in one
// logical read. External writers racing the snapshot are tolerated:
// classification re-reads fresh state on the next pass.
func TakeLocalSnapshot(fsys types.FS, profile *types.Profile) types.Snapshot {
	snap := make(types.Snapshot, len(profile.Mappings))
	for _, m := range profile.Mappings {
		snap[m.Key] = snapshotPath(fsys, m.LocalPath)
	}
	return snap
}

// TakeRemoteSnapshot reads the repository working copy side of every
// mapping.
func TakeRemoteSnapshot(fsys types.FS, repoRoot string, profile *types.Profile) types.Snapshot {
	snap := make(types.Snapshot, len(profile.Mappings))
	for _, m := range profile.Mappings {
		snap[m.Key] = snapshotPath(fsys, filepath.Join(repoRoot, m.RepoPath))
	}
	return snap
}

func snapshotPath(fsys types.FS, path string) types.FileSnapshot {
	info, err := fsys.Lstat(path)
	if err != nil {
		return types.FileSnapshot{Exists: false}
	}

	snap := types.FileSnapshot{Exists: true}
	if info.Mode()&os.ModeSymlink != 0 {
		if target, err := fsys.Readlink(path); err == nil {
			snap.LinkTarget = target
		}
	}
	// ReadFile follows symlinks, so a healthy link checksums as its
	// target content. A read failure leaves the checksum empty and is
	// surfaced at execution time.
	if content, err := fsys.ReadFile(path); err == nil {
		snap.Checksum = Checksum(content)
	}
	return snap
}

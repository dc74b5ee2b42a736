package reconcile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotsync/pkg/testutil"
	"github.com/arthur-debert/dotsync/pkg/types"
)

const (
	localRoot = "/home/u"
	repoRoot  = "/data/repo"
)

// plan is a convenience wrapper: write the given sides, snapshot and
// reconcile a single-mapping profile.
func planFor(t *testing.T, mode types.LinkMode, key, local, remote string, lastSynced map[string]string) types.PlannedAction {
	t.Helper()
	fsys := testutil.NewMemoryFS()
	profile := testutil.NewProfile("default", mode, localRoot, key)
	if local != "" {
		testutil.WriteFile(t, fsys, filepath.Join(localRoot, key), local)
	}
	if remote != "" {
		testutil.WriteFile(t, fsys, filepath.Join(repoRoot, key), remote)
	}

	engine := New(repoRoot)
	p := engine.Reconcile(profile,
		TakeLocalSnapshot(fsys, profile),
		TakeRemoteSnapshot(fsys, repoRoot, profile),
		lastSynced)
	require.Len(t, p.Actions, 1)
	return p.Actions[0]
}

func TestReconcileBothInSync(t *testing.T) {
	// .bashrc with content "A" on both sides, matching the recorded
	// checksum: nothing to do.
	last := map[string]string{".bashrc": Checksum([]byte("A"))}
	action := planFor(t, types.LinkModeCopy, ".bashrc", "A", "A", last)

	assert.Equal(t, types.StateInSync, action.State)
	assert.Equal(t, types.ActionNoOp, action.Kind)
	assert.False(t, action.Backup)
}

func TestReconcileLocalNewer(t *testing.T) {
	// .vimrc changed locally to "B"; remote still matches the last
	// synced checksum "A". Local wins, no backup on the remote side.
	last := map[string]string{".vimrc": Checksum([]byte("A"))}
	action := planFor(t, types.LinkModeCopy, ".vimrc", "B", "A", last)

	assert.Equal(t, types.StateLocalNewer, action.State)
	assert.Equal(t, types.ActionMaterializeToRemote, action.Kind)
	assert.False(t, action.Backup)
}

func TestReconcileRemoteNewerBacksUp(t *testing.T) {
	last := map[string]string{".vimrc": Checksum([]byte("A"))}
	action := planFor(t, types.LinkModeCopy, ".vimrc", "A", "B", last)

	assert.Equal(t, types.StateRemoteNewer, action.State)
	assert.Equal(t, types.ActionMaterializeFromRemote, action.Kind)
	assert.True(t, action.Backup, "overwriting a differing local file must be wrapped in a backup")
}

func TestReconcileBothChangedIsConflict(t *testing.T) {
	// local "B", remote "C", last synced "A": both sides diverged.
	last := map[string]string{".vimrc": Checksum([]byte("A"))}
	action := planFor(t, types.LinkModeCopy, ".vimrc", "B", "C", last)

	assert.Equal(t, types.StateConflict, action.State)
	assert.Equal(t, types.ActionReportConflict, action.Kind)
}

func TestReconcileFirstSyncBothPresentDifferIsConflict(t *testing.T) {
	action := planFor(t, types.LinkModeCopy, ".vimrc", "B", "C", nil)

	assert.Equal(t, types.StateConflict, action.State)
	assert.Equal(t, types.ActionReportConflict, action.Kind)
}

func TestReconcileRemoteOnly(t *testing.T) {
	action := planFor(t, types.LinkModeCopy, ".gitconfig", "", "content", nil)

	assert.Equal(t, types.StateRemoteOnly, action.State)
	assert.Equal(t, types.ActionMaterializeFromRemote, action.Kind)
	assert.False(t, action.Backup, "no local file exists, nothing to back up")
}

func TestReconcileLocalOnly(t *testing.T) {
	action := planFor(t, types.LinkModeCopy, ".zshrc", "content", "", nil)

	assert.Equal(t, types.StateLocalOnly, action.State)
	assert.Equal(t, types.ActionMaterializeToRemote, action.Kind)
}

func TestReconcileMissingBoth(t *testing.T) {
	action := planFor(t, types.LinkModeCopy, ".tmux.conf", "", "", nil)

	assert.Equal(t, types.StateMissingBoth, action.State)
	assert.Equal(t, types.ActionNoOp, action.Kind)
}

func TestReconcileIgnorePatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		key      string
		ignored  bool
	}{
		{"plain substring", []string{".git"}, ".git/config", true},
		{"plain no match", []string{".git"}, ".vimrc", false},
		{"glob on base", []string{"*.swp"}, ".vim/.file.swp", true},
		{"glob no match", []string{"*.swp"}, ".vimrc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testutil.NewMemoryFS()
			profile := testutil.NewProfile("default", types.LinkModeCopy, localRoot, tt.key)
			profile.IgnorePatterns = tt.patterns
			testutil.WriteFile(t, fsys, filepath.Join(localRoot, tt.key), "x")

			engine := New(repoRoot)
			p := engine.Reconcile(profile,
				TakeLocalSnapshot(fsys, profile),
				TakeRemoteSnapshot(fsys, repoRoot, profile),
				nil)

			require.Len(t, p.Actions, 1)
			if tt.ignored {
				assert.Equal(t, types.StateIgnored, p.Actions[0].State)
				assert.Equal(t, types.ActionNoOp, p.Actions[0].Kind)
			} else {
				assert.NotEqual(t, types.StateIgnored, p.Actions[0].State)
			}
		})
	}
}

func TestReconcileSymlinkModeMissingLocal(t *testing.T) {
	// Missing local, remote copy exists, link mode: materialize as a
	// symlink pointing at the repository copy.
	action := planFor(t, types.LinkModeSymlink, ".vimrc", "", "content", nil)

	assert.Equal(t, types.StateRemoteOnly, action.State)
	assert.Equal(t, types.ActionMaterializeFromRemote, action.Kind)
}

func TestReconcileSymlinkModeLinkedIsInSync(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	profile := testutil.NewProfile("default", types.LinkModeSymlink, localRoot, ".vimrc")
	testutil.WriteFile(t, fsys, filepath.Join(repoRoot, ".vimrc"), "content")
	require.NoError(t, fsys.Symlink(filepath.Join(repoRoot, ".vimrc"), filepath.Join(localRoot, ".vimrc")))

	engine := New(repoRoot)
	p := engine.Reconcile(profile,
		TakeLocalSnapshot(fsys, profile),
		TakeRemoteSnapshot(fsys, repoRoot, profile),
		nil)

	require.Len(t, p.Actions, 1)
	assert.Equal(t, types.StateInSync, p.Actions[0].State)
	assert.Equal(t, types.ActionNoOp, p.Actions[0].Kind)
}

func TestReconcileSymlinkModeConvertsPlainCopy(t *testing.T) {
	// A plain local file with identical content is still not a link;
	// re-materialize it as one, preserving the old copy.
	action := planFor(t, types.LinkModeSymlink, ".vimrc", "content", "content", nil)

	assert.Equal(t, types.ActionMaterializeFromRemote, action.Kind)
	assert.True(t, action.Backup)
}

func TestReconcileSymlinkModeStaleLink(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	profile := testutil.NewProfile("default", types.LinkModeSymlink, localRoot, ".vimrc")
	// Link exists but its repository copy is gone.
	require.NoError(t, fsys.MkdirAll(localRoot, 0755))
	require.NoError(t, fsys.Symlink(filepath.Join(repoRoot, ".vimrc"), filepath.Join(localRoot, ".vimrc")))

	engine := New(repoRoot)
	p := engine.Reconcile(profile,
		TakeLocalSnapshot(fsys, profile),
		TakeRemoteSnapshot(fsys, repoRoot, profile),
		nil)

	require.Len(t, p.Actions, 1)
	assert.Equal(t, types.ActionDeleteLocal, p.Actions[0].Kind)
}

func TestReconcilePlanOrderFollowsMappings(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	profile := testutil.NewProfile("default", types.LinkModeCopy, localRoot, ".bashrc", ".vimrc", ".zshrc")
	for _, key := range []string{".bashrc", ".vimrc", ".zshrc"} {
		testutil.WriteFile(t, fsys, filepath.Join(localRoot, key), key)
	}

	engine := New(repoRoot)
	p := engine.Reconcile(profile,
		TakeLocalSnapshot(fsys, profile),
		TakeRemoteSnapshot(fsys, repoRoot, profile),
		nil)

	require.Len(t, p.Actions, 3)
	for i, m := range profile.Mappings {
		assert.Equal(t, m.Key, p.Actions[i].Mapping.Key)
	}
}

func TestReconcileIdempotence(t *testing.T) {
	// A profile fully in sync plans no work, however often it runs.
	fsys := testutil.NewMemoryFS()
	profile := testutil.NewProfile("default", types.LinkModeCopy, localRoot, ".bashrc", ".vimrc")
	last := make(map[string]string)
	for _, key := range []string{".bashrc", ".vimrc"} {
		testutil.WriteFile(t, fsys, filepath.Join(localRoot, key), "content of "+key)
		testutil.WriteFile(t, fsys, filepath.Join(repoRoot, key), "content of "+key)
		last[key] = Checksum([]byte("content of " + key))
	}

	engine := New(repoRoot)
	for i := 0; i < 2; i++ {
		p := engine.Reconcile(profile,
			TakeLocalSnapshot(fsys, profile),
			TakeRemoteSnapshot(fsys, repoRoot, profile),
			last)
		assert.False(t, p.HasWork())
		assert.Empty(t, p.Conflicts())
	}
}

func TestChecksumStable(t *testing.T) {
	assert.Equal(t, Checksum([]byte("A")), Checksum([]byte("A")))
	assert.NotEqual(t, Checksum([]byte("A")), Checksum([]byte("B")))
}

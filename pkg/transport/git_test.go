package transport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBareRemote creates an empty bare repository that stands in for the
// hosted remote.
func newBareRemote(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "origin.git")
	_, err := git.PlainInit(dir, true)
	require.NoError(t, err)
	return dir
}

func TestPullEmptyRemoteInitializesWorkingCopy(t *testing.T) {
	remote := newBareRemote(t)
	work := filepath.Join(t.TempDir(), "work")

	tr := New(Options{URL: remote, Branch: "master", Dir: work})
	require.NoError(t, tr.Pull(context.Background()))

	assert.Equal(t, work, tr.WorkTree())
	assert.DirExists(t, filepath.Join(work, ".git"))
}

func TestPushAndPullRoundTrip(t *testing.T) {
	remote := newBareRemote(t)
	ctx := context.Background()

	// First machine: initialize against the empty remote and push a
	// dotfile.
	work1 := filepath.Join(t.TempDir(), "work1")
	tr1 := New(Options{URL: remote, Branch: "master", Dir: work1})
	require.NoError(t, tr1.Pull(ctx))
	require.NoError(t, os.WriteFile(filepath.Join(work1, ".bashrc"), []byte("export PATH\n"), 0644))
	require.NoError(t, tr1.Push(ctx, "Sync dotfiles (default)"))

	// Second machine: cloning picks the change up.
	work2 := filepath.Join(t.TempDir(), "work2")
	tr2 := New(Options{URL: remote, Branch: "master", Dir: work2})
	require.NoError(t, tr2.Pull(ctx))

	content, err := os.ReadFile(filepath.Join(work2, ".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, "export PATH\n", string(content))

	// Pulling again with nothing new is not an error.
	require.NoError(t, tr2.Pull(ctx))
}

func TestPushCleanWorkingCopyIsNoOp(t *testing.T) {
	remote := newBareRemote(t)
	ctx := context.Background()

	work1 := filepath.Join(t.TempDir(), "work1")
	tr1 := New(Options{URL: remote, Branch: "master", Dir: work1})
	require.NoError(t, tr1.Pull(ctx))
	require.NoError(t, os.WriteFile(filepath.Join(work1, ".vimrc"), []byte("set number\n"), 0644))
	require.NoError(t, tr1.Push(ctx, "Sync dotfiles (default)"))

	bare, err := git.PlainOpen(remote)
	require.NoError(t, err)
	before, err := bare.Head()
	require.NoError(t, err)

	// No changes staged: push must not create a commit.
	require.NoError(t, tr1.Push(ctx, "Sync dotfiles (default)"))

	after, err := bare.Head()
	require.NoError(t, err)
	assert.Equal(t, before.Hash(), after.Hash())
}

func TestPushCommitCarriesMessage(t *testing.T) {
	remote := newBareRemote(t)
	ctx := context.Background()

	work := filepath.Join(t.TempDir(), "work")
	tr := New(Options{URL: remote, Branch: "master", Dir: work})
	require.NoError(t, tr.Pull(ctx))
	require.NoError(t, os.WriteFile(filepath.Join(work, ".gitconfig"), []byte("[user]\n"), 0644))
	require.NoError(t, tr.Push(ctx, "Sync dotfiles (laptop)"))

	bare, err := git.PlainOpen(remote)
	require.NoError(t, err)
	head, err := bare.Head()
	require.NoError(t, err)
	commit, err := bare.CommitObject(head.Hash())
	require.NoError(t, err)

	assert.Equal(t, "Sync dotfiles (laptop)", commit.Message)
	assert.Equal(t, "dotsync", commit.Author.Name)
}

func TestPullUnreachableRemoteFails(t *testing.T) {
	work := filepath.Join(t.TempDir(), "work")
	tr := New(Options{
		URL:    filepath.Join(t.TempDir(), "does-not-exist"),
		Branch: "master",
		Dir:    work,
	})
	err := tr.Pull(context.Background())
	require.Error(t, err)
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		token string
		want  bool
	}{
		{"https_with_token", "https://github.com/user/dotfiles.git", "tok", true},
		{"https_without_token", "https://github.com/user/dotfiles.git", "", false},
		{"local_path_with_token", "/srv/dotfiles.git", "tok", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(Options{URL: tt.url, Token: tt.token})
			auth := tr.auth()
			if !tt.want {
				assert.Nil(t, auth)
				return
			}
			basic, ok := auth.(*githttp.BasicAuth)
			require.True(t, ok)
			assert.Equal(t, "x-access-token", basic.Username)
			assert.Equal(t, tt.token, basic.Password)
		})
	}
}

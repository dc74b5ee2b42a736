// Package transport implements the remote-repository boundary on top
// of go-git. The core only ever needs two operations - pull the
// working copy up to date and push its changes back - and never
// inspects commit history; any backend satisfying types.Transport is
// substitutable.
package transport

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog"

	syncerrors "github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/logging"
)

const remoteName = "origin"

// Options configures a GitTransport.
type Options struct {
	// URL is the remote repository location.
	URL string

	// Token authenticates https pushes; sent as an x-access-token
	// basic credential. Empty for anonymous or ssh-agent access.
	Token string

	// Branch is the branch the working copy tracks.
	Branch string

	// Dir is the local working copy directory.
	Dir string
}

// GitTransport is the go-git backed types.Transport.
type GitTransport struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a transport for the given remote and working copy
// location. The working copy is cloned lazily on the first Pull.
func New(opts Options) *GitTransport {
	return &GitTransport{
		opts:   opts,
		logger: logging.GetLogger("transport"),
	}
}

// WorkTree returns the working copy root.
func (t *GitTransport) WorkTree() string {
	return t.opts.Dir
}

// Pull clones the repository if the working copy does not exist yet,
// otherwise fast-forwards it. An up-to-date or still-empty remote is
// not an error.
func (t *GitTransport) Pull(ctx context.Context) error {
	repo, err := t.open(ctx)
	if err != nil {
		return err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return syncerrors.Wrap(err, syncerrors.ErrTransportPull, "failed to get worktree")
	}

	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName: remoteName,
		Auth:       t.auth(),
	})
	if err != nil && !isBenignPullError(err) {
		return syncerrors.Wrap(err, syncerrors.ErrTransportPull, "failed to pull from remote")
	}

	t.logger.Debug().Str("dir", t.opts.Dir).Msg("Working copy up to date")
	return nil
}

// Push stages every working copy change, commits and pushes. A clean
// working copy is a no-op.
func (t *GitTransport) Push(ctx context.Context, message string) error {
	repo, err := t.open(ctx)
	if err != nil {
		return err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return syncerrors.Wrap(err, syncerrors.ErrTransportPush, "failed to get worktree")
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return syncerrors.Wrap(err, syncerrors.ErrTransportPush, "failed to stage changes")
	}

	status, err := wt.Status()
	if err != nil {
		return syncerrors.Wrap(err, syncerrors.ErrTransportPush, "failed to read worktree status")
	}
	if status.IsClean() {
		t.logger.Debug().Msg("Working copy clean, nothing to push")
		return nil
	}

	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "dotsync",
			Email: "dotsync@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return syncerrors.Wrap(err, syncerrors.ErrTransportPush, "failed to commit changes")
	}

	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		Auth:       t.auth(),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return syncerrors.Wrap(err, syncerrors.ErrTransportPush, "failed to push to remote")
	}

	t.logger.Info().Str("remote", t.opts.URL).Msg("Pushed changes")
	return nil
}

// open returns the existing working copy or creates it, cloning the
// remote. Cloning an empty remote initializes a fresh repository wired
// to it instead.
func (t *GitTransport) open(ctx context.Context) (*git.Repository, error) {
	if _, err := os.Stat(t.opts.Dir); err == nil {
		repo, err := git.PlainOpen(t.opts.Dir)
		if err != nil {
			return nil, syncerrors.Wrap(err, syncerrors.ErrTransportOpen, "failed to open working copy")
		}
		return repo, nil
	}

	t.logger.Info().Str("url", t.opts.URL).Str("dir", t.opts.Dir).Msg("Cloning repository")
	cloneOpts := &git.CloneOptions{
		URL:  t.opts.URL,
		Auth: t.auth(),
	}
	if t.opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(t.opts.Branch)
		cloneOpts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, t.opts.Dir, false, cloneOpts)
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return t.initEmpty()
	}
	if err != nil {
		return nil, syncerrors.Wrap(err, syncerrors.ErrTransportOpen, "failed to clone repository")
	}
	return repo, nil
}

// initEmpty sets up a fresh working copy against a remote that has no
// commits yet.
func (t *GitTransport) initEmpty() (*git.Repository, error) {
	repo, err := git.PlainInit(t.opts.Dir, false)
	if err != nil {
		return nil, syncerrors.Wrap(err, syncerrors.ErrTransportOpen, "failed to initialize working copy")
	}
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: remoteName,
		URLs: []string{t.opts.URL},
	})
	if err != nil {
		return nil, syncerrors.Wrap(err, syncerrors.ErrTransportOpen, "failed to configure remote")
	}
	return repo, nil
}

func (t *GitTransport) auth() transport.AuthMethod {
	if t.opts.Token == "" || !strings.HasPrefix(t.opts.URL, "http") {
		return nil
	}
	return &githttp.BasicAuth{
		Username: "x-access-token",
		Password: t.opts.Token,
	}
}

func isBenignPullError(err error) bool {
	return errors.Is(err, git.NoErrAlreadyUpToDate) ||
		errors.Is(err, transport.ErrEmptyRemoteRepository) ||
		errors.Is(err, plumbing.ErrReferenceNotFound)
}

package git

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// DefaultFetchTimeout bounds the preflight network operations so a run
// never hangs on an unreachable remote.
const DefaultFetchTimeout = 60 * time.Second

// FetchTags fetches tags from origin so the release boundary resolution
// sees tags pushed since the last local fetch.
func (r *Repository) FetchTags(ctx context.Context) error {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		return fmt.Errorf("no origin remote: %w", err)
	}

	auth := r.authForRemote(remote)
	r.log.Debugw("fetching tags from origin")

	err = r.repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: "origin",
		Auth:       auth,
		RefSpecs:   []config.RefSpec{"+refs/tags/*:refs/tags/*"},
		Tags:       gogit.AllTags,
	})
	if err == gogit.NoErrAlreadyUpToDate {
		return nil
	}
	return err
}

// CheckoutBranch switches the worktree to the named local branch.
// Keep preserves untracked files, which go-git would otherwise delete.
func (r *Repository) CheckoutBranch(name string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	err = worktree.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Keep:   true,
	})
	if err != nil {
		return fmt.Errorf("checking out %s: %w", name, err)
	}

	r.log.Debugw("checked out branch", "branch", name)
	return nil
}

// PullFFOnly fast-forwards the named branch from origin. go-git pulls
// are fast-forward only; a diverged branch returns an error instead of
// creating a merge.
func (r *Repository) PullFFOnly(ctx context.Context, branch string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	remote, err := r.repo.Remote("origin")
	if err != nil {
		return fmt.Errorf("no origin remote: %w", err)
	}

	err = worktree.PullContext(ctx, &gogit.PullOptions{
		RemoteName:    "origin",
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		Auth:          r.authForRemote(remote),
	})
	if err == gogit.NoErrAlreadyUpToDate {
		return nil
	}
	return err
}

// authForRemote returns the authentication method for the remote's
// fetch URL. SSH remotes use the SSH agent when one is running; HTTPS
// remotes use GIT_USERNAME/GIT_PASSWORD or a GITHUB_TOKEN.
func (r *Repository) authForRemote(remote *gogit.Remote) transport.AuthMethod {
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil
	}
	url := urls[0]

	if isSSHURL(url) {
		if !isSSHAgentAvailable() {
			r.log.Debugw("ssh remote without ssh agent, trying anonymous", "url", url)
			return nil
		}
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			r.log.Debugw("ssh agent auth failed", "error", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		// A GitHub token works as the username with an empty password.
		username = os.Getenv("GITHUB_TOKEN")
		password = ""
	}
	if username == "" {
		return nil
	}
	return &http.BasicAuth{Username: username, Password: password}
}

// isSSHURL detects git@ (SCP-style), ssh://, and git+ssh:// remotes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// isSSHAgentAvailable reports whether an SSH agent socket is configured.
func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}

// Package git is the history source for relnotes. It wraps go-git for
// repository access: opening the checkout, the clean-worktree check,
// the tag/commit boundary resolution, the newest-first commit walk, and
// the fetch/checkout/pull preflight. All decision logic about what a
// commit means lives in internal/changelog; this package only produces
// commit snapshots in a stable order.
package git

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// Commit is one commit snapshot from the walk. Subject is the first
// line of the message, Body the rest (without the separating blank
// line). Parents is the parent count, used to spot merge commits.
type Commit struct {
	Hash    string
	Subject string
	Body    string
	Author  string
	Parents int
}

// Repository is an open git checkout.
type Repository struct {
	repo *gogit.Repository
	log  *zap.SugaredLogger
}

// Open opens the repository containing path (or the working directory
// when path is empty), searching upward for the .git directory.
func Open(path string, logger *zap.SugaredLogger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logger.Debugw("repository opened", "path", path)
	return &Repository{repo: repo, log: logger}, nil
}

// CurrentBranch returns the short name of the checked-out branch, or
// the empty string in detached HEAD state.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

// IsDirty reports whether the worktree has staged or unstaged changes
// to tracked files. Untracked files do not count: they cannot leak into
// the walked history.
func (r *Repository) IsDirty() (bool, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("getting worktree status: %w", err)
	}

	for _, fileStatus := range status {
		if fileStatus.Worktree == gogit.Untracked {
			continue
		}
		if fileStatus.Worktree != gogit.Unmodified || fileStatus.Staging != gogit.Unmodified {
			return true, nil
		}
	}
	return false, nil
}

// originURLPattern extracts owner and repository name from GitHub
// remote URLs, both SSH (git@github.com:owner/repo.git) and HTTPS.
var originURLPattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/.]+)(\.git)?`)

// OriginOwnerRepo parses the origin remote URL into its GitHub owner
// and repository name. Both are empty when there is no origin remote or
// it does not point at GitHub; the run then simply skips remote lookups.
func (r *Repository) OriginOwnerRepo() (owner, repo string) {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		r.log.Debugw("no origin remote", "error", err)
		return "", ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", ""
	}
	return ParseOwnerRepo(urls[0])
}

// ParseOwnerRepo extracts the GitHub owner and repository name from a
// remote URL.
func ParseOwnerRepo(url string) (owner, repo string) {
	m := originURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// ResolveCommit resolves a revision string (full or abbreviated hash)
// to a commit hash.
func (r *Repository) ResolveCommit(revision string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return "", fmt.Errorf("resolving commit %s: %w", revision, err)
	}
	return hash.String(), nil
}

// splitMessage separates a commit message into subject and body.
func splitMessage(message string) (subject, body string) {
	subject, rest, _ := strings.Cut(message, "\n")
	body = strings.TrimPrefix(rest, "\n")
	return strings.TrimRight(subject, "\r"), strings.TrimRight(body, "\n")
}

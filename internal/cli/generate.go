package cli

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariel-frischer/relnotes/internal/cache"
	"github.com/ariel-frischer/relnotes/internal/changelog"
	"github.com/ariel-frischer/relnotes/internal/config"
	"github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/ariel-frischer/relnotes/internal/git"
	"github.com/ariel-frischer/relnotes/internal/github"
	"github.com/ariel-frischer/relnotes/internal/logging"
	"github.com/ariel-frischer/relnotes/internal/output"
	"github.com/ariel-frischer/relnotes/internal/progress"
)

// mergeSubject spots two-parent merge commits whose number can be fed
// to classification as a pre-resolved hint.
var mergeSubject = regexp.MustCompile(`^Merge pull request #(\d+)`)

// runGenerate is the root command: preflight, boundary resolution,
// commit walk, classification, and document rendering.
func runGenerate(ctx context.Context) error {
	// Load .env first so GITHUB_TOKEN can live next to the repository.
	_ = godotenv.Load()

	logger := logging.Noop()
	if flagDebug {
		logger = logging.Debug()
	}
	defer logger.Sync()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return errors.Wrap(err, errors.Configuration,
			"Check the config file syntax",
			"Run 'relnotes config init' to write a fresh default config")
	}

	repo, err := git.Open("", logger)
	if err != nil {
		wd, _ := os.Getwd()
		return errors.NotAGitRepository(wd)
	}

	if err := preflight(ctx, repo, cfg, logger); err != nil {
		return err
	}

	displayRef, boundary, err := resolveBoundary(repo)
	if err != nil {
		return err
	}

	commits, err := repo.CommitsSince(boundary)
	if err != nil {
		return errors.Wrap(err, errors.Repository)
	}
	if len(commits) == 0 {
		logger.Debugw("no commits in range", "boundary", displayRef)
	}

	if flagRawCommits {
		lines := make([]string, len(commits))
		for i, commit := range commits {
			lines[i] = commit.RawLine()
		}
		output.PrintRawCommits(os.Stdout, lines)
		return nil
	}

	if !flagTerse {
		output.PrintRunHeader(os.Stderr, displayRef)
	}

	document := buildDocument(ctx, repo, cfg, commits, logger)
	if document != "" {
		fmt.Println(document)
	}

	if flagClipboard || cfg.Clipboard {
		if err := clipboard.WriteAll(document); err != nil {
			errors.PrintError(errors.ClipboardUnavailable(err))
		}
	}
	return nil
}

// preflight brings the checkout up to date before walking history. In
// terse mode every failure degrades to a debug note and the walk uses
// the repository as-is.
func preflight(ctx context.Context, repo *git.Repository, cfg *config.Configuration, logger *zap.SugaredLogger) error {
	if !flagTerse {
		dirty, err := repo.IsDirty()
		if err != nil {
			return errors.Wrap(err, errors.Repository)
		}
		if dirty {
			return errors.DirtyWorktree()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, git.DefaultFetchTimeout)
	defer cancel()

	if err := repo.FetchTags(ctx); err != nil {
		if !flagTerse {
			return errors.PreflightFailed("fetch", err)
		}
		logger.Debugw("fetch skipped", "error", err)
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		return errors.Wrap(err, errors.Repository)
	}
	if branch != cfg.MainBranch {
		if err := repo.CheckoutBranch(cfg.MainBranch); err != nil {
			if !flagTerse {
				return errors.PreflightFailed("checkout", err)
			}
			logger.Debugw("checkout skipped", "branch", cfg.MainBranch, "error", err)
		}
	}

	if err := repo.PullFFOnly(ctx, cfg.MainBranch); err != nil {
		if !flagTerse {
			return errors.PreflightFailed("pull", err)
		}
		logger.Debugw("pull skipped", "error", err)
	}
	return nil
}

// resolveBoundary picks the commit the walk stops at: an explicit
// commit, an explicit tag, or the nearest tag reachable from HEAD.
func resolveBoundary(repo *git.Repository) (displayRef, hash string, err error) {
	switch {
	case flagCommit != "":
		hash, err = repo.ResolveCommit(flagCommit)
		if err != nil {
			return "", "", errors.CommitNotFound(flagCommit)
		}
		return flagCommit, hash, nil

	case flagTag != "":
		hash, err = repo.ResolveTag(flagTag)
		if err != nil {
			return "", "", errors.TagNotFound(flagTag)
		}
		return flagTag, hash, nil

	default:
		name, hash, err := repo.NearestTag()
		if err != nil {
			return "", "", errors.NoTagsFound()
		}
		return name, hash, nil
	}
}

// buildDocument classifies the commits (concurrently when a GitHub
// lookup is available) and renders the release notes.
func buildDocument(ctx context.Context, repo *git.Repository, cfg *config.Configuration, commits []git.Commit, logger *zap.SugaredLogger) string {
	owner, repoName := repo.OriginOwnerRepo()
	lookup := newLookup(cfg, logger)

	opts := changelog.Options{
		IncludePRNumbers: flagPRNumbers || cfg.IncludePRNumbers,
		Owner:            owner,
		Repo:             repoName,
	}

	requests := make([]changelog.Request, len(commits))
	for i, commit := range commits {
		requests[i] = changelog.Request{
			Commit: changelog.Commit{
				Hash:    commit.Hash,
				Subject: commit.Subject,
				Body:    commit.Body,
				Author:  commit.Author,
			},
			PRHint: mergeHint(commit),
		}
	}

	if lookup != nil && !flagTerse {
		spin := progress.NewLookupSpinner(progress.DetectTerminalCapabilities(), "resolving pull requests")
		spin.Start()
		defer spin.Stop()
	}

	outcomes := changelog.ClassifyAll(ctx, requests, opts, lookup, cfg.MaxParallel)
	depLines, otherLines := changelog.Buckets(outcomes)
	return changelog.Generate(depLines, otherLines)
}

// newLookup builds the GitHub capability, or returns nil when no token
// is configured. The SQLite cache is best-effort: if it cannot be
// opened the client just runs uncached.
func newLookup(cfg *config.Configuration, logger *zap.SugaredLogger) changelog.PRLookup {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		logger.Debugw("no GITHUB_TOKEN, remote lookups disabled")
		return nil
	}

	var store *cache.Cache
	if cfg.CacheEnabled {
		path := cfg.CachePath
		if path == "" {
			var err error
			path, err = cache.DefaultPath()
			if err != nil {
				logger.Debugw("cache path unavailable", "error", err)
			}
		}
		if path != "" {
			var err error
			store, err = cache.Open(path)
			if err != nil {
				logger.Debugw("cache disabled", "path", path, "error", err)
				store = nil
			}
		}
	}

	return github.NewClient(token, store, logger)
}

// mergeHint pre-resolves the pull request number of a merge commit.
func mergeHint(commit git.Commit) int {
	if commit.Parents < 2 {
		return 0
	}
	m := mergeSubject.FindStringSubmatch(commit.Subject)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

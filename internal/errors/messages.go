package errors

import "fmt"

// Common error messages for the relnotes CLI.
// These templates ensure consistent, actionable error messages.

// NotAGitRepository creates an error for running outside a git checkout.
func NotAGitRepository(path string) *CLIError {
	return NewRepositoryError(
		fmt.Sprintf("not a git repository: %s", path),
		"Run relnotes inside a git checkout",
		"Or cd to the repository root first",
	)
}

// DirtyWorktree creates an error for uncommitted local changes.
func DirtyWorktree() *CLIError {
	return NewRepositoryError(
		"you have local changes; commit or stash them before running",
		"Commit your changes: git commit -am \"...\"",
		"Or stash them: git stash",
		"Or run with --terse to skip the clean-worktree check",
	)
}

// NoTagsFound creates an error for a repository without release tags.
func NoTagsFound() *CLIError {
	return NewRepositoryError(
		"no tags found in repository",
		"Create a release tag first: git tag v1.0.0",
		"Or pass an explicit starting commit: relnotes -C <hash>",
	)
}

// TagNotFound creates an error for a tag name that does not resolve.
func TagNotFound(tag string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("tag not found: %s", tag),
		"relnotes -t <tag>",
		"List available tags: git tag -l",
	)
}

// CommitNotFound creates an error for a commit hash that does not resolve.
func CommitNotFound(hash string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("commit not found: %s", hash),
		"relnotes -C <hash>",
		"Check the hash with: git log --oneline",
	)
}

// PreflightFailed creates an error for a failed fetch/checkout/pull step.
func PreflightFailed(step string, err error) *CLIError {
	return WrapWithMessage(err, Repository,
		fmt.Sprintf("preflight %s failed", step),
		"Check network access to the origin remote",
		"Or run with --terse to skip preflight and use the local state",
	)
}

// ClipboardUnavailable creates an error for clipboard copy failures.
func ClipboardUnavailable(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"failed to copy release notes to clipboard",
		"The notes were still printed to stdout",
	)
}

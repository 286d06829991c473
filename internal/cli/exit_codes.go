package cli

import "github.com/ariel-frischer/relnotes/internal/errors"

// Exit codes for the relnotes CLI. Distinct codes let scripts tell a
// bad invocation apart from a repository or runtime problem.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitRuntimeFailure indicates an unexpected failure during execution.
	ExitRuntimeFailure = 1

	// ExitInvalidArguments indicates invalid command arguments.
	ExitInvalidArguments = 2

	// ExitConfigError indicates invalid or unloadable configuration.
	ExitConfigError = 3

	// ExitRepositoryError indicates a missing, dirty, or untagged repository.
	ExitRepositoryError = 4
)

// exitCodeFor maps an error category to its exit code.
func exitCodeFor(category errors.ErrorCategory) int {
	switch category {
	case errors.Argument:
		return ExitInvalidArguments
	case errors.Configuration:
		return ExitConfigError
	case errors.Repository:
		return ExitRepositoryError
	default:
		return ExitRuntimeFailure
	}
}

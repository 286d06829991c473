// Package changelog implements the commit classification and release
// notes engine for relnotes.
//
// This package implements:
//   - Classification of commits into skips, dependency updates, and
//     generic changes, with optional pull request resolution
//   - Parsing of dependabot "Updates ... from X to Y" lines
//   - Consolidation of per-package version chains across commits
//   - Rendering of the final release notes document
//
// The engine is a pure transform: it performs no I/O of its own and
// keeps no state between runs. Remote pull request data enters through
// the PRLookup capability, which may be nil when no credentials are
// configured.
package changelog

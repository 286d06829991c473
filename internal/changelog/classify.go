package changelog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PRLookup is the optional GitHub capability consumed during
// classification. Implementations resolve pull requests by commit SHA
// and fetch pull request descriptions. A nil PRLookup disables both;
// every failure is treated as "no data" and never aborts a run.
type PRLookup interface {
	// SearchPRBySHA finds the pull request whose history contains the
	// given commit. found is false when the search returned nothing or
	// the first result was a plain issue.
	SearchPRBySHA(ctx context.Context, owner, repo, sha string) (number int, found bool, err error)
	// PullRequestBody fetches the description text of a pull request.
	// found is false when the pull request does not exist or has no body.
	PullRequestBody(ctx context.Context, owner, repo string, number int) (body string, found bool, err error)
}

// Options carry the per-run classification settings.
type Options struct {
	// IncludePRNumbers appends "(#N)" markers to emitted lines when a
	// pull request number could be resolved.
	IncludePRNumbers bool
	// Owner and Repo identify the GitHub repository for remote lookups.
	// When either is empty, lookups that need them are skipped.
	Owner string
	Repo  string
}

var (
	mergeSubjectPattern = regexp.MustCompile(`Merge pull request #(\d+)`)
	bumpGroupPattern    = regexp.MustCompile(`Bump the.*\(#(\d+)\) \(`)
	prSuffixPattern     = regexp.MustCompile(` \(#\d+\)`)
)

const updatesLinePrefix = "updates `"

// Classify decides what a single commit contributes to the release
// notes. prHint is a pre-resolved pull request number (zero when
// unknown); it takes precedence over extraction from the subject and
// over the SHA search.
//
// Dependabot commits are recognized by author name. Their commit body is
// scanned for update lines first so that no network call is made when
// the body already carries the details; the pull request description is
// only consulted as a fallback. Commits that set a new snapshot version
// are dropped entirely.
func Classify(ctx context.Context, commit Commit, prHint int, opts Options, lookup PRLookup) Outcome {
	if strings.Contains(strings.ToLower(commit.Subject), "setting new snapshot version") {
		return skipOutcome()
	}

	isDependency := strings.Contains(strings.ToLower(commit.Author), "dependabot")
	prNumber := resolvePRNumber(ctx, commit, prHint, opts, lookup)

	if isDependency {
		if lines := updateLinesFromBody(commit.Body, prNumber, opts.IncludePRNumbers); len(lines) > 0 {
			return dependencyOutcome(lines)
		}
	}

	if prNumber > 0 && lookup != nil {
		if lines := updateLinesFromPR(ctx, lookup, opts, prNumber); len(lines) > 0 {
			return dependencyOutcome(lines)
		}
	}

	subject := cleanSubject(commit.Subject, prNumber, opts.IncludePRNumbers)
	if isDependency {
		return dependencyOutcome([]string{"- " + subject})
	}
	return genericOutcome(fmt.Sprintf("- %s (%s)", subject, commit.Author))
}

// resolvePRNumber runs the lookup cascade: hint, merge commit subject,
// grouped-bump subject, any "(#N)" reference, and finally the GitHub
// SHA search. The first hit wins. Search failures (rate limits,
// unindexed commits) leave the number unresolved.
func resolvePRNumber(ctx context.Context, commit Commit, hint int, opts Options, lookup PRLookup) int {
	if hint > 0 {
		return hint
	}

	for _, pattern := range []*regexp.Regexp{mergeSubjectPattern, bumpGroupPattern, prRefPattern} {
		m := pattern.FindStringSubmatch(commit.Subject)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}

	if lookup == nil || opts.Owner == "" || opts.Repo == "" {
		return 0
	}
	n, found, err := lookup.SearchPRBySHA(ctx, opts.Owner, opts.Repo, commit.Hash)
	if err != nil || !found {
		return 0
	}
	return n
}

// updateLinesFromBody collects "updates `...`" lines from a dependabot
// commit body.
func updateLinesFromBody(body string, prNumber int, includePR bool) []string {
	var lines []string
	for _, raw := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(strings.ToLower(trimmed), updatesLinePrefix) {
			continue
		}
		lines = append(lines, formatUpdateLine(trimmed, prNumber, includePR))
	}
	return lines
}

// updateLinesFromPR collects update lines from the pull request
// description. Markdown table rows and the "Bumps the ... group" summary
// lines are noise and skipped. Any fetch failure falls through to the
// subject-based fallback.
func updateLinesFromPR(ctx context.Context, lookup PRLookup, opts Options, prNumber int) []string {
	if opts.Owner == "" || opts.Repo == "" {
		return nil
	}
	body, found, err := lookup.PullRequestBody(ctx, opts.Owner, opts.Repo, prNumber)
	if err != nil || !found {
		return nil
	}

	var lines []string
	for _, raw := range strings.Split(body, "\n") {
		if strings.HasPrefix(raw, "|") || strings.Contains(raw, "|---") || strings.Contains(raw, "Bumps the") {
			continue
		}
		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(strings.ToLower(trimmed), updatesLinePrefix) {
			continue
		}
		lines = append(lines, formatUpdateLine(trimmed, prNumber, opts.IncludePRNumbers))
	}
	return lines
}

// formatUpdateLine prefixes an update line with the list marker and
// appends the pull request reference unless the number already appears
// in the line.
func formatUpdateLine(line string, prNumber int, includePR bool) string {
	if includePR && prNumber > 0 && !strings.Contains(line, "#"+strconv.Itoa(prNumber)) {
		return fmt.Sprintf("- %s (#%d)", line, prNumber)
	}
	return "- " + line
}

// cleanSubject normalizes a commit subject for emission. Without PR
// numbers, all " (#N)" tokens are stripped. With PR numbers, the subject
// is kept as-is (it may already reference the pull request) and the
// resolved number is appended only when missing.
func cleanSubject(subject string, prNumber int, includePR bool) string {
	if !includePR {
		return prSuffixPattern.ReplaceAllString(subject, "")
	}
	if prNumber > 0 && !strings.Contains(subject, "#"+strconv.Itoa(prNumber)) {
		return fmt.Sprintf("%s (#%d)", strings.TrimSpace(subject), prNumber)
	}
	return subject
}

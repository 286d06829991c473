package changelog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Section headers of the generated document.
const (
	dependenciesHeader = "## Dependencies updated by dependabot:"
	otherChangesHeader = "## Other changes:"
	majorWarningPrefix = "⚠ WARNING: Major version changes detected: "
)

// Generate assembles the final release notes document from the two
// classification buckets. Dependency lines are consolidated, scanned for
// major version jumps, and sorted; other lines are sorted and
// deduplicated. The result uses "\n" separators with no trailing
// newline; empty input yields the empty string. Neither input slice is
// modified.
func Generate(dependencyLines, otherLines []string) string {
	var out []string

	if len(dependencyLines) > 0 {
		consolidated := Consolidate(dependencyLines)

		if majors := majorVersionChanges(consolidated); len(majors) > 0 {
			sort.Strings(majors)
			out = append(out, majorWarningPrefix+strings.Join(majors, ", "), "")
		}

		sort.Strings(consolidated)
		out = append(out, dependenciesHeader, "")
		out = append(out, consolidated...)
		out = append(out, "")
	}

	if len(otherLines) > 0 {
		others := append([]string(nil), otherLines...)
		sort.Strings(others)
		out = append(out, otherChangesHeader)
		out = append(out, dedupeSorted(others)...)
	}

	return strings.Join(out, "\n")
}

// majorVersionChanges finds consolidated entries whose leading version
// component increased. Only the first dot-separated component is
// compared, and only when both sides parse as non-negative integers;
// tokens like "v2" or dates simply skip the check.
func majorVersionChanges(lines []string) []string {
	var changes []string
	for _, line := range lines {
		m := updatesPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		pkg, from, to := m[1], m[2], m[3]

		fromMajor, okFrom := leadingComponent(from)
		toMajor, okTo := leadingComponent(to)
		if !okFrom || !okTo {
			continue
		}
		if toMajor > fromMajor {
			changes = append(changes, fmt.Sprintf("%s: %s → %s", pkg, from, to))
		}
	}
	return changes
}

// leadingComponent parses the first dot-separated component of a version
// token as a non-negative integer.
func leadingComponent(version string) (int, bool) {
	head, _, _ := strings.Cut(version, ".")
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// dedupeSorted removes adjacent duplicates from a sorted slice.
func dedupeSorted(lines []string) []string {
	deduped := lines[:0]
	for i, line := range lines {
		if i > 0 && line == lines[i-1] {
			continue
		}
		deduped = append(deduped, line)
	}
	return deduped
}

package changelog

import (
	"fmt"
	"sort"
	"strings"
)

// consolidatedEntry accumulates the version range and pull request
// provenance for one package.
type consolidatedEntry struct {
	from      string
	to        string
	prNumbers []int
}

// Consolidate merges raw update lines into one line per package.
//
// Lines must arrive in history traversal order: a new fact only extends
// the accumulated range when one of its version tokens matches a range
// boundary exactly, so processing order decides which chains connect.
// When neither boundary matches (disjoint upgrade chains for the same
// package), the versions of the new fact are dropped and only its pull
// request number is kept. Lines that match no known format pass through
// verbatim after the package lines.
func Consolidate(lines []string) []string {
	entries := make(map[string]*consolidatedEntry)
	var passthrough []string

	for _, line := range lines {
		upd, ok := ParseUpdateLine(line)
		if !ok {
			passthrough = append(passthrough, line)
			continue
		}

		entry, seen := entries[upd.Package]
		if !seen {
			entry = &consolidatedEntry{from: upd.From, to: upd.To}
			entries[upd.Package] = entry
		} else if upd.To == entry.from {
			// The new fact precedes the known range.
			entry.from = upd.From
		} else if upd.From == entry.to {
			// The new fact follows the known range.
			entry.to = upd.To
		}

		if upd.PRNumber > 0 && !containsInt(entry.prNumbers, upd.PRNumber) {
			entry.prNumbers = append(entry.prNumbers, upd.PRNumber)
		}
	}

	packages := make([]string, 0, len(entries))
	for pkg := range entries {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)

	consolidated := make([]string, 0, len(packages)+len(passthrough))
	for _, pkg := range packages {
		consolidated = append(consolidated, formatConsolidated(pkg, entries[pkg]))
	}
	return append(consolidated, passthrough...)
}

// formatConsolidated renders one package line, with the pull request
// suffix sorted highest-first.
func formatConsolidated(pkg string, entry *consolidatedEntry) string {
	line := fmt.Sprintf("- Updates `%s` from %s to %s", pkg, entry.from, entry.to)
	if len(entry.prNumbers) == 0 {
		return line
	}

	numbers := append([]int(nil), entry.prNumbers...)
	sort.Sort(sort.Reverse(sort.IntSlice(numbers)))

	refs := make([]string, len(numbers))
	for i, n := range numbers {
		refs[i] = fmt.Sprintf("#%d", n)
	}
	return fmt.Sprintf("%s  (%s)", line, strings.Join(refs, ", "))
}

func containsInt(haystack []int, needle int) bool {
	for _, n := range haystack {
		if n == needle {
			return true
		}
	}
	return false
}

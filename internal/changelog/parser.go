package changelog

import (
	"regexp"
	"strconv"
)

// The three dependabot line formats, tried in order. The first pattern
// covers the "Updates `pkg` from X to Y" lines found in grouped-update
// commit bodies and PR descriptions; the backtick delimiters allow
// package names with spaces. The bump patterns cover single-update
// subjects with and without a markdown link.
var (
	updatesPattern  = regexp.MustCompile("Updates `([^`]+)` from ([^ ]+) to ([^ ]+)")
	bumpLinkPattern = regexp.MustCompile(`Bumps? \[([^\]]+)\]\([^)]+\) from ([^ ]+) to ([^ ]+)`)
	bumpPattern     = regexp.MustCompile(`Bumps? ([^ ]+) from ([^ ]+) to ([^ ]+)`)

	prRefPattern = regexp.MustCompile(`\(#(\d+)\)`)
)

// ParseUpdateLine extracts a structured upgrade fact from one update
// line. The pull request number is taken from the first "(#N)" reference
// anywhere in the line, independent of which pattern matched. Returns
// false when the line matches none of the known formats; the caller
// treats such lines as opaque text.
func ParseUpdateLine(line string) (ParsedUpdate, bool) {
	for _, pattern := range []*regexp.Regexp{updatesPattern, bumpLinkPattern, bumpPattern} {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return ParsedUpdate{
			Package:  m[1],
			From:     m[2],
			To:       m[3],
			PRNumber: parsePRRef(line),
		}, true
	}
	return ParsedUpdate{}, false
}

// parsePRRef returns the first "(#N)" pull request reference in the
// line, or zero if there is none.
func parsePRRef(line string) int {
	m := prRefPattern.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Package output provides terminal output formatting for the relnotes
// CLI. Chrome (headers, separators) goes to stderr so the generated
// document on stdout stays clean for pipes and the clipboard.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// separatorWidth matches the fixed-width rule printed under the run header.
const separatorWidth = 40

// PrintRunHeader prints the non-terse preamble naming the release
// boundary the walk starts from.
func PrintRunHeader(out io.Writer, ref string) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", bold("Last release:"), cyan(ref))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Commits since %s:\n", cyan(ref))
	fmt.Fprintln(out, strings.Repeat("-", separatorWidth))
}

// PrintRawCommits prints the -x listing: one "hash subject (author)"
// line per commit, newest first, uncolored for easy grepping.
func PrintRawCommits(out io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}

// PrintNotice prints a dim informational message, used for degraded
// preflight steps in terse mode.
func PrintNotice(out io.Writer, message string) {
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s\n", dim(message))
}

// Package progress provides terminal capability detection and the
// spinner shown while classification waits on the GitHub API.
package progress

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// TerminalCapabilities describes what the attached terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// DetectTerminalCapabilities inspects stderr (where all chrome goes, so
// the document on stdout stays pipeable) together with the NO_COLOR and
// RELNOTES_ASCII environment variables.
func DetectTerminalCapabilities() TerminalCapabilities {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("RELNOTES_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// spinnerCharset selects the spinner animation: braille dots on Unicode
// terminals, |/-\ otherwise.
func spinnerCharset(caps TerminalCapabilities) []string {
	if caps.SupportsUnicode {
		return spinner.CharSets[14]
	}
	return spinner.CharSets[9]
}

// LookupSpinner wraps the terminal spinner shown during the GitHub
// lookup phase. On non-TTY output every method is a no-op.
type LookupSpinner struct {
	s *spinner.Spinner
}

// NewLookupSpinner builds a spinner for the given capabilities. The
// returned value is usable even when the terminal is not a TTY.
func NewLookupSpinner(caps TerminalCapabilities, message string) *LookupSpinner {
	if !caps.IsTTY {
		return &LookupSpinner{}
	}

	s := spinner.New(spinnerCharset(caps), 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	if caps.SupportsColor {
		_ = s.Color("cyan")
	}
	return &LookupSpinner{s: s}
}

// Start begins the animation.
func (l *LookupSpinner) Start() {
	if l.s != nil {
		l.s.Start()
	}
}

// Stop halts the animation and clears the line.
func (l *LookupSpinner) Stop() {
	if l.s != nil {
		l.s.Stop()
	}
}

package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTerminalCapabilities_NonTTY(t *testing.T) {
	// Test processes never run with a TTY on stderr.
	caps := DetectTerminalCapabilities()
	assert.False(t, caps.IsTTY)
	assert.False(t, caps.SupportsColor)
	assert.False(t, caps.SupportsUnicode)
	assert.Zero(t, caps.Width)
}

func TestSpinnerCharset(t *testing.T) {
	unicode := spinnerCharset(TerminalCapabilities{SupportsUnicode: true})
	ascii := spinnerCharset(TerminalCapabilities{SupportsUnicode: false})
	assert.NotEqual(t, unicode, ascii)
}

func TestLookupSpinner_NoopWithoutTTY(t *testing.T) {
	s := NewLookupSpinner(TerminalCapabilities{IsTTY: false}, "resolving pull requests")

	// Start/Stop must be safe no-ops.
	s.Start()
	s.Stop()
	assert.Nil(t, s.s)
}

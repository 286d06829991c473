// Package logging provides the zap logger constructors for relnotes.
// The tool is quiet by default; debug logging (-X) switches to a console
// logger writing to stderr so it never mixes with the generated document
// on stdout.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Noop returns a logger that discards everything. This is the default
// so that collaborators can log unconditionally.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// Debug returns a console logger at debug level writing to stderr,
// used when the -X flag is set.
func Debug() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	core, err := cfg.Build()
	if err != nil {
		// The development config is static; Build only fails on
		// misconfiguration, so fall back to silence instead of aborting
		// a best-effort changelog run.
		return Noop()
	}
	return core.Sugar()
}

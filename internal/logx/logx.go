// Package logx is amalgamdb's structured logging setup, grounded on
// cuemby-warren's pkg/log: a single global zerolog.Logger configured once
// at startup, with per-subsystem child loggers carrying a "component"
// field (internal/store takes one named "store") instead of
// the teacher repo's hand-rolled level-filtered stdlib logger.
package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level names the configured minimum severity, matching the vocabulary an
// operator would set via config rather than zerolog's own type.
type Level string

const (
	LevelTrace Level = "trace"
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Config controls global logger initialization.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// Logger is the process-wide logger. Init must be called before any
// subsystem takes a child logger via Component; until then Logger is the
// zerolog zero value, which discards everything.
var Logger zerolog.Logger

// Init configures the global Logger from cfg. Safe to call more than once
// (e.g. when config is reloaded), though existing component loggers taken
// via Component before a re-Init keep referencing the prior configuration.
func Init(cfg Config) {
	var level zerolog.Level
	switch cfg.Level {
	case LevelTrace:
		level = zerolog.TraceLevel
	case LevelDebug:
		level = zerolog.DebugLevel
	case LevelWarn:
		level = zerolog.WarnLevel
	case LevelError:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.JSONOutput {
		Logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
}

// Component returns a child logger tagging every event with the given
// subsystem name, e.g. logx.Component("workpool").
func Component(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// WithSession returns a child logger tagging every event with a session
// correlation id, used by cmd/amalgam to thread one uuid through a whole
// CLI invocation's log lines.
func WithSession(sessionID string) zerolog.Logger {
	return Logger.With().Str("session_id", sessionID).Logger()
}

// Package vidirlog configures the structured logger shared by every vidir
// command, so enumeration, reconciliation, and the editor bridge all emit
// consistently field-tagged log lines instead of ad hoc fmt.Printf calls.
package vidirlog

import (
	"io"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
)

// New builds a logger writing human-readable, colorized lines to stderr;
// -n's dry-run preview is written through it as well. verbosity 0 is
// warn-and-above, 1 (what the CLI's -v flag selects) is info, 2+ is debug.
func New(verbosity int) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := zerolog.ConsoleWriter{Out: colorable.NewColorableStderr(), TimeFormat: time.Kitchen}

	logger := zerolog.New(out).With().Timestamp().Logger()
	logger = logger.Level(levelFor(verbosity))
	return logger
}

func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// Discard is used by callers (and tests) that want reconciliation's
// logging side effects without any actual output.
func Discard() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}

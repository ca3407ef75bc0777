// Package logging configures the zerolog logger shared by the bomtool
// packages.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Output formats
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Setup configures the global logger on stderr. format is "console" or
// "json"; empty falls back to $LOG_FORMAT, then console.
func Setup(verbosity int, format string) {
	SetupWriter(os.Stderr, verbosity, format)
}

// SetupWriter is Setup with an explicit destination
func SetupWriter(out io.Writer, verbosity int, format string) {
	zerolog.SetGlobalLevel(Level(verbosity))

	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}

	var w io.Writer = out
	if !strings.EqualFold(format, FormatJSON) {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    !isTerminal(out),
		}
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	if verbosity >= 2 {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger

	log.Debug().Int("verbosity", verbosity).Str("format", format).Msg("Logger initialized")
}

// Level maps a -v count to a zerolog level
func Level(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Get returns a logger tagged with the component name
func Get(component string) *zerolog.Logger {
	l := log.With().Str("component", component).Logger()
	return &l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

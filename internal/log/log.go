package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger: RFC3339 timestamps and a
// human-readable console writer in dev mode, structured JSON to
// stderr otherwise. Call once from main before any other package logs.
func Init(jsonOutput bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	if jsonOutput {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// SetLevel parses level (e.g. "debug", "info", "warn") and applies it
// globally, falling back to info on an unrecognized value.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

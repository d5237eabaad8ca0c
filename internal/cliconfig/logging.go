package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mansidodiya01/babymonitorwithlora/pkg/log"
)

// Logger returns the console logger used by the CLI at the given level.
func Logger(level string) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(log.ParseLevel(level)).
		With().Timestamp().Logger()
}

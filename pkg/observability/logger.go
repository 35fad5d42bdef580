package observability

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger. Debug switches to human readable console
// output at debug level.
func NewLogger(w io.Writer, debug bool) zerolog.Logger {
	if debug {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

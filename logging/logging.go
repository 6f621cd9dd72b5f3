// Package logging sets up the global zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TimeFormat is time of day with microseconds.
const TimeFormat = "15:04:05.000000"

// Setup logging to w (stdout if nil), at debug level if debug is set.
func Setup(debug bool, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: TimeFormat, NoColor: true}
	log.Logger = zerolog.New(cw).With().Timestamp().Logger()
}

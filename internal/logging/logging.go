// Package logging configures the zerolog logger shared by the commands.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns a logger writing to w.
//   - level: trace, debug, info, warn or error; anything else means info
//   - format: "pretty" for a human-readable console writer, otherwise JSON lines
func Setup(level, format string, w io.Writer) zerolog.Logger {
	var writer io.Writer = w
	if strings.EqualFold(format, "pretty") {
		writer = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
		}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

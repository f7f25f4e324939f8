// Package logger configures the process-wide zerolog root. Everything else
// (services, workers, handlers) derives child loggers from it with
// With().Str("component", ...), so the root stays free of fields.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the root logger from the LOG_LEVEL / LOG_FORMAT settings.
// Format "pretty" gives colorized console output for local development;
// anything else means line-delimited JSON for ingestion. An unparseable
// level falls back to info rather than failing startup.
func Setup(level, format string) zerolog.Logger {
	var writer io.Writer = os.Stdout
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()
}

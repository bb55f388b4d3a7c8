package log

import (
	"io"
	"log/slog"
	"os"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog"

	"github.com/geobrowser/geo-stream/config"
)

func NewLogger(cfg *config.Config) *slog.Logger {
	return New(os.Stderr, cfg.GetLogFormat(), cfg.GetLogLevel())
}

// New builds a zerolog backed slog.Logger writing to w. format is "json" or
// "plain".
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	var zerologLogger zerolog.Logger
	if format == "json" {
		zerologLogger = zerolog.New(w)
	} else {
		zerologLogger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true})
	}
	return slog.New(slogzerolog.Option{Level: level, Logger: &zerologLogger}.NewZerologHandler())
}

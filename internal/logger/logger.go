package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/escalopa/quran-progress/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger from cfg.
// An unknown level falls back to info.
func Setup(cfg config.LogConfig) zerolog.Logger {
	return setup(cfg, os.Stdout)
}

func setup(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	if err != nil {
		log.Warn().Str("level", cfg.Level).Msg("unknown log level, using info")
	}

	return log.Logger
}

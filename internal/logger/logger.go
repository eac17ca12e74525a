package logger

import (
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel applies a configured level string globally. Loggers handed out by
// New carry no per-instance level, so this takes effect on all of them.
func SetLevel(raw string) {
	zerolog.SetGlobalLevel(ParseLevel(raw))
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(raw)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

var Module = fx.Provide(New)

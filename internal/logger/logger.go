// Package logger builds the process-wide structured logger from
// configuration.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/sinembank-ledger/internal/config"
)

// NewLogger returns a JSON slog.Logger at the configured level. Unrecognized
// levels fall back to info. Source locations are attached only when running
// at debug level.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})

	logger := slog.New(handler)
	logger.Info("logger initialized", "level", level)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Package logger builds the process-wide zap logger from config.
package logger

import (
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// New creates a production JSON zap logger at the configured level.
func New(levelStr string) (*zap.Logger, error) {
	var level zapcore.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = zapcore.DebugLevel
	case "info", "":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// RedirectSlog routes the stdlib slog default through zap, so log lines from
// dependencies using slog land in the same stream.
func RedirectSlog(zapLogger *zap.Logger) {
	handler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(handler))
}

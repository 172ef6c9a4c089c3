// Package logging wraps log/slog with a process-wide console logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type LoggingService struct {
	Logger *slog.Logger
}

var DefaultLoggingService *LoggingService

// InitLogger installs a text logger on stdout at the given level and makes it
// the slog default.
func InitLogger(level string) {
	InitLoggerWithWriter(os.Stdout, level)
}

// InitLoggerWithWriter is InitLogger with a custom destination.
func InitLoggerWithWriter(w io.Writer, level string) {
	DefaultLoggingService = &LoggingService{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: ParseLogLevel(level),
		})),
	}
	slog.SetDefault(DefaultLoggingService.Logger)
}

// ParseLogLevel maps a level name to a slog level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logger(level slog.Level) *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Fallback to console logger if not initialized
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return DefaultLoggingService.Logger
}

func Info(msg string, args ...any) {
	logger(slog.LevelInfo).Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger(slog.LevelError).Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger(slog.LevelWarn).Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	if DefaultLoggingService == nil {
		return
	}
	DefaultLoggingService.Logger.Debug(msg, args...)
}

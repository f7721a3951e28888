// Package logger provides structured logging for the application
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu  sync.Mutex
	log = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// Init configures the global logger with the given level ("debug", "info",
// "warn", "error"). Unknown levels fall back to info.
func Init(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	mu.Lock()
	defer mu.Unlock()
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return log
}

// Debug logs a debug message with optional key-value pairs
func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

// Info logs an informational message with optional key-value pairs
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs
func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

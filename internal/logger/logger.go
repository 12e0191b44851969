// Package logger owns the process-wide slog logger. It is initialized once
// from config and safe to use before Init (a default text logger is built
// lazily).
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/soundgraph/soundgraph/internal/config"
)

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// Init sets up the global logger from app config. Safe to call multiple
// times; a nil config yields the defaults.
func Init(c *config.Config) {
	mu.Lock()
	defer mu.Unlock()

	level := "info"
	format := "text"
	component := ""
	withSource := false
	if c != nil {
		level = c.Log.Level
		format = c.Log.Format
		component = c.Log.Component
		withSource = c.Log.Source
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: withSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && format != "json" {
				return slog.String(slog.TimeKey, time.Now().Format("2006-01-02 15:04:05"))
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	base := slog.New(handler)
	if component != "" {
		base = base.With("component", component)
	}
	logger = base
}

// L returns the global logger. Always non-nil.
func L() *slog.Logger {
	mu.RLock()
	if logger != nil {
		defer mu.RUnlock()
		return logger
	}
	mu.RUnlock()

	Init(nil)

	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Package ecslog centralizes structured logging for the ECS runtime
// and its demo command on top of zerolog.
package ecslog

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance every component derives from.
var Logger zerolog.Logger

// Level names a logging verbosity.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config holds logging configuration for Init.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

func init() {
	Init(Config{Level: InfoLevel})
}

// Init (re)configures the global logger. Safe to call before any
// World or Schedule is constructed; components resolved earlier keep
// whatever logger they were handed.
func Init(cfg Config) {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.JSONOutput {
		Logger = zerolog.New(output).With().Timestamp().Logger()
	} else {
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
}

// WithComponent creates a child logger tagged with a component name,
// e.g. "world", "schedule", "ecsdemo".
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithTickID creates a child logger tagged with a tick correlation id.
func WithTickID(tickID string) zerolog.Logger {
	return Logger.With().Str("tick_id", tickID).Logger()
}

// WithSystemID creates a child logger tagged with a system id.
func WithSystemID(systemID uint64) zerolog.Logger {
	return Logger.With().Uint64("system_id", systemID).Logger()
}

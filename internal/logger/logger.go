// Package logger provides the structured logger shared by the library
// packages and the command line tool.  Library code logs through L() and
// stays silent until a program installs a real logger with Set.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	// Level is the minimum log level (trace, debug, info, warn, error,
	// disabled)
	Level string

	// Output is where logs are written (default: os.Stderr)
	Output io.Writer

	// Pretty enables human-readable console output
	Pretty bool

	// TimeFormat for timestamps (default: RFC3339)
	TimeFormat string
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Output:     os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

// New creates a new logger with the given configuration
func New(cfg *Config) (zerolog.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		tf := cfg.TimeFormat
		if tf == "" {
			tf = time.RFC3339
		}
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: tf}
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

// ParseLevel converts a level name to a zerolog.Level.  The empty string
// selects info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off", "none":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
}

var global atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	global.Store(&nop)
}

// Set installs l as the process wide logger.
func Set(l zerolog.Logger) {
	global.Store(&l)
}

// L returns the process wide logger.
func L() *zerolog.Logger {
	return global.Load()
}

// With returns a child of the process wide logger tagged with a component
// name.
func With(component string) zerolog.Logger {
	return L().With().Str("component", component).Logger()
}

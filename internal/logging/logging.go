// Package logging builds the zerolog logger used across chatlog. The TUI owns
// the terminal, so output goes to a file unless a writer is supplied.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log formats
const (
	ConsoleFormat = "console"
	JSONFormat    = "json"

	TimeFormat = "2006-01-02 15:04:05"
)

// Options configure New.
type Options struct {
	Level  string
	Format string
	File   string    // ignored when Output is set
	Output io.Writer // overrides File
}

// New returns a logger and a close function for any file it opened.
func New(opts Options) (zerolog.Logger, func() error, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	closer := func() error { return nil }
	out := opts.Output
	if out == nil {
		path := strings.TrimSpace(opts.File)
		if path == "" {
			return zerolog.Nop(), closer, nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}

	if !strings.EqualFold(strings.TrimSpace(opts.Format), JSONFormat) {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: TimeFormat,
			PartsOrder: []string{
				zerolog.TimestampFieldName,
				zerolog.LevelFieldName,
				"component",
				zerolog.MessageFieldName,
			},
			FieldsExclude: []string{"component"},
			FormatPrepare: func(m map[string]interface{}) error {
				if component, ok := m["component"].(string); ok {
					m["component"] = fmt.Sprintf("[%s]", component)
				}
				return nil
			},
		}
	}

	logger := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

// Component returns a child logger tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// ParseLevel converts a level name, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

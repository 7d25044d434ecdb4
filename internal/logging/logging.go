// Package logging builds the structured loggers used across cflow.
//
// The dashboard owns the terminal, so logging is file-only: Open attaches a
// log file through bubbletea, or returns a logger that discards everything.
package logging

import (
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// FieldComponent is the attribute key carrying the emitting subsystem.
const FieldComponent = "component"

// New returns a text logger writing to w, tagged with component.
func New(w io.Writer, component string, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(FieldComponent, component)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open returns a logger for component. With an empty path it discards and the
// returned closer is a no-op. Otherwise the file is opened through
// tea.LogToFile so the standard log package writes there too.
func Open(path, component string, debug bool) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return Discard(), nopCloser{}, nil
	}
	f, err := tea.LogToFile(path, component)
	if err != nil {
		return nil, nil, err
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return New(f, component, level), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

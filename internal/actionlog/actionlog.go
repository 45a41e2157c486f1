// Package actionlog provides the append-only, line-per-event logs the engine
// leaves behind: one for phase actions applied, one for verification and
// step failures. Each append is a single O_APPEND write, so every line that
// made it to disk is a complete event.
package actionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"offramp/pkg/domain"
)

const (
	actionFile = "offboard-actions.log"
	errorFile  = "offboard-errors.log"
)

// Clock is injected for deterministic timestamps in tests.
type Clock func() time.Time

// Log appends timestamped events to one file.
type Log struct {
	mu    sync.Mutex
	path  string
	clock Clock
}

// Option configures a Log.
type Option func(*Log)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(l *Log) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// NewActionLog opens the phase-action log under dir.
func NewActionLog(dir string, opts ...Option) *Log {
	return newLog(filepath.Join(dir, actionFile), opts...)
}

// NewErrorLog opens the error log under dir.
func NewErrorLog(dir string, opts ...Option) *Log {
	return newLog(filepath.Join(dir, errorFile), opts...)
}

func newLog(path string, opts ...Option) *Log {
	l := &Log{path: path, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Append writes one event line: RFC3339 timestamp, principal, free-form
// reason or action description.
func (l *Log) Append(principal domain.PrincipalName, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log %s: %w", l.path, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%s\n", l.clock().UTC().Format(time.RFC3339), principal, message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append log %s: %w", l.path, err)
	}
	return f.Sync()
}

// Package alertlog writes the append-only alert and audit log.
//
// Each line has the form
//
//	[2006-01-02 15:04:05] [LEVEL] message
//
// The file is opened, appended to and closed for every event, so an external
// logrotate or a deleted file never leaves the monitor holding a stale handle.
package alertlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rileyhilliard/sxmon/internal/errors"
)

// Level is the severity column of a log line.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// TimestampLayout is the time format of the first column.
const TimestampLayout = "2006-01-02 15:04:05"

// Sink accepts alert and audit events.
type Sink interface {
	Append(level Level, message string) error
}

// FormatLine renders one log line, including the trailing newline.
func FormatLine(at time.Time, level Level, message string) string {
	return fmt.Sprintf("[%s] [%s] %s\n", at.Format(TimestampLayout), level, message)
}

// FileSink appends lines to a file on disk.
type FileSink struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileSink creates a sink for path. The file and its directory are created
// on first write.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path, now: time.Now}
}

// WithClock replaces the timestamp source.
func (s *FileSink) WithClock(now func() time.Time) *FileSink {
	s.now = now
	return s
}

// Path returns the log file path.
func (s *FileSink) Path() string {
	return s.path
}

// Append writes one line. The handle is released before returning, on
// success and on error.
func (s *FileSink) Append(level Level, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrSink,
			"Can't create log directory "+filepath.Dir(s.path),
			"Check your permissions, or pass --no-log to disable the alert log.")
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSink,
			"Can't open alert log "+s.path,
			"Check your permissions, or pass --no-log to disable the alert log.")
	}

	_, writeErr := f.WriteString(FormatLine(s.now(), level, message))
	closeErr := f.Close()
	if writeErr != nil {
		return errors.WrapWithCode(writeErr, errors.ErrSink,
			"Can't write to alert log "+s.path,
			"Check free disk space.")
	}
	if closeErr != nil {
		return errors.WrapWithCode(closeErr, errors.ErrSink,
			"Can't close alert log "+s.path,
			"Check free disk space.")
	}
	return nil
}

// Package testing provides test doubles for the alertlog package.
package testing

import (
	"sync"

	"github.com/rileyhilliard/sxmon/internal/alertlog"
)

// Entry is one recorded Append call.
type Entry struct {
	Level   alertlog.Level
	Message string
}

// FakeSink records entries in memory.
type FakeSink struct {
	mu sync.Mutex

	// FailWith, when set, is returned from every Append. Failed appends are
	// still counted in Attempts but not recorded in Entries.
	FailWith error

	Entries  []Entry
	Attempts int
}

// NewFakeSink creates a sink that accepts every entry.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

// Append records the entry or returns FailWith.
func (s *FakeSink) Append(level alertlog.Level, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attempts++
	if s.FailWith != nil {
		return s.FailWith
	}
	s.Entries = append(s.Entries, Entry{Level: level, Message: message})
	return nil
}

// ByLevel returns the messages recorded at level.
func (s *FakeSink) ByLevel(level alertlog.Level) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.Entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// Snapshot returns a copy of the recorded entries.
func (s *FakeSink) Snapshot() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.Entries...)
}

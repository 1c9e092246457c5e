package logger

import (
	"bytes"
	"io"
	"sync"
)

// Deferred holds everything written to it until Release, then forwards the
// held bytes and any later writes to out. Use it for diagnostics while a
// full-screen UI owns the terminal.
type Deferred struct {
	mu       sync.Mutex
	out      io.Writer
	held     bytes.Buffer
	released bool
}

// NewDeferred creates a Deferred that releases to out.
func NewDeferred(out io.Writer) *Deferred {
	return &Deferred{out: out}
}

func (d *Deferred) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return d.out.Write(p)
	}
	return d.held.Write(p)
}

// Release writes the held bytes to out. Calling it again is a no-op.
func (d *Deferred) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return nil
	}
	d.released = true
	_, err := d.held.WriteTo(d.out)
	return err
}

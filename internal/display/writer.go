package display

import (
	"io"
	"sync"

	"github.com/rileyhilliard/sxmon/internal/errors"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

// Writer shows frames on a plain output stream. On a terminal it clears the
// screen before each frame; otherwise frames are appended one after another.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	clear bool
}

// NewWriter creates a writer for out. clear controls screen clearing.
func NewWriter(out io.Writer, clear bool) *Writer {
	return &Writer{out: out, clear: clear}
}

// Show writes one frame.
func (w *Writer) Show(frame string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	text := frame
	if w.clear {
		text = clearScreen + frame
	} else {
		text = frame + "\n"
	}

	if _, err := io.WriteString(w.out, text); err != nil {
		return errors.WrapWithCode(err, errors.ErrDisplay,
			"Can't write the dashboard",
			"Check that the terminal or output pipe is still open.")
	}
	return nil
}

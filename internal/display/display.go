// Package display puts rendered dashboard frames on screen.
//
// Two surfaces exist: a plain Writer that clears the terminal and prints
// each frame, and a Bubble Tea program that shows frames in a scrollable
// alt-screen viewport. Run picks one and drives the monitor loop with it.
package display

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rileyhilliard/sxmon/internal/errors"
	"github.com/rileyhilliard/sxmon/internal/monitor"
)

// LoopFunc runs the monitor loop against a display until ctx ends.
type LoopFunc func(ctx context.Context, d monitor.Display) error

// Options configures Run.
type Options struct {
	// Plain forces the plain writer even on a terminal.
	Plain bool
	// Out is where frames go. Defaults to os.Stdout.
	Out io.Writer
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// UsesTUI reports whether Run takes over the terminal for opts. Anything
// else written to the terminal meanwhile corrupts the screen.
func UsesTUI(opts Options) bool {
	return !opts.Plain && IsTerminal(opts.output())
}

func (o Options) output() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// Run drives loop with the TUI when Out is a terminal, or with a plain
// Writer otherwise. The TUI runs on the calling goroutine and the loop in
// the background; quitting the TUI cancels the loop and waits for it.
func Run(ctx context.Context, opts Options, loop LoopFunc) error {
	out := opts.output()
	if !UsesTUI(opts) {
		return loop(ctx, NewWriter(out, IsTerminal(out)))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(
		NewModel(cancel),
		tea.WithAltScreen(),
		tea.WithOutput(out),
	)
	bridge := NewBridge(program)

	resultChan := make(chan error, 1)
	go func() {
		err := loop(ctx, bridge)
		resultChan <- err
		bridge.LoopDone(err)
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-resultChan
		return errors.WrapWithCode(err, errors.ErrDisplay,
			"The dashboard UI failed",
			"Re-run with --plain to use the plain terminal output.")
	}

	cancel()
	return <-resultChan
}

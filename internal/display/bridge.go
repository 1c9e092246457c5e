package display

import tea "github.com/charmbracelet/bubbletea"

// Bridge forwards frames from the loop goroutine to the Bubble Tea program
// via program.Send. It is goroutine-safe.
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a bridge for program.
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{program: program}
}

// Show implements monitor.Display.
func (b *Bridge) Show(frame string) error {
	b.program.Send(FrameMsg{Frame: frame})
	return nil
}

// LoopDone tells the program the loop has returned.
func (b *Bridge) LoopDone(err error) {
	b.program.Send(loopDoneMsg{err: err})
}

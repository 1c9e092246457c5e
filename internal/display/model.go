package display

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Quit   key.Binding
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Top, k.Bottom}, {k.Quit}}
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	Top: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "bottom"),
	),
}

const footerHeight = 1

var stoppingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))

// Model is the Bubble Tea model wrapping the rendered dashboard in a
// scrollable viewport. Frames arrive as FrameMsg from the loop goroutine.
type Model struct {
	viewport   viewport.Model
	help       help.Model
	ready      bool
	frame      string
	cancelFunc context.CancelFunc
	stopping   bool
	done       bool
	err        error
}

// NewModel creates a model. cancel stops the monitor loop.
func NewModel(cancel context.CancelFunc) Model {
	return Model{
		help:       help.New(),
		cancelFunc: cancel,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		height := msg.Height - footerHeight
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.help.Width = msg.Width
		m.viewport.SetContent(m.frame)
		return m, nil

	case FrameMsg:
		m.frame = msg.Frame
		if m.ready {
			m.viewport.SetContent(m.frame)
		}
		return m, nil

	case loopDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		// Second press quits without waiting for the loop.
		if m.stopping {
			return m, tea.Quit
		}
		m.stopping = true
		if m.cancelFunc != nil {
			m.cancelFunc()
		}
		return m, nil
	case key.Matches(msg, keys.Top):
		if m.ready {
			m.viewport.GotoTop()
		}
		return m, nil
	case key.Matches(msg, keys.Bottom):
		if m.ready {
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return m.frame
	}
	footer := m.help.View(keys)
	if m.stopping && !m.done {
		footer = stoppingStyle.Render("Stopping after the current cycle...")
	}
	return m.viewport.View() + "\n" + footer
}

// Stopping reports whether the user asked to quit.
func (m Model) Stopping() bool {
	return m.stopping
}

// Done reports whether the loop has returned.
func (m Model) Done() bool {
	return m.done
}

// Frame returns the most recent dashboard frame.
func (m Model) Frame() string {
	return m.frame
}

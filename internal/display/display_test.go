package display

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sxmon/internal/errors"
	"github.com/rileyhilliard/sxmon/internal/monitor"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, stderrors.New("broken pipe") }

func TestWriter_ClearsOnTerminal(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	require.NoError(t, w.Show("frame one"))
	require.NoError(t, w.Show("frame two"))

	assert.Equal(t, clearScreen+"frame one"+clearScreen+"frame two", buf.String())
}

func TestWriter_AppendsWhenPiped(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	require.NoError(t, w.Show("a"))
	require.NoError(t, w.Show("b"))

	assert.Equal(t, "a\nb\n", buf.String())
}

func TestWriter_WriteError(t *testing.T) {
	err := NewWriter(failingWriter{}, false).Show("x")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDisplay))
}

func TestRun_PlainForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	var got monitor.Display

	err := Run(context.Background(), Options{Out: &buf}, func(ctx context.Context, d monitor.Display) error {
		got = d
		return d.Show("hello")
	})

	require.NoError(t, err)
	assert.IsType(t, &Writer{}, got)
	assert.Equal(t, "hello\n", buf.String())
}

func TestRun_PropagatesLoopError(t *testing.T) {
	boom := stderrors.New("boom")
	err := Run(context.Background(), Options{Out: &bytes.Buffer{}, Plain: true}, func(context.Context, monitor.Display) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestUsesTUI(t *testing.T) {
	assert.False(t, UsesTUI(Options{Out: &bytes.Buffer{}}))
	assert.False(t, UsesTUI(Options{Out: &bytes.Buffer{}, Plain: true}))
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_FrameBeforeAndAfterResize(t *testing.T) {
	m := NewModel(nil)

	updated, _ := m.Update(FrameMsg{Frame: "cpu 10%"})
	m = updated.(Model)
	assert.Equal(t, "cpu 10%", m.View(), "frames show even before the first resize")

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	assert.Contains(t, m.View(), "cpu 10%")
	assert.Contains(t, m.View(), "quit")

	updated, _ = m.Update(FrameMsg{Frame: "cpu 20%"})
	m = updated.(Model)
	assert.Equal(t, "cpu 20%", m.Frame())
	assert.Contains(t, m.View(), "cpu 20%")
}

func TestModel_QuitCancelsLoop(t *testing.T) {
	cancelled := false
	m := NewModel(func() { cancelled = true })

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)

	assert.True(t, cancelled)
	assert.True(t, m.Stopping())
	assert.False(t, isQuit(cmd), "waits for the loop to finish its cycle")

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	assert.Contains(t, m.View(), "Stopping")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd), "a second press quits immediately")
}

func TestModel_LoopDoneQuits(t *testing.T) {
	m := NewModel(nil)
	boom := stderrors.New("boom")

	updated, cmd := m.Update(loopDoneMsg{err: boom})
	m = updated.(Model)

	assert.True(t, m.Done())
	assert.Equal(t, boom, m.err)
	assert.True(t, isQuit(cmd))
}

func TestModel_ScrollKeysIgnoredBeforeResize(t *testing.T) {
	m := NewModel(nil)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Nil(t, cmd)
	assert.False(t, updated.(Model).Stopping())
}

package alertlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sxmon/internal/errors"
)

func fixedClock() time.Time {
	return time.Date(2026, 4, 5, 9, 8, 7, 0, time.Local)
}

func TestFormatLine(t *testing.T) {
	line := FormatLine(fixedClock(), LevelWarning, "CPU usage high: 85.0%")
	assert.Equal(t, "[2026-04-05 09:08:07] [WARNING] CPU usage high: 85.0%\n", line)
}

func TestFileSink_AppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "health.log")
	sink := NewFileSink(path).WithClock(fixedClock)

	require.NoError(t, sink.Append(LevelInfo, "Monitor started"))
	require.NoError(t, sink.Append(LevelWarning, "Memory usage high: 91.0%"))
	require.NoError(t, sink.Append(LevelInfo, "Monitor stopped"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"[2026-04-05 09:08:07] [INFO] Monitor started\n"+
			"[2026-04-05 09:08:07] [WARNING] Memory usage high: 91.0%\n"+
			"[2026-04-05 09:08:07] [INFO] Monitor stopped\n",
		string(data))
	assert.Equal(t, path, sink.Path())
}

func TestFileSink_PreservesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0644))

	sink := NewFileSink(path).WithClock(fixedClock)
	require.NoError(t, sink.Append(LevelError, "Error: boom"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous run\n[2026-04-05 09:08:07] [ERROR] Error: boom\n", string(data))
}

func TestFileSink_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// A regular file where a directory is expected can't be created through.
	sink := NewFileSink(filepath.Join(blocker, "health.log"))
	err := sink.Append(LevelInfo, "Monitor started")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSink))
}

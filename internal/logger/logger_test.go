package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		verbose   bool
		expectLog bool
	}{
		{name: "logs when SXMON_DEBUG is set", envValue: "1", expectLog: true},
		{name: "logs when SXMON_DEBUG is any value", envValue: "true", expectLog: true},
		{name: "logs in verbose mode", verbose: true, expectLog: true},
		{name: "silent otherwise", expectLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(DebugEnv, tt.envValue)
			} else {
				os.Unsetenv(DebugEnv)
			}
			SetVerbose(tt.verbose)
			defer SetVerbose(false)

			var buf bytes.Buffer
			l := NewWithWriter(&buf, "test")
			l.Debug("test message %s", "arg")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "test message arg")
				assert.Contains(t, buf.String(), `"level":"debug"`)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(Logger)
		level string
		msg   string
	}{
		{"info", func(l Logger) { l.Info("info message %d", 42) }, "info", "info message 42"},
		{"warn", func(l Logger) { l.Warn("warning message") }, "warn", "warning message"},
		{"error", func(l Logger) { l.Error("error message") }, "error", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewWithWriter(&buf, "sink"))

			out := buf.String()
			assert.Contains(t, out, `"level":"`+tt.level+`"`)
			assert.Contains(t, out, tt.msg)
			assert.Contains(t, out, `"component":"sink"`)
		})
	}
}

func TestEnvLogger_NoComponent(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "").Info("hello")

	assert.NotContains(t, buf.String(), "component")
}

func TestNoopLogger(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, l.Messages[0])
	assert.Equal(t, LogMessage{Level: "info", Message: "info msg"}, l.Messages[1])
	assert.Equal(t, LogMessage{Level: "warn", Message: "warn msg"}, l.Messages[2])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, l.Messages[3])
}

func TestBufferLogger_CountAndClear(t *testing.T) {
	l := NewBufferLogger()

	assert.False(t, l.HasLevel("warn"))
	l.Warn("a")
	l.Warn("b")
	assert.True(t, l.HasLevel("warn"))
	assert.Equal(t, 2, l.Count("warn"))

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestDeferred_HoldsUntilRelease(t *testing.T) {
	var out bytes.Buffer
	d := NewDeferred(&out)
	l := NewConsoleLogger(d, "monitor")

	l.Info("Monitor started")
	assert.Empty(t, out.String(), "nothing reaches out while held")

	require.NoError(t, d.Release())
	assert.Contains(t, out.String(), "Monitor started")
	assert.Contains(t, out.String(), "monitor")

	l.Warn("after release")
	assert.Contains(t, out.String(), "after release")

	before := out.Len()
	require.NoError(t, d.Release())
	assert.Equal(t, before, out.Len(), "second release writes nothing")
}

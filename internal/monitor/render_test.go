package monitor

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sxmon/internal/config"
	"github.com/rileyhilliard/sxmon/internal/telemetry"
	telemetrytesting "github.com/rileyhilliard/sxmon/internal/telemetry/testing"
)

func TestMain(m *testing.M) {
	// Plain text keeps rendered frames comparable
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func sampleFrame() Frame {
	ts := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	snap := telemetrytesting.Sample(ts)
	snap.CPU.PerCore = []float64{10, 20, 30, 40, 50, 60}
	snap.CPU.LoadAvg = [3]float64{0.5, 0.25, 0.125}
	return Frame{
		Snapshot: snap,
		State:    LoopState{StartTime: ts.Add(-42 * time.Second), Alerts: 7, Cycles: 9},
		Config:   config.DefaultConfig(),
	}
}

func TestRender_IsDeterministic(t *testing.T) {
	f := sampleFrame()
	f.Trends = map[Metric][]float64{MetricCPU: {1, 2, 3}}
	f.Alerts = []AlertEvent{{Metric: MetricCPU, Message: "CPU usage high: 85.0%"}}

	assert.Equal(t, Render(f), Render(f))
}

func TestRender_Sections(t *testing.T) {
	out := Render(sampleFrame())

	assert.Contains(t, out, "System Health Monitor")
	assert.Contains(t, out, "Usage: 25.0% (4 cores @ 2400 MHz)")
	assert.Contains(t, out, "Load:  0.50, 0.25, 0.12")
	assert.Contains(t, out, "RAM:  50.0% (8.0 GB / 16.0 GB)")
	assert.Contains(t, out, "/: 40.0% (40.0 GB / 100.0 GB)")
	assert.Contains(t, out, "Sent:     10.0 MB")
	assert.Contains(t, out, "Received: 20.0 MB")
	assert.Contains(t, out, "Active Connections: 12")
	assert.Contains(t, out, "init")
	assert.Contains(t, out, "postgres")
	assert.Contains(t, out, "Uptime: 42s | Alerts: 7 | Interval: 5s")
	assert.Contains(t, out, "Press Ctrl+C to exit")

	assert.NotContains(t, out, "Swap:", "no swap configured")
	assert.NotContains(t, out, "Temperature:", "no sensor")
	assert.NotContains(t, out, "Security:", "not probed")
	assert.NotContains(t, out, "Trends:", "no history yet")
	assert.NotContains(t, out, "ALERTS")
}

func TestRender_CoreBars(t *testing.T) {
	out := Render(sampleFrame())

	assert.Contains(t, out, "  Cores: [█░░░░░░░░░] [██░░░░░░░░] [███░░░░░░░] [████░░░░░░] \n")
	assert.Contains(t, out, "         [█████░░░░░] [██████░░░░] \n")
}

func TestRender_OptionalSections(t *testing.T) {
	f := sampleFrame()
	f.Snapshot.Memory.SwapTotal = 4 << 30
	f.Snapshot.Memory.SwapUsed = 1 << 30
	f.Snapshot.Memory.SwapPercent = 25
	f.Snapshot.Temperature = &telemetry.Temperature{Current: 61.5}
	f.Snapshot.Security = telemetry.SecurityStatus{
		telemetry.SubsystemAppArmor: telemetry.StatusEnabled,
		telemetry.SubsystemFirewall: telemetry.StatusActive,
	}
	f.Trends = map[Metric][]float64{MetricCPU: {10, 90}, MetricTemperature: {50, 60}}

	out := Render(f)

	assert.Contains(t, out, "Swap: 25.0% (1.0 GB / 4.0 GB)")
	assert.Contains(t, out, "CPU: 61.5°C")
	assert.Contains(t, out, "AppArmor: enabled | SELinux: unknown | Firewall: active")
	assert.Contains(t, out, "CPU     ▁█")
	assert.Contains(t, out, "Temp    ▁█")
	assert.NotContains(t, out, "Memory  ")
}

func TestRender_ZeroTemperatureHidden(t *testing.T) {
	f := sampleFrame()
	f.Snapshot.Temperature = &telemetry.Temperature{Current: 0}
	assert.NotContains(t, Render(f), "Temperature:")
}

func TestRender_Alerts(t *testing.T) {
	f := sampleFrame()
	f.Alerts = []AlertEvent{
		{Metric: MetricCPU, Message: "CPU usage high: 85.0%"},
		{Metric: MetricDisk, Subject: "/var", Message: "Disk /var usage high: 95.0%"},
	}

	out := Render(f)
	assert.Contains(t, out, "⚠ ALERTS:")
	assert.Contains(t, out, "• CPU usage high: 85.0%")
	assert.Contains(t, out, "• Disk /var usage high: 95.0%")

	f.Config.AlertEnabled = false
	assert.NotContains(t, Render(f), "ALERTS")
}

func TestRender_TopProcessesCapped(t *testing.T) {
	f := sampleFrame()
	f.Snapshot.Processes.TopCPU = []telemetry.Process{
		{Name: "one", CPUPercent: 40},
		{Name: "two", CPUPercent: 30},
		{Name: "three", CPUPercent: 20},
		{Name: "four", CPUPercent: 10},
	}
	f.Snapshot.Processes.TopMemory = nil

	out := Render(f)
	assert.Contains(t, out, "three")
	assert.NotContains(t, out, "four")
	assert.Contains(t, out, "  one                    40.0% CPU")
}

func TestRender_LongProcessNameTruncated(t *testing.T) {
	f := sampleFrame()
	f.Snapshot.Processes.TopCPU = []telemetry.Process{{Name: strings.Repeat("x", 40), CPUPercent: 1}}

	out := Render(f)
	assert.Contains(t, out, strings.Repeat("x", 20)+"    1.0% CPU")
	assert.NotContains(t, out, strings.Repeat("x", 21))
}

func TestRender_UptimeNeverNegative(t *testing.T) {
	f := sampleFrame()
	f.State.StartTime = f.Snapshot.Timestamp.Add(time.Minute)
	assert.Contains(t, Render(f), "Uptime: 0s")
}

func TestRenderError(t *testing.T) {
	out := RenderError(errors.New("first line\nsecond line"))

	require.Contains(t, out, "unrecoverable error")
	assert.Contains(t, out, "  first line\n")
	assert.Contains(t, out, "  second line\n")
}

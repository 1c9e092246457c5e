package monitor

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sxmon/internal/config"
	"github.com/rileyhilliard/sxmon/internal/telemetry"
)

func TestEvaluate_CPUAboveThreshold(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CPUThreshold = 80
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	alerts := Evaluate(telemetry.Snapshot{Timestamp: ts, CPU: telemetry.CPU{Percent: 85.0}}, cfg)

	require.Len(t, alerts, 1)
	assert.Equal(t, MetricCPU, alerts[0].Metric)
	assert.Equal(t, "CPU usage high: 85.0%", alerts[0].Message)
	assert.Contains(t, alerts[0].Message, "85.0%")
	assert.Equal(t, SeverityWarning, alerts[0].Severity)
	assert.Equal(t, ts, alerts[0].Time)
	assert.InDelta(t, 80.0, alerts[0].Threshold, 0.0001)
}

func TestEvaluate_EqualityDoesNotAlert(t *testing.T) {
	cfg := config.DefaultConfig()

	alerts := Evaluate(telemetry.Snapshot{
		CPU:         telemetry.CPU{Percent: cfg.CPUThreshold},
		Memory:      telemetry.Memory{Percent: cfg.MemoryThreshold},
		Disks:       []telemetry.Partition{{Mountpoint: "/", Percent: cfg.DiskThreshold}},
		Temperature: &telemetry.Temperature{Current: cfg.TemperatureThreshold},
	}, cfg)

	assert.Empty(t, alerts)
}

func TestEvaluate_DiskPerPartition(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DiskThreshold = 90

	alerts := Evaluate(telemetry.Snapshot{Disks: []telemetry.Partition{
		{Mountpoint: "/var", Percent: 95},
		{Mountpoint: "/home", Percent: 50},
	}}, cfg)

	require.Len(t, alerts, 1)
	assert.Equal(t, MetricDisk, alerts[0].Metric)
	assert.Equal(t, "/var", alerts[0].Subject)
	assert.Equal(t, "Disk /var usage high: 95.0%", alerts[0].Message)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
}

func TestEvaluate_Temperature(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TemperatureThreshold = 75

	tests := []struct {
		name     string
		temp     *telemetry.Temperature
		alerts   int
		severity Severity
	}{
		{"absent sensor", nil, 0, 0},
		{"zero reading", &telemetry.Temperature{Current: 0}, 0, 0},
		{"below threshold", &telemetry.Temperature{Current: 60}, 0, 0},
		{"above threshold", &telemetry.Temperature{Current: 81, Critical: 100}, 1, SeverityWarning},
		{"at critical point", &telemetry.Temperature{Current: 100, Critical: 100}, 1, SeverityCritical},
		{"unknown critical point", &telemetry.Temperature{Current: 120}, 1, SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := Evaluate(telemetry.Snapshot{Temperature: tt.temp}, cfg)
			require.Len(t, alerts, tt.alerts)
			if tt.alerts == 1 {
				assert.Equal(t, MetricTemperature, alerts[0].Metric)
				assert.Equal(t, tt.severity, alerts[0].Severity)
				assert.Contains(t, alerts[0].Message, "°C")
			}
		})
	}
}

func TestEvaluate_Additive(t *testing.T) {
	cfg := config.DefaultConfig()

	alerts := Evaluate(telemetry.Snapshot{
		CPU:         telemetry.CPU{Percent: 99},
		Memory:      telemetry.Memory{Percent: 91.25},
		Disks:       []telemetry.Partition{{Mountpoint: "/", Percent: 97}, {Mountpoint: "/data", Percent: 92}},
		Temperature: &telemetry.Temperature{Current: 81},
	}, cfg)

	require.Len(t, alerts, 5)
	assert.Equal(t, "Memory usage high: 91.2%", alerts[1].Message)
	assert.Equal(t, "CPU temperature high: 81.0°C", alerts[4].Message)
}

func TestEvaluate_NoHysteresis(t *testing.T) {
	cfg := config.DefaultConfig()
	snap := telemetry.Snapshot{CPU: telemetry.CPU{Percent: 90}}

	assert.Len(t, Evaluate(snap, cfg), 1)
	assert.Len(t, Evaluate(snap, cfg), 1, "a sustained breach alerts every call")
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "critical", SeverityCritical.String())
}

func TestEvaluateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("cpu alert iff percent > threshold", prop.ForAll(
		func(percent, threshold float64) bool {
			cfg := config.DefaultConfig()
			cfg.CPUThreshold = threshold
			alerts := Evaluate(telemetry.Snapshot{CPU: telemetry.CPU{Percent: percent}}, cfg)
			return (len(alerts) == 1) == (percent > threshold)
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(1, 100),
	))

	properties.Property("one disk alert per offending partition", prop.ForAll(
		func(percents []float64, threshold float64) bool {
			cfg := config.DefaultConfig()
			cfg.DiskThreshold = threshold
			disks := make([]telemetry.Partition, len(percents))
			want := 0
			for i, p := range percents {
				disks[i] = telemetry.Partition{Mountpoint: "/m", Percent: p}
				if p > threshold {
					want++
				}
			}
			return len(Evaluate(telemetry.Snapshot{Disks: disks}, cfg)) == want
		},
		gen.SliceOf(gen.Float64Range(0, 100)),
		gen.Float64Range(1, 100),
	))

	properties.Property("zero temperature never alerts", prop.ForAll(
		func(threshold float64) bool {
			cfg := config.DefaultConfig()
			cfg.TemperatureThreshold = threshold
			alerts := Evaluate(telemetry.Snapshot{Temperature: &telemetry.Temperature{Current: 0}}, cfg)
			return len(alerts) == 0
		},
		gen.Float64Range(-50, 150),
	))

	properties.TestingRun(t)
}

package monitor

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/sxmon/internal/config"
	"github.com/rileyhilliard/sxmon/internal/telemetry"
)

// CriticalPercent is the usage level at which a percentage alert is critical.
const CriticalPercent = 95.0

// Severity grades an alert.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	default:
		return "warning"
	}
}

// AlertEvent is a threshold breach detected in the current cycle.
type AlertEvent struct {
	Metric    Metric
	Subject   string // mountpoint for disk alerts
	Message   string
	Severity  Severity
	Value     float64
	Threshold float64
	Time      time.Time
}

// MetricDisk names per-partition disk alerts. Disks aren't kept in History.
const MetricDisk Metric = "disk"

// Evaluate compares a snapshot against the configured thresholds. Rules are
// independent and additive; comparisons are strict, so a value equal to its
// threshold never alerts. No state is kept between calls.
func Evaluate(s telemetry.Snapshot, cfg config.Config) []AlertEvent {
	var alerts []AlertEvent

	if s.CPU.Percent > cfg.CPUThreshold {
		alerts = append(alerts, AlertEvent{
			Metric:    MetricCPU,
			Message:   fmt.Sprintf("CPU usage high: %.1f%%", s.CPU.Percent),
			Severity:  percentSeverity(s.CPU.Percent),
			Value:     s.CPU.Percent,
			Threshold: cfg.CPUThreshold,
			Time:      s.Timestamp,
		})
	}

	if s.Memory.Percent > cfg.MemoryThreshold {
		alerts = append(alerts, AlertEvent{
			Metric:    MetricMemory,
			Message:   fmt.Sprintf("Memory usage high: %.1f%%", s.Memory.Percent),
			Severity:  percentSeverity(s.Memory.Percent),
			Value:     s.Memory.Percent,
			Threshold: cfg.MemoryThreshold,
			Time:      s.Timestamp,
		})
	}

	for _, p := range s.Disks {
		if p.Percent > cfg.DiskThreshold {
			alerts = append(alerts, AlertEvent{
				Metric:    MetricDisk,
				Subject:   p.Mountpoint,
				Message:   fmt.Sprintf("Disk %s usage high: %.1f%%", p.Mountpoint, p.Percent),
				Severity:  percentSeverity(p.Percent),
				Value:     p.Percent,
				Threshold: cfg.DiskThreshold,
				Time:      s.Timestamp,
			})
		}
	}

	// A zero reading means "no usable sensor", never "cold".
	if t := s.Temperature; t != nil && t.Current > 0 && t.Current > cfg.TemperatureThreshold {
		sev := SeverityWarning
		if t.Critical > 0 && t.Current >= t.Critical {
			sev = SeverityCritical
		}
		alerts = append(alerts, AlertEvent{
			Metric:    MetricTemperature,
			Message:   fmt.Sprintf("CPU temperature high: %.1f°C", t.Current),
			Severity:  sev,
			Value:     t.Current,
			Threshold: cfg.TemperatureThreshold,
			Time:      s.Timestamp,
		})
	}

	return alerts
}

func percentSeverity(v float64) Severity {
	if v >= CriticalPercent {
		return SeverityCritical
	}
	return SeverityWarning
}

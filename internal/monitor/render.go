package monitor

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/sxmon/internal/config"
	"github.com/rileyhilliard/sxmon/internal/telemetry"
)

// Dashboard layout constants.
const (
	TopProcessRows = 3
	TrendWidth     = 30
	nameWidth      = 20
	bannerWidth    = 51
	bannerTitle    = "sxmon · System Health Monitor"
)

const gib = 1 << 30
const mib = 1 << 20

// Frame is everything the dashboard shows for one cycle. It holds copies
// only, so a frame can be rendered off the loop goroutine.
type Frame struct {
	Snapshot telemetry.Snapshot
	Alerts   []AlertEvent
	State    LoopState
	Config   config.Config
	Trends   map[Metric][]float64
}

// Render draws the dashboard. It is a pure function of the frame: identical
// frames always produce identical text, and uptime comes from the snapshot
// timestamp rather than the wall clock.
func Render(f Frame) string {
	var b strings.Builder
	s := f.Snapshot
	cfg := f.Config

	writeBanner(&b)

	section(&b, "CPU")
	fmt.Fprintf(&b, "  Usage: %s (%d cores @ %.0f MHz)\n",
		MetricStyle(s.CPU.Percent, cfg.CPUThreshold).Render(fmt.Sprintf("%.1f%%", s.CPU.Percent)),
		s.CPU.LogicalCores, s.CPU.FrequencyMHz)
	fmt.Fprintf(&b, "  Load:  %.2f, %.2f, %.2f\n", s.CPU.LoadAvg[0], s.CPU.LoadAvg[1], s.CPU.LoadAvg[2])
	writeCoreBars(&b, s.CPU.PerCore, cfg.CPUThreshold)

	section(&b, "Memory")
	fmt.Fprintf(&b, "  RAM:  %s (%.1f GB / %.1f GB)\n",
		MetricStyle(s.Memory.Percent, cfg.MemoryThreshold).Render(fmt.Sprintf("%.1f%%", s.Memory.Percent)),
		float64(s.Memory.Used)/gib, float64(s.Memory.Total)/gib)
	if s.Memory.SwapTotal > 0 {
		fmt.Fprintf(&b, "  Swap: %.1f%% (%.1f GB / %.1f GB)\n",
			s.Memory.SwapPercent, float64(s.Memory.SwapUsed)/gib, float64(s.Memory.SwapTotal)/gib)
	}

	section(&b, "Disk")
	for _, p := range s.Disks {
		fmt.Fprintf(&b, "  %s: %s (%.1f GB / %.1f GB)\n",
			p.Mountpoint,
			MetricStyle(p.Percent, cfg.DiskThreshold).Render(fmt.Sprintf("%.1f%%", p.Percent)),
			float64(p.Used)/gib, float64(p.Total)/gib)
	}

	if t := s.Temperature; t != nil && t.Current > 0 {
		section(&b, "Temperature")
		fmt.Fprintf(&b, "  CPU: %s\n",
			MetricStyle(t.Current, cfg.TemperatureThreshold).Render(fmt.Sprintf("%.1f°C", t.Current)))
	}

	section(&b, "Network")
	fmt.Fprintf(&b, "  Sent:     %.1f MB\n", float64(s.Network.BytesSent)/mib)
	fmt.Fprintf(&b, "  Received: %.1f MB\n", float64(s.Network.BytesRecv)/mib)
	fmt.Fprintf(&b, "  Active Connections: %d\n", s.Network.Connections)

	if len(s.Security) > 0 {
		section(&b, "Security")
		fmt.Fprintf(&b, "  AppArmor: %s | SELinux: %s | Firewall: %s\n",
			statusOf(s.Security, telemetry.SubsystemAppArmor),
			statusOf(s.Security, telemetry.SubsystemSELinux),
			statusOf(s.Security, telemetry.SubsystemFirewall))
	}

	section(&b, "Top CPU Processes")
	for _, p := range s.Processes.TopCPU[:min(TopProcessRows, len(s.Processes.TopCPU))] {
		fmt.Fprintf(&b, "  %-*s %6.1f%% CPU\n", nameWidth, truncate(p.Name, nameWidth), p.CPUPercent)
	}

	section(&b, "Top Memory Processes")
	for _, p := range s.Processes.TopMemory[:min(TopProcessRows, len(s.Processes.TopMemory))] {
		fmt.Fprintf(&b, "  %-*s %6.1f%% MEM\n", nameWidth, truncate(p.Name, nameWidth), p.MemoryPercent)
	}

	writeTrends(&b, f.Trends, cfg)

	if cfg.AlertEnabled && len(f.Alerts) > 0 {
		b.WriteString("\n" + AlertHeaderStyle.Render("⚠ ALERTS:") + "\n")
		for _, a := range f.Alerts {
			b.WriteString("  " + AlertStyle.Render("• "+a.Message) + "\n")
		}
	}

	section(&b, "Monitor Stats")
	fmt.Fprintf(&b, "  Uptime: %ds | Alerts: %d | Interval: %ds\n",
		uptimeSeconds(f), f.State.Alerts, cfg.CheckInterval)
	if len(s.Degraded) > 0 {
		b.WriteString("  " + MutedStyle.Render("Partial data: "+strings.Join(s.Degraded, ", ")) + "\n")
	}

	b.WriteString("\n" + FooterStyle.Render("Press Ctrl+C to exit") + "\n")
	return b.String()
}

// RenderError draws the frame shown when the loop stops on a fatal error.
func RenderError(err error) string {
	var b strings.Builder
	writeBanner(&b)
	b.WriteString(AlertHeaderStyle.Render("Monitor stopped on an unrecoverable error:") + "\n")
	for _, line := range strings.Split(err.Error(), "\n") {
		b.WriteString("  " + AlertStyle.Render(line) + "\n")
	}
	return b.String()
}

func writeBanner(b *strings.Builder) {
	inner := bannerWidth
	pad := inner - len([]rune(bannerTitle))
	left := pad / 2
	b.WriteString(TitleStyle.Render("╔"+strings.Repeat("═", inner)+"╗") + "\n")
	b.WriteString(TitleStyle.Render("║"+strings.Repeat(" ", left)+bannerTitle+strings.Repeat(" ", pad-left)+"║") + "\n")
	b.WriteString(TitleStyle.Render("╚"+strings.Repeat("═", inner)+"╝") + "\n")
}

func section(b *strings.Builder, title string) {
	b.WriteString("\n" + SectionStyle.Render(title+":") + "\n")
}

func writeCoreBars(b *strings.Builder, perCore []float64, threshold float64) {
	if len(perCore) == 0 {
		return
	}
	b.WriteString("  Cores: ")
	for i, pct := range perCore {
		if i > 0 && i%CoresPerRow == 0 {
			b.WriteString("\n         ")
		}
		b.WriteString("[" + MetricStyle(pct, threshold).Render(CoreBar(CoreBarWidth, pct)) + "] ")
	}
	b.WriteString("\n")
}

func writeTrends(b *strings.Builder, trends map[Metric][]float64, cfg config.Config) {
	if len(trends) == 0 {
		return
	}
	section(b, "Trends")
	labels := map[Metric]string{MetricCPU: "CPU", MetricMemory: "Memory", MetricTemperature: "Temp"}
	thresholds := map[Metric]float64{
		MetricCPU:         cfg.CPUThreshold,
		MetricMemory:      cfg.MemoryThreshold,
		MetricTemperature: cfg.TemperatureThreshold,
	}
	for _, m := range TrackedMetrics {
		series := trends[m]
		if len(series) == 0 {
			continue
		}
		fmt.Fprintf(b, "  %-7s %s\n", labels[m], RenderSparkline(series, TrendWidth, thresholds[m]))
	}
}

func statusOf(sec telemetry.SecurityStatus, name string) telemetry.Status {
	if st, ok := sec[name]; ok {
		return st
	}
	return telemetry.StatusUnknown
}

func uptimeSeconds(f Frame) int {
	if f.State.StartTime.IsZero() {
		return 0
	}
	d := f.Snapshot.Timestamp.Sub(f.State.StartTime)
	if d < 0 {
		return 0
	}
	return int(d.Seconds())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

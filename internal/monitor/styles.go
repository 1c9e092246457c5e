package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorBorder = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	ColorTextPrimary = lipgloss.Color("#FFFFFF")
	ColorTextMuted   = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#00FFFF") // Neon cyan
	ColorGraph  = lipgloss.Color("#BF40FF") // Neon purple
)

// WarningRatio is the fraction of a threshold at which a metric turns amber.
const WarningRatio = 0.8

// CoreBarWidth is the number of cells in a per-core CPU bar.
const CoreBarWidth = 10

// CoresPerRow is how many per-core bars share one line.
const CoresPerRow = 4

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	AlertHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Bold(true)

	AlertStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)
)

// Level is the color band of a metric relative to its threshold.
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

func (l Level) String() string {
	switch l {
	case LevelCritical:
		return "critical"
	case LevelWarning:
		return "warning"
	default:
		return "normal"
	}
}

// Band classifies value against threshold: critical at or above the
// threshold, warning at or above 80% of it, normal below that.
func Band(value, threshold float64) Level {
	switch {
	case value >= threshold:
		return LevelCritical
	case value >= threshold*WarningRatio:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// LevelColor returns the palette color for a level.
func LevelColor(l Level) lipgloss.Color {
	switch l {
	case LevelCritical:
		return ColorCritical
	case LevelWarning:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// MetricStyle returns a style colored by the value's band.
func MetricStyle(value, threshold float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(LevelColor(Band(value, threshold)))
}

// CoreBar renders a fixed-width bar with int(percent/100*width) filled cells.
func CoreBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

package config

import "time"

// Default threshold and loop values used when the config document omits a key.
const (
	DefaultCPUThreshold         = 80.0
	DefaultMemoryThreshold      = 85.0
	DefaultDiskThreshold        = 90.0
	DefaultTemperatureThreshold = 75.0
	DefaultCheckInterval        = 5
	DefaultHistorySize          = 60
	DefaultTopN                 = 5
)

// Config is the monitor configuration document (config.json).
//
// Config is a value type. Overrides produce a new Config through With rather
// than mutating a shared instance.
type Config struct {
	// Thresholds are percentages, except TemperatureThreshold which is °C.
	CPUThreshold         float64 `json:"cpu_threshold" yaml:"cpu_threshold" mapstructure:"cpu_threshold"`
	MemoryThreshold      float64 `json:"memory_threshold" yaml:"memory_threshold" mapstructure:"memory_threshold"`
	DiskThreshold        float64 `json:"disk_threshold" yaml:"disk_threshold" mapstructure:"disk_threshold"`
	TemperatureThreshold float64 `json:"temperature_threshold" yaml:"temperature_threshold" mapstructure:"temperature_threshold"`

	// CheckInterval is the pause between cycles in whole seconds.
	CheckInterval int `json:"check_interval" yaml:"check_interval" mapstructure:"check_interval"`

	// AlertEnabled controls the dashboard alert section and the alert counter.
	AlertEnabled bool `json:"alert_enabled" yaml:"alert_enabled" mapstructure:"alert_enabled"`

	// LogEnabled controls every write to the alert log.
	LogEnabled bool `json:"log_enabled" yaml:"log_enabled" mapstructure:"log_enabled"`

	// LogFile is the append-only alert log. Supports ~ expansion.
	LogFile string `json:"log_file" yaml:"log_file" mapstructure:"log_file"`

	// HistorySize is the number of samples retained per tracked metric.
	HistorySize int `json:"history_size" yaml:"history_size" mapstructure:"history_size"`

	// TopN is how many processes are kept in each top list.
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`

	// ReportDir is where export mode writes timestamped reports.
	ReportDir string `json:"report_dir" yaml:"report_dir" mapstructure:"report_dir"`
}

// Interval returns CheckInterval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.CheckInterval) * time.Second
}

// Overrides holds command-line overrides. Nil fields leave the config untouched.
type Overrides struct {
	CheckInterval        *int
	CPUThreshold         *float64
	MemoryThreshold      *float64
	DiskThreshold        *float64
	TemperatureThreshold *float64
	DisableAlerts        bool
	DisableLog           bool
}

// Empty reports whether no override is set.
func (o Overrides) Empty() bool {
	return o.CheckInterval == nil &&
		o.CPUThreshold == nil &&
		o.MemoryThreshold == nil &&
		o.DiskThreshold == nil &&
		o.TemperatureThreshold == nil &&
		!o.DisableAlerts &&
		!o.DisableLog
}

// With returns a copy of c with the overrides applied.
func (c Config) With(o Overrides) Config {
	out := c
	if o.CheckInterval != nil {
		out.CheckInterval = *o.CheckInterval
	}
	if o.CPUThreshold != nil {
		out.CPUThreshold = *o.CPUThreshold
	}
	if o.MemoryThreshold != nil {
		out.MemoryThreshold = *o.MemoryThreshold
	}
	if o.DiskThreshold != nil {
		out.DiskThreshold = *o.DiskThreshold
	}
	if o.TemperatureThreshold != nil {
		out.TemperatureThreshold = *o.TemperatureThreshold
	}
	if o.DisableAlerts {
		out.AlertEnabled = false
	}
	if o.DisableLog {
		out.LogEnabled = false
	}
	return out
}

// DefaultConfig returns a config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		CPUThreshold:         DefaultCPUThreshold,
		MemoryThreshold:      DefaultMemoryThreshold,
		DiskThreshold:        DefaultDiskThreshold,
		TemperatureThreshold: DefaultTemperatureThreshold,
		CheckInterval:        DefaultCheckInterval,
		AlertEnabled:         true,
		LogEnabled:           true,
		LogFile:              "~/" + ConfigDir + "/" + LogFileName,
		HistorySize:          DefaultHistorySize,
		TopN:                 DefaultTopN,
		ReportDir:            "~/" + ConfigDir + "/reports",
	}
}

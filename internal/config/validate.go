package config

import (
	"fmt"

	"github.com/rileyhilliard/sxmon/internal/errors"
)

// Validate checks the config for values the monitor can't run with.
func Validate(cfg Config) error {
	if cfg.CheckInterval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("check_interval must be positive, got %d", cfg.CheckInterval),
			"Use a whole number of seconds, like 5.")
	}

	percentages := []struct {
		key   string
		value float64
	}{
		{"cpu_threshold", cfg.CPUThreshold},
		{"memory_threshold", cfg.MemoryThreshold},
		{"disk_threshold", cfg.DiskThreshold},
	}
	for _, p := range percentages {
		if p.value <= 0 || p.value > 100 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be between 0 and 100, got %.1f", p.key, p.value),
				"Thresholds are percentages, e.g. 80 for 80%.")
		}
	}

	if cfg.TemperatureThreshold <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("temperature_threshold must be positive, got %.1f", cfg.TemperatureThreshold),
			"Use a temperature in °C, like 75.")
	}

	if cfg.HistorySize <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history_size must be positive, got %d", cfg.HistorySize),
			"The default of 60 keeps five minutes at a 5s interval.")
	}

	if cfg.TopN <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("top_n must be positive, got %d", cfg.TopN),
			"Use at least 1 to show the busiest process.")
	}

	if cfg.LogEnabled && cfg.LogFile == "" {
		return errors.New(errors.ErrConfig,
			"log_file is empty but logging is enabled",
			"Set log_file or run with --no-log.")
	}

	return nil
}

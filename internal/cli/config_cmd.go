package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sxmon/internal/config"
	"github.com/rileyhilliard/sxmon/internal/errors"
)

// configCmd groups the config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the monitor configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	Long: `Print the configuration the monitor would run with: the config file
merged with defaults and SXMON_* environment overrides.

Examples:
  sxmon config show
  SXMON_CPU_THRESHOLD=60 sxmon config show`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cfgFile, config.Overrides{})
		if err != nil {
			return err
		}
		return writeConfigJSON(cmd.OutOrStdout(), cfg)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Resolve(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit thresholds and interval interactively",
	Long: `Open an interactive form for the thresholds, interval and toggles,
then save the result to the config file.

Examples:
  sxmon config edit
  sxmon --config ./sxmon.json config edit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configEditCommand(cmd.OutOrStdout())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

func writeConfigJSON(w io.Writer, cfg config.Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Can't encode config", "")
	}
	return nil
}

// configEdits holds the form's string inputs.
type configEdits struct {
	CheckInterval        string
	CPUThreshold         string
	MemoryThreshold      string
	DiskThreshold        string
	TemperatureThreshold string
	AlertEnabled         bool
	LogEnabled           bool
}

func editsFromConfig(cfg config.Config) configEdits {
	return configEdits{
		CheckInterval:        strconv.Itoa(cfg.CheckInterval),
		CPUThreshold:         formatFloat(cfg.CPUThreshold),
		MemoryThreshold:      formatFloat(cfg.MemoryThreshold),
		DiskThreshold:        formatFloat(cfg.DiskThreshold),
		TemperatureThreshold: formatFloat(cfg.TemperatureThreshold),
		AlertEnabled:         cfg.AlertEnabled,
		LogEnabled:           cfg.LogEnabled,
	}
}

// apply parses the edits onto cfg and validates the result.
func (e configEdits) apply(cfg config.Config) (config.Config, error) {
	interval, err := strconv.Atoi(strings.TrimSpace(e.CheckInterval))
	if err != nil {
		return cfg, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a whole number of seconds", e.CheckInterval),
			"Use something like 5.")
	}
	out := cfg
	out.CheckInterval = interval

	fields := []struct {
		name  string
		raw   string
		field *float64
	}{
		{"CPU threshold", e.CPUThreshold, &out.CPUThreshold},
		{"memory threshold", e.MemoryThreshold, &out.MemoryThreshold},
		{"disk threshold", e.DiskThreshold, &out.DiskThreshold},
		{"temperature threshold", e.TemperatureThreshold, &out.TemperatureThreshold},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
		if err != nil {
			return cfg, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("'%s' isn't a valid %s", f.raw, f.name),
				"Use a number like 80 or 82.5.")
		}
		*f.field = v
	}

	out.AlertEnabled = e.AlertEnabled
	out.LogEnabled = e.LogEnabled

	if err := config.Validate(out); err != nil {
		return cfg, err
	}
	return out, nil
}

func configEditCommand(w io.Writer) error {
	cfg, path, err := loadConfig(cfgFile, config.Overrides{})
	if err != nil {
		return err
	}

	edits := editsFromConfig(cfg)
	number := func(s string) error {
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return fmt.Errorf("enter a number")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Check interval (seconds)").
				Value(&edits.CheckInterval).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
						return fmt.Errorf("enter a positive whole number")
					}
					return nil
				}),
			huh.NewInput().
				Title("CPU threshold (%)").
				Value(&edits.CPUThreshold).
				Validate(number),
			huh.NewInput().
				Title("Memory threshold (%)").
				Value(&edits.MemoryThreshold).
				Validate(number),
			huh.NewInput().
				Title("Disk threshold (%)").
				Value(&edits.DiskThreshold).
				Validate(number),
			huh.NewInput().
				Title("Temperature threshold (°C)").
				Value(&edits.TemperatureThreshold).
				Validate(number),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show alerts on the dashboard?").
				Value(&edits.AlertEnabled),
			huh.NewConfirm().
				Title("Write alerts to the log file?").
				Description(cfg.LogFile).
				Value(&edits.LogEnabled),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Edit "+path+" directly instead.")
	}

	updated, err := edits.apply(cfg)
	if err != nil {
		return err
	}
	if err := config.Save(path, updated); err != nil {
		return err
	}

	fmt.Fprintf(w, "Saved %s\n", path)
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

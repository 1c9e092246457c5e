package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sxmon/internal/config"
	"github.com/rileyhilliard/sxmon/internal/logger"
)

// Global flags
var (
	cfgFile string
	verbose bool
)

// Monitor flags, registered on the root command
var (
	intervalFlag      int
	cpuThresholdFlag  float64
	memThresholdFlag  float64
	diskThresholdFlag float64
	tempThresholdFlag float64
	noAlertsFlag      bool
	noLogFlag         bool
	plainFlag         bool
	metricsAddrFlag   string
	exportFlag        bool
)

// rootCmd runs the monitor when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "sxmon",
	Short: "Real-time system health monitor",
	Long: `sxmon samples CPU, memory, disk, temperature, network and process
metrics on a fixed interval, draws a live dashboard, and raises alerts when
usage crosses the configured thresholds.

Thresholds and the interval come from ~/.config/sx-monitor/config.json.
Any flag given on the command line overrides the config and is saved back.

Examples:
  sxmon
  sxmon -i 2 --cpu-threshold 70
  sxmon --no-log --plain
  sxmon --metrics-addr 127.0.0.1:9273
  sxmon export --format yaml`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportFlag {
			return exportCommand(cmd.Context(), exportOptions{
				ConfigPath: cfgFile,
				Format:     "json",
				Stdout:     cmd.OutOrStdout(),
			})
		}
		return monitorCommand(cmd.Context(), monitorOptions{
			ConfigPath:  cfgFile,
			Overrides:   overridesFromFlags(cmd),
			Plain:       plainFlag,
			MetricsAddr: metricsAddrFlag,
			Stdout:      cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/sx-monitor/config.json)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print debug logs to stderr")

	rootCmd.Flags().IntVarP(&intervalFlag, "interval", "i", config.DefaultCheckInterval, "seconds between samples")
	rootCmd.Flags().Float64Var(&cpuThresholdFlag, "cpu-threshold", config.DefaultCPUThreshold, "CPU alert threshold (%)")
	rootCmd.Flags().Float64Var(&memThresholdFlag, "mem-threshold", config.DefaultMemoryThreshold, "memory alert threshold (%)")
	rootCmd.Flags().Float64Var(&diskThresholdFlag, "disk-threshold", config.DefaultDiskThreshold, "disk alert threshold (%)")
	rootCmd.Flags().Float64Var(&tempThresholdFlag, "temp-threshold", config.DefaultTemperatureThreshold, "temperature alert threshold (°C)")
	rootCmd.Flags().BoolVar(&noAlertsFlag, "no-alerts", false, "don't show alerts on the dashboard")
	rootCmd.Flags().BoolVar(&noLogFlag, "no-log", false, "don't write the alert log")
	rootCmd.Flags().BoolVar(&plainFlag, "plain", false, "print frames to stdout instead of the full-screen UI")
	rootCmd.Flags().StringVar(&metricsAddrFlag, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.Flags().BoolVar(&exportFlag, "export", false, "write one JSON report and exit (same as 'sxmon export')")
}

// overridesFromFlags returns overrides for the monitor flags the user
// actually set. Defaults shown in --help never override the config file.
func overridesFromFlags(cmd *cobra.Command) config.Overrides {
	flags := cmd.Flags()
	var o config.Overrides
	if flags.Changed("interval") {
		v := intervalFlag
		o.CheckInterval = &v
	}
	if flags.Changed("cpu-threshold") {
		v := cpuThresholdFlag
		o.CPUThreshold = &v
	}
	if flags.Changed("mem-threshold") {
		v := memThresholdFlag
		o.MemoryThreshold = &v
	}
	if flags.Changed("disk-threshold") {
		v := diskThresholdFlag
		o.DiskThreshold = &v
	}
	if flags.Changed("temp-threshold") {
		v := tempThresholdFlag
		o.TemperatureThreshold = &v
	}
	o.DisableAlerts = noAlertsFlag
	o.DisableLog = noLogFlag
	return o
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

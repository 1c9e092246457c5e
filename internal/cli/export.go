package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sxmon/internal/config"
	"github.com/rileyhilliard/sxmon/internal/errors"
	"github.com/rileyhilliard/sxmon/internal/logger"
	"github.com/rileyhilliard/sxmon/internal/report"
	"github.com/rileyhilliard/sxmon/internal/telemetry"
)

var (
	exportFormatFlag string
	exportOutputFlag string
)

// exportCmd writes a one-off system report
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a one-off system report and exit",
	Long: `Collect one sample, including security status, and write it to a file.

Reports go to the report_dir from the config, named
system-report-YYYYMMDD-HHMMSS.json (or .yaml). The monitor loop is not started.

Examples:
  sxmon export
  sxmon export --format yaml
  sxmon export --output /tmp/report.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportCommand(cmd.Context(), exportOptions{
			ConfigPath: cfgFile,
			Format:     exportFormatFlag,
			Output:     exportOutputFlag,
			Stdout:     cmd.OutOrStdout(),
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormatFlag, "format", "f", "json", "report format (json or yaml)")
	exportCmd.Flags().StringVarP(&exportOutputFlag, "output", "o", "", "write the report to this path")
	rootCmd.AddCommand(exportCmd)
}

type exportOptions struct {
	ConfigPath string
	Format     string
	Output     string
	Stdout     io.Writer
}

// exportCommand collects one snapshot and writes it as a report.
func exportCommand(ctx context.Context, opts exportOptions) error {
	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(opts.ConfigPath, config.Overrides{})
	if err != nil {
		return err
	}

	path, err := exportReport(ctx, cfg, format, config.ExpandTilde(opts.Output), newProvider(cfg))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout(opts.Stdout), "Report exported to: %s\n", path)
	return nil
}

// exportReport samples provider once and writes the report, returning its path.
func exportReport(ctx context.Context, cfg config.Config, format report.Format, output string, provider telemetry.Provider) (string, error) {
	log := logger.NewEnvLogger("export")

	spin := newSpinner(stderr, " Collecting system metrics...")
	spin.Start()
	snap, err := telemetry.Collect(ctx, provider, telemetry.CollectOptions{
		TopN:     cfg.TopN,
		Security: true,
		OnPartial: func(category string, err error) {
			log.Debug("partial %s sample: %v", category, err)
		},
	})
	if err != nil {
		spin.Stop()
		return "", errors.WrapWithCode(err, errors.ErrProvider,
			"Couldn't read host metrics for the report",
			"Check that /proc and /sys are mounted and readable.")
	}

	spin.UpdateSuffix(" Writing report...")
	hostname, err := os.Hostname()
	if err != nil {
		log.Warn("can't read hostname: %v", err)
	}

	path, err := report.Write(report.Report{
		Hostname: hostname,
		Version:  GetVersion(),
		Snapshot: snap,
	}, format, config.ExpandTilde(cfg.ReportDir), output)
	spin.Stop()
	if err != nil {
		return "", err
	}

	if len(snap.Degraded) > 0 {
		log.Warn("report is missing: %v", snap.Degraded)
	}
	return path, nil
}

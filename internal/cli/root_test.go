package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sxmon/internal/config"
)

// newMonitorFlagCmd registers the monitor flags on a throwaway command so
// parsing doesn't leak into rootCmd. Registration resets the globals to
// their defaults.
func newMonitorFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "sxmon"}
	cmd.Flags().IntVarP(&intervalFlag, "interval", "i", config.DefaultCheckInterval, "")
	cmd.Flags().Float64Var(&cpuThresholdFlag, "cpu-threshold", config.DefaultCPUThreshold, "")
	cmd.Flags().Float64Var(&memThresholdFlag, "mem-threshold", config.DefaultMemoryThreshold, "")
	cmd.Flags().Float64Var(&diskThresholdFlag, "disk-threshold", config.DefaultDiskThreshold, "")
	cmd.Flags().Float64Var(&tempThresholdFlag, "temp-threshold", config.DefaultTemperatureThreshold, "")
	cmd.Flags().BoolVar(&noAlertsFlag, "no-alerts", false, "")
	cmd.Flags().BoolVar(&noLogFlag, "no-log", false, "")
	return cmd
}

func TestOverridesFromFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, o config.Overrides)
	}{
		{
			name: "no flags",
			args: nil,
			check: func(t *testing.T, o config.Overrides) {
				assert.True(t, o.Empty())
			},
		},
		{
			name: "short interval",
			args: []string{"-i", "2"},
			check: func(t *testing.T, o config.Overrides) {
				require.NotNil(t, o.CheckInterval)
				assert.Equal(t, 2, *o.CheckInterval)
				assert.Nil(t, o.CPUThreshold)
			},
		},
		{
			name: "thresholds",
			args: []string{"--cpu-threshold", "70", "--mem-threshold", "60.5", "--disk-threshold", "95", "--temp-threshold", "80"},
			check: func(t *testing.T, o config.Overrides) {
				require.NotNil(t, o.CPUThreshold)
				require.NotNil(t, o.MemoryThreshold)
				require.NotNil(t, o.DiskThreshold)
				require.NotNil(t, o.TemperatureThreshold)
				assert.Equal(t, 70.0, *o.CPUThreshold)
				assert.Equal(t, 60.5, *o.MemoryThreshold)
				assert.Equal(t, 95.0, *o.DiskThreshold)
				assert.Equal(t, 80.0, *o.TemperatureThreshold)
				assert.Nil(t, o.CheckInterval)
			},
		},
		{
			name: "explicit default still overrides",
			args: []string{"--cpu-threshold", "80"},
			check: func(t *testing.T, o config.Overrides) {
				require.NotNil(t, o.CPUThreshold)
				assert.Equal(t, 80.0, *o.CPUThreshold)
			},
		},
		{
			name: "toggles",
			args: []string{"--no-alerts", "--no-log"},
			check: func(t *testing.T, o config.Overrides) {
				assert.True(t, o.DisableAlerts)
				assert.True(t, o.DisableLog)
				assert.False(t, o.Empty())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newMonitorFlagCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))
			tt.check(t, overridesFromFlags(cmd))
		})
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"export", "config", "version", "completion"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCommandFlags(t *testing.T) {
	for _, name := range []string{"interval", "cpu-threshold", "mem-threshold", "disk-threshold",
		"temp-threshold", "no-alerts", "no-log", "plain", "metrics-addr", "export"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "missing flag --%s", name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	verboseFlag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Empty(t, verboseFlag.Shorthand, "-v is reserved for --version")

	interval := rootCmd.Flags().Lookup("interval")
	require.NotNil(t, interval)
	assert.Equal(t, "i", interval.Shorthand)
}

func TestCompletionGeneration(t *testing.T) {
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"# bash completion", "__start_sxmon"}},
		{"zsh", []string{"#compdef sxmon"}},
		{"fish", []string{"complete -c sxmon"}},
		{"powershell", []string{"Register-ArgumentCompleter"}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			var buf bytes.Buffer
			completionCmd.SetOut(&buf)
			defer completionCmd.SetOut(nil)

			require.NoError(t, completionCmd.RunE(completionCmd, []string{tt.shell}))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	err := completionCmd.Args(completionCmd, []string{"tcsh"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "tcsh"))
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/sxmon/internal/alertlog"
	"github.com/rileyhilliard/sxmon/internal/config"
	"github.com/rileyhilliard/sxmon/internal/display"
	"github.com/rileyhilliard/sxmon/internal/logger"
	"github.com/rileyhilliard/sxmon/internal/metrics"
	"github.com/rileyhilliard/sxmon/internal/monitor"
	"github.com/rileyhilliard/sxmon/internal/telemetry"
)

// MsgStoppedByUser is printed after a graceful stop.
const MsgStoppedByUser = "Monitor stopped by user"

// monitorOptions holds everything the monitor command needs from flags.
type monitorOptions struct {
	ConfigPath  string
	Overrides   config.Overrides
	Plain       bool
	MetricsAddr string
	Stdout      io.Writer
}

// newProvider builds the telemetry source sized for the sampling interval.
// Tests swap it for a fake.
var newProvider = func(cfg config.Config) telemetry.Provider {
	return telemetry.NewHostProviderForInterval(cfg.Interval())
}

// monitorCommand loads config, applies flag overrides and runs the monitor
// until interrupted.
func monitorCommand(ctx context.Context, opts monitorOptions) error {
	cfg, _, err := loadConfig(opts.ConfigPath, opts.Overrides)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runMonitor(ctx, cfg, opts, newProvider(cfg)); err != nil {
		return err
	}

	fmt.Fprintln(stdout(opts.Stdout), MsgStoppedByUser)
	return nil
}

// loadConfig resolves and loads the config, applies overrides and validates
// the result. Non-empty overrides are written back on top of the file's own
// values so the next run picks them up; SXMON_* variables are never persisted.
func loadConfig(explicit string, overrides config.Overrides) (config.Config, string, error) {
	path, err := config.Resolve(explicit)
	if err != nil {
		return config.Config{}, "", err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, path, err
	}

	cfg = cfg.With(overrides)
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, path, err
	}

	if !overrides.Empty() {
		stored, err := config.LoadFile(path)
		if err != nil {
			return config.Config{}, path, err
		}
		if err := config.Save(path, stored.With(overrides)); err != nil {
			return config.Config{}, path, err
		}
	}
	return cfg, path, nil
}

// runMonitor drives the loop on the chosen display, alongside the metrics
// server when an address is set. Whichever stops first stops the other.
func runMonitor(ctx context.Context, cfg config.Config, opts monitorOptions, provider telemetry.Provider) error {
	diag, release := diagnostics(display.Options{Plain: opts.Plain, Out: opts.Stdout})
	defer release()
	log := logger.NewConsoleLogger(diag, "monitor")

	var observers []monitor.CycleObserver
	var publisher *metrics.Publisher
	if opts.MetricsAddr != "" {
		publisher = metrics.NewPublisher()
		observers = append(observers, publisher)
	}

	var sink alertlog.Sink
	if cfg.LogEnabled {
		sink = alertlog.NewFileSink(config.ExpandTilde(cfg.LogFile))
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return display.Run(runCtx, display.Options{Plain: opts.Plain, Out: opts.Stdout},
			func(ctx context.Context, d monitor.Display) error {
				loop := monitor.NewLoop(cfg, monitor.Options{
					Provider:  provider,
					Sink:      sink,
					Display:   d,
					Logger:    log,
					Observers: observers,
					Security:  true,
				})
				return loop.Run(ctx)
			})
	})

	if publisher != nil {
		g.Go(func() error {
			return metrics.Serve(runCtx, opts.MetricsAddr, publisher.Handler(), logger.NewConsoleLogger(diag, "metrics"))
		})
	}

	return g.Wait()
}

// diagnostics returns where log lines go while the monitor runs. With the
// TUI up they are held and printed once the alt-screen is gone.
func diagnostics(opts display.Options) (io.Writer, func()) {
	if !display.UsesTUI(opts) {
		return stderr, func() {}
	}
	held := logger.NewDeferred(stderr)
	return held, func() { _ = held.Release() }
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

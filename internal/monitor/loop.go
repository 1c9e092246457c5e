package monitor

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rileyhilliard/sxmon/internal/alertlog"
	"github.com/rileyhilliard/sxmon/internal/config"
	"github.com/rileyhilliard/sxmon/internal/errors"
	"github.com/rileyhilliard/sxmon/internal/logger"
	"github.com/rileyhilliard/sxmon/internal/telemetry"
)

const tracerName = "github.com/rileyhilliard/sxmon/internal/monitor"

// Audit messages written to the alert log.
const (
	MsgStarted = "Monitor started"
	MsgStopped = "Monitor stopped"
)

// Display is the surface a rendered dashboard is written to.
type Display interface {
	Show(frame string) error
}

// Sleeper waits for d or until ctx is done. It returns false when ctx ended
// the wait.
type Sleeper func(ctx context.Context, d time.Duration) bool

// Options configures a Loop. Provider, Sink and Display are required.
type Options struct {
	Provider  telemetry.Provider
	Sink      alertlog.Sink
	Display   Display
	Logger    logger.Logger
	Observers []CycleObserver
	Tracer    trace.Tracer

	// Security probes the host's security subsystems every cycle.
	Security bool

	// Now and Sleep default to the wall clock.
	Now   func() time.Time
	Sleep Sleeper

	// OnTransition is called on every state change, on the loop goroutine.
	OnTransition func(State)
}

// Loop runs the sample, evaluate, render, sleep cycle. It owns the config,
// the history and the loop state; none of them are touched from another
// goroutine.
type Loop struct {
	cfg       config.Config
	provider  telemetry.Provider
	sink      alertlog.Sink
	display   Display
	log       logger.Logger
	observers []CycleObserver
	tracer    trace.Tracer
	security  bool
	now       func() time.Time
	sleep     Sleeper
	onState   func(State)

	history      *History
	state        LoopState
	phase        State
	sinkFailures int
}

// NewLoop creates a loop for cfg. cfg is copied; later changes by the caller
// have no effect.
func NewLoop(cfg config.Config, opts Options) *Loop {
	l := &Loop{
		cfg:       cfg,
		provider:  opts.Provider,
		sink:      opts.Sink,
		display:   opts.Display,
		log:       opts.Logger,
		observers: opts.Observers,
		tracer:    opts.Tracer,
		security:  opts.Security,
		now:       opts.Now,
		sleep:     opts.Sleep,
		onState:   opts.OnTransition,
		history:   NewHistory(cfg.HistorySize),
		phase:     StateIdle,
	}
	if l.log == nil {
		l.log = logger.Noop()
	}
	if l.tracer == nil {
		l.tracer = otel.Tracer(tracerName)
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.sleep == nil {
		l.sleep = sleepWithContext
	}
	return l
}

// Run cycles until ctx is cancelled or the provider fails fatally.
// Cancellation is only honoured while sleeping: a cycle in progress always
// completes. Run returns nil on cancellation and the fatal error otherwise.
func (l *Loop) Run(ctx context.Context) error {
	l.state = LoopState{StartTime: l.now()}
	l.appendLog(alertlog.LevelInfo, MsgStarted)
	l.log.Info("monitor started (interval %ds)", l.cfg.CheckInterval)

	// The cycle itself runs detached from cancellation so a stop request
	// can't cut a sample short.
	cycleCtx := context.WithoutCancel(ctx)

	for {
		if err := l.runCycle(cycleCtx); err != nil {
			return l.fail(err)
		}

		l.transition(StateSleeping)
		if !l.sleep(ctx, l.cfg.Interval()) {
			l.state.Cancelled = true
			l.transition(StateStopped)
			l.appendLog(alertlog.LevelInfo, MsgStopped)
			l.log.Info("monitor stopped after %d cycles", l.state.Cycles)
			return nil
		}
	}
}

// State returns a copy of the loop state.
func (l *Loop) State() LoopState {
	return l.state
}

// Phase returns the current state machine phase.
func (l *Loop) Phase() State {
	return l.phase
}

// History returns the loop's metric history. Only safe to read once Run has
// returned, or from an observer.
func (l *Loop) History() *History {
	return l.history
}

// Config returns the loop's configuration.
func (l *Loop) Config() config.Config {
	return l.cfg
}

func (l *Loop) runCycle(ctx context.Context) (err error) {
	ctx, span := l.tracer.Start(ctx, "monitor.cycle",
		trace.WithAttributes(attribute.Int("sxmon.cycle", l.state.Cycles+1)))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrProvider,
				fmt.Sprintf("Monitor cycle panicked: %v", r),
				"This is a bug. Re-run with --verbose and report the output.")
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, errors.Summary(err))
		}
	}()

	l.transition(StateSampling)
	snap, err := telemetry.Collect(ctx, l.provider, telemetry.CollectOptions{
		TopN:     l.cfg.TopN,
		Security: l.security,
		Now:      l.now,
		OnPartial: func(category string, err error) {
			l.log.Debug("partial %s sample: %v", category, err)
		},
	})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrProvider,
			"Couldn't read host metrics",
			"Check that /proc and /sys are mounted and readable.")
	}

	l.transition(StateEvaluating)
	l.history.RecordSnapshot(snap)
	alerts := Evaluate(snap, l.cfg)
	for _, a := range alerts {
		l.appendLog(alertlog.LevelWarning, a.Message)
		if l.cfg.AlertEnabled {
			l.state.Alerts++
		}
	}
	l.state.Cycles++
	span.SetAttributes(attribute.Int("sxmon.alerts", len(alerts)))

	l.transition(StateRendering)
	frame := Frame{
		Snapshot: snap,
		Alerts:   alerts,
		State:    l.state,
		Config:   l.cfg,
		Trends:   l.history.Trends(TrendWidth),
	}
	if err := l.display.Show(Render(frame)); err != nil {
		l.log.Warn("display write failed: %v", err)
	}

	report := CycleReport{Snapshot: snap, Alerts: alerts, State: l.state}
	for _, o := range l.observers {
		o.ObserveCycle(report)
	}
	return nil
}

func (l *Loop) fail(err error) error {
	l.transition(StateStopped)
	if showErr := l.display.Show(RenderError(err)); showErr != nil {
		l.log.Warn("display write failed: %v", showErr)
	}
	l.appendLog(alertlog.LevelError, "Error: "+errors.Summary(err))
	l.log.Error("monitor stopped: %s", errors.Summary(err))
	return err
}

// appendLog writes to the alert log when logging is enabled. Failures never
// stop the loop; only the first one is reported above debug level.
func (l *Loop) appendLog(level alertlog.Level, message string) {
	if !l.cfg.LogEnabled || l.sink == nil {
		return
	}
	if err := l.sink.Append(level, message); err != nil {
		l.sinkFailures++
		if l.sinkFailures == 1 {
			l.log.Warn("alert log unavailable, continuing without it: %s", errors.Summary(err))
		} else {
			l.log.Debug("alert log write failed (%d so far): %s", l.sinkFailures, errors.Summary(err))
		}
	}
}

func (l *Loop) transition(s State) {
	l.phase = s
	if l.onState != nil {
		l.onState(s)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

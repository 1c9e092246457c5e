// Package metrics exposes monitor readings in the Prometheus text format.
//
// A Publisher is a monitor.CycleObserver: gauges are updated once per cycle
// on the loop goroutine, and scrapes read them through the registry, which
// does its own locking.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sxerrors "github.com/rileyhilliard/sxmon/internal/errors"
	"github.com/rileyhilliard/sxmon/internal/logger"
	"github.com/rileyhilliard/sxmon/internal/monitor"
)

const namespace = "sxmon"

// Path is where the metrics handler is mounted.
const Path = "/metrics"

// Publisher holds the gauges and counters fed from loop cycles.
type Publisher struct {
	registry *prometheus.Registry

	cpu         prometheus.Gauge
	memory      prometheus.Gauge
	disk        *prometheus.GaugeVec
	temperature prometheus.Gauge
	alerts      *prometheus.CounterVec
	cycles      prometheus.Counter
	degraded    *prometheus.CounterVec
}

// NewPublisher creates a publisher with its own registry.
func NewPublisher() *Publisher {
	p := &Publisher{
		registry: prometheus.NewRegistry(),
		cpu: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_percent",
			Help:      "Overall CPU utilisation in percent.",
		}),
		memory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_percent",
			Help:      "RAM utilisation in percent.",
		}),
		disk: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "disk_percent",
			Help:      "Filesystem utilisation in percent.",
		}, []string{"mountpoint"}),
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "temperature_celsius",
			Help:      "CPU temperature in degrees Celsius, 0 when no sensor is present.",
		}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Threshold breaches detected, by metric.",
		}, []string{"metric"}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Completed monitor cycles.",
		}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_samples_total",
			Help:      "Cycles in which a category only returned partial data.",
		}, []string{"category"}),
	}

	p.registry.MustRegister(p.cpu, p.memory, p.disk, p.temperature, p.alerts, p.cycles, p.degraded)
	return p
}

// ObserveCycle implements monitor.CycleObserver.
func (p *Publisher) ObserveCycle(r monitor.CycleReport) {
	s := r.Snapshot

	p.cpu.Set(s.CPU.Percent)
	p.memory.Set(s.Memory.Percent)

	// Unmounted filesystems shouldn't linger as stale series.
	p.disk.Reset()
	for _, part := range s.Disks {
		p.disk.WithLabelValues(part.Mountpoint).Set(part.Percent)
	}

	if s.Temperature != nil {
		p.temperature.Set(s.Temperature.Current)
	} else {
		p.temperature.Set(0)
	}

	for _, a := range r.Alerts {
		p.alerts.WithLabelValues(string(a.Metric)).Inc()
	}
	for _, c := range s.Degraded {
		p.degraded.WithLabelValues(c).Inc()
	}
	p.cycles.Inc()
}

// Registry returns the publisher's registry.
func (p *Publisher) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Publisher) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	return mux
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log logger.Logger) error {
	if log == nil {
		log = logger.Noop()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return sxerrors.WrapWithCode(err, sxerrors.ErrConfig,
			"Can't listen on "+addr+" for metrics",
			"Pick a free address with --metrics-addr, e.g. 127.0.0.1:9273.")
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ln)
	}()
	log.Info("serving metrics on http://%s%s", ln.Addr(), Path)

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown: %v", err)
		}
		return nil
	}
}

package monitor

import "github.com/rileyhilliard/sxmon/internal/telemetry"

// DefaultHistorySize is the default number of data points to retain per metric.
const DefaultHistorySize = 60

// Metric names a tracked scalar series.
type Metric string

// Tracked metrics.
const (
	MetricCPU         Metric = "cpu"
	MetricMemory      Metric = "memory"
	MetricTemperature Metric = "temperature"
)

// TrackedMetrics lists every series History keeps, in display order.
var TrackedMetrics = []Metric{MetricCPU, MetricMemory, MetricTemperature}

// History keeps a fixed-capacity ring buffer per metric. It has a single
// owner (the control loop) and is not safe for concurrent use.
type History struct {
	capacity int
	series   map[Metric]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history with the given per-metric capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{
		capacity: capacity,
		series:   make(map[Metric]*ringBuffer),
	}
}

// Record appends value to the metric's series, evicting the oldest entry
// once the series is full.
func (h *History) Record(metric Metric, value float64) {
	rb, ok := h.series[metric]
	if !ok {
		rb = newRingBuffer(h.capacity)
		h.series[metric] = rb
	}
	rb.push(value)
}

// RecordSnapshot extracts the tracked scalars from a snapshot. Temperature is
// only recorded when a sensor reading is present.
func (h *History) RecordSnapshot(s telemetry.Snapshot) {
	h.Record(MetricCPU, s.CPU.Percent)
	h.Record(MetricMemory, s.Memory.Percent)
	if s.Temperature != nil && s.Temperature.Current > 0 {
		h.Record(MetricTemperature, s.Temperature.Current)
	}
}

// Series returns every stored value for metric, oldest first.
func (h *History) Series(metric Metric) []float64 {
	rb, ok := h.series[metric]
	if !ok {
		return nil
	}
	return rb.getAll()
}

// Last returns up to n of the most recent values for metric, oldest first.
func (h *History) Last(metric Metric, n int) []float64 {
	rb, ok := h.series[metric]
	if !ok {
		return nil
	}
	return rb.getLast(n)
}

// Len returns the number of values stored for metric.
func (h *History) Len(metric Metric) int {
	rb, ok := h.series[metric]
	if !ok {
		return 0
	}
	return rb.count
}

// Capacity returns the per-metric capacity.
func (h *History) Capacity() int {
	return h.capacity
}

// Trends copies the recent series for every tracked metric. The copies are
// safe to hand to another goroutine.
func (h *History) Trends(n int) map[Metric][]float64 {
	out := make(map[Metric][]float64, len(TrackedMetrics))
	for _, m := range TrackedMetrics {
		if vals := h.Last(m, n); len(vals) > 0 {
			out[m] = vals
		}
	}
	return out
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head is the next write position, so the newest value sits at head-1
	start := (r.head - count + r.size) % r.size

	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}

	return result
}

func (r *ringBuffer) getAll() []float64 {
	return r.getLast(r.count)
}

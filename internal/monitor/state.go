package monitor

import (
	"time"

	"github.com/rileyhilliard/sxmon/internal/telemetry"
)

// State is a control loop phase.
type State int

const (
	StateIdle State = iota
	StateSampling
	StateEvaluating
	StateRendering
	StateSleeping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSampling:
		return "sampling"
	case StateEvaluating:
		return "evaluating"
	case StateRendering:
		return "rendering"
	case StateSleeping:
		return "sleeping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// LoopState is the process-scoped state owned by the loop.
type LoopState struct {
	StartTime time.Time
	Alerts    int // cumulative, not deduplicated
	Cycles    int
	Cancelled bool
}

// CycleReport is handed to observers at the end of each cycle. Observers
// must treat it as read-only.
type CycleReport struct {
	Snapshot telemetry.Snapshot
	Alerts   []AlertEvent
	State    LoopState
}

// CycleObserver receives a report after every completed cycle. Observers run
// on the loop goroutine and must not block.
type CycleObserver interface {
	ObserveCycle(CycleReport)
}

// ObserverFunc adapts a function to CycleObserver.
type ObserverFunc func(CycleReport)

// ObserveCycle calls f.
func (f ObserverFunc) ObserveCycle(r CycleReport) { f(r) }

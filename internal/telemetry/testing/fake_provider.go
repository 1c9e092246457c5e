// Package testing provides test doubles for the telemetry package.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/sxmon/internal/telemetry"
)

// FakeProvider serves scripted snapshots. Each cycle starts with a CPU call,
// which advances to the next scripted snapshot; the last one repeats.
type FakeProvider struct {
	mu sync.Mutex

	// Configuration
	Snapshots []telemetry.Snapshot
	Errors    map[string]error // Per-category non-fatal errors
	FatalAt   int              // 1-based cycle that returns ErrUnavailable; 0 disables
	PanicAt   int              // 1-based cycle whose CPU call panics; 0 disables
	OnCycle   func(cycle int)  // Called at the start of every cycle

	// Call tracking
	Cycles        int
	SecurityCalls int

	current telemetry.Snapshot
}

// NewFakeProvider creates a provider that cycles through the given snapshots.
func NewFakeProvider(snaps ...telemetry.Snapshot) *FakeProvider {
	return &FakeProvider{Snapshots: snaps, Errors: make(map[string]error)}
}

// CPU advances the script and returns the current CPU reading.
func (f *FakeProvider) CPU(ctx context.Context) (telemetry.CPU, error) {
	f.mu.Lock()
	f.Cycles++
	cycle := f.Cycles
	if n := len(f.Snapshots); n > 0 {
		f.current = f.Snapshots[min(cycle, n)-1]
	}
	hook := f.OnCycle
	fatal := f.FatalAt > 0 && cycle >= f.FatalAt
	panics := f.PanicAt > 0 && cycle == f.PanicAt
	cur := f.current.CPU
	err := f.Errors[telemetry.CategoryCPU]
	f.mu.Unlock()

	if hook != nil {
		hook(cycle)
	}
	if panics {
		panic("fake provider: scripted panic")
	}
	if fatal {
		return telemetry.CPU{}, telemetry.ErrUnavailable
	}
	return cur, err
}

// Memory returns the current memory reading.
func (f *FakeProvider) Memory(ctx context.Context) (telemetry.Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Memory, f.Errors[telemetry.CategoryMemory]
}

// Disk returns the current partitions.
func (f *FakeProvider) Disk(ctx context.Context) ([]telemetry.Partition, *telemetry.DiskIO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Disks, f.current.DiskIO, f.Errors[telemetry.CategoryDisk]
}

// Network returns the current network reading.
func (f *FakeProvider) Network(ctx context.Context) (telemetry.Network, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Network, f.Errors[telemetry.CategoryNetwork]
}

// Processes returns the current process table truncated to topN.
func (f *FakeProvider) Processes(ctx context.Context, topN int) (telemetry.Processes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.current.Processes
	if topN >= 0 {
		p.TopCPU = p.TopCPU[:min(topN, len(p.TopCPU))]
		p.TopMemory = p.TopMemory[:min(topN, len(p.TopMemory))]
	}
	return p, f.Errors[telemetry.CategoryProcesses]
}

// Temperature returns the current temperature, nil when absent.
func (f *FakeProvider) Temperature(ctx context.Context) (*telemetry.Temperature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Temperature, f.Errors[telemetry.CategoryTemperature]
}

// Security returns the current security status.
func (f *FakeProvider) Security(ctx context.Context) (telemetry.SecurityStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SecurityCalls++
	return f.current.Security, f.Errors[telemetry.CategorySecurity]
}

// BootTime returns the current boot time.
func (f *FakeProvider) BootTime(ctx context.Context) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.BootTime, f.Errors[telemetry.CategoryBoot]
}

// CycleCount returns how many cycles have started.
func (f *FakeProvider) CycleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Cycles
}

// FakeProber returns a fixed status.
type FakeProber struct {
	Status telemetry.SecurityStatus
	Calls  int
}

// Probe returns the configured status.
func (p *FakeProber) Probe(ctx context.Context) telemetry.SecurityStatus {
	p.Calls++
	return p.Status
}

// Sample builds a typical healthy snapshot for tests.
func Sample(ts time.Time) telemetry.Snapshot {
	return telemetry.Snapshot{
		Timestamp: ts,
		CPU: telemetry.CPU{
			Percent:       25,
			PerCore:       []float64{20, 30, 25, 25},
			FrequencyMHz:  2400,
			PhysicalCores: 2,
			LogicalCores:  4,
		},
		Memory: telemetry.Memory{
			Total:     16 << 30,
			Used:      8 << 30,
			Available: 8 << 30,
			Percent:   50,
		},
		Disks: []telemetry.Partition{
			{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4", Total: 100 << 30, Used: 40 << 30, Free: 60 << 30, Percent: 40},
		},
		Network: telemetry.Network{BytesSent: 10 << 20, BytesRecv: 20 << 20, Connections: 12},
		Processes: telemetry.Processes{
			Total:     3,
			TopCPU:    []telemetry.Process{{PID: 1, Name: "init", CPUPercent: 1.5, MemoryPercent: 0.2}},
			TopMemory: []telemetry.Process{{PID: 42, Name: "postgres", CPUPercent: 0.5, MemoryPercent: 12.5}},
		},
	}
}

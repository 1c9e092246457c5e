package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCPUWindow is how long a CPU measurement blocks.
const DefaultCPUWindow = time.Second

// TemperatureSensors are the CPU sensor families checked, in order of preference.
var TemperatureSensors = []string{"coretemp", "k10temp", "cpu_thermal"}

// HostProvider reads the local host through gopsutil.
type HostProvider struct {
	// CPUWindow bounds the blocking CPU measurement. Zero means DefaultCPUWindow.
	CPUWindow time.Duration
	// Prober answers Security. Nil disables security probing.
	Prober SecurityProber

	src hostSource

	// Process handles are kept between cycles so per-process CPU is measured
	// since the previous sample rather than over the process lifetime.
	mu    sync.Mutex
	procs map[int32]procSampler
}

// NewHostProvider creates a provider with the given CPU window and prober.
func NewHostProvider(window time.Duration, prober SecurityProber) *HostProvider {
	return &HostProvider{CPUWindow: window, Prober: prober}
}

// NewHostProviderForInterval sizes the CPU window and the security probe
// deadline from the sampling interval, see Budget.
func NewHostProviderForInterval(interval time.Duration) *HostProvider {
	window, probe := Budget(interval)
	return NewHostProvider(window, NewCommandProber(probe))
}

// Budget splits a sampling interval into the CPU window (at most half the
// interval) and the security probe deadline (at most a quarter), each capped
// at its default. Both blocking steps together stay under the interval.
func Budget(interval time.Duration) (window, probe time.Duration) {
	return min(DefaultCPUWindow, interval/2), min(DefaultProbeTimeout, interval/4)
}

func (h *HostProvider) window() time.Duration {
	if h.CPUWindow <= 0 {
		return DefaultCPUWindow
	}
	return h.CPUWindow
}

func (h *HostProvider) source() hostSource {
	if h.src == nil {
		return gopsutilSource{}
	}
	return h.src
}

// CPU measures per-core utilisation over the configured window. The overall
// percentage is the mean of the per-core readings.
func (h *HostProvider) CPU(ctx context.Context) (CPU, error) {
	src := h.source()
	var out CPU
	var errs []error

	perCore, err := src.cpuPercent(ctx, h.window())
	if err != nil {
		// Without a single usable reading there's nothing to monitor.
		return out, fmt.Errorf("%w: cpu percent: %v", ErrUnavailable, err)
	}
	out.PerCore = perCore
	out.Percent = mean(perCore)

	if n, err := src.cpuCounts(ctx, false); err == nil {
		out.PhysicalCores = n
	} else {
		errs = append(errs, fmt.Errorf("physical cores: %w", err))
	}
	if n, err := src.cpuCounts(ctx, true); err == nil {
		out.LogicalCores = n
	} else {
		out.LogicalCores = len(perCore)
	}

	if infos, err := src.cpuInfo(ctx); err == nil && len(infos) > 0 {
		out.FrequencyMHz = infos[0].Mhz
	} else if err != nil {
		errs = append(errs, fmt.Errorf("cpu info: %w", err))
	}

	if avg, err := src.loadAvg(ctx); err == nil && avg != nil {
		out.LoadAvg = [3]float64{avg.Load1, avg.Load5, avg.Load15}
	} else if err != nil {
		errs = append(errs, fmt.Errorf("load average: %w", err))
	}

	return out, errors.Join(errs...)
}

// Memory reads RAM and swap usage.
func (h *HostProvider) Memory(ctx context.Context) (Memory, error) {
	src := h.source()
	var out Memory

	vm, err := src.virtualMemory(ctx)
	if err != nil {
		return out, fmt.Errorf("%w: virtual memory: %v", ErrUnavailable, err)
	}
	out.Total = vm.Total
	out.Used = vm.Used
	out.Available = vm.Available
	out.Free = vm.Free
	out.Percent = vm.UsedPercent

	sw, err := src.swapMemory(ctx)
	if err != nil {
		return out, fmt.Errorf("swap memory: %w", err)
	}
	out.SwapTotal = sw.Total
	out.SwapUsed = sw.Used
	out.SwapFree = sw.Free
	out.SwapPercent = sw.UsedPercent

	return out, nil
}

// Disk reads usage for every physical partition. Unreadable partitions are
// skipped and reported in the returned error.
func (h *HostProvider) Disk(ctx context.Context) ([]Partition, *DiskIO, error) {
	src := h.source()
	parts, err := src.partitions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list partitions: %w", err)
	}

	var errs []error
	out := make([]Partition, 0, len(parts))
	for _, p := range parts {
		usage, err := src.diskUsage(ctx, p.Mountpoint)
		if err != nil {
			errs = append(errs, fmt.Errorf("usage %s: %w", p.Mountpoint, err))
			continue
		}
		out = append(out, Partition{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Fstype:     p.Fstype,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			Percent:    usage.UsedPercent,
		})
	}

	var io *DiskIO
	if counters, err := src.diskIO(ctx); err == nil {
		io = &DiskIO{}
		for _, c := range counters {
			io.ReadBytes += c.ReadBytes
			io.WriteBytes += c.WriteBytes
			io.ReadCount += c.ReadCount
			io.WriteCount += c.WriteCount
		}
	} else {
		errs = append(errs, fmt.Errorf("disk io: %w", err))
	}

	return out, io, errors.Join(errs...)
}

// Network reads aggregate interface counters, the inet connection count and
// interface addresses.
func (h *HostProvider) Network(ctx context.Context) (Network, error) {
	src := h.source()
	var out Network
	var errs []error

	if counters, err := src.netIO(ctx); err == nil && len(counters) > 0 {
		out.BytesSent = counters[0].BytesSent
		out.BytesRecv = counters[0].BytesRecv
		out.PacketsSent = counters[0].PacketsSent
		out.PacketsRecv = counters[0].PacketsRecv
	} else if err != nil {
		errs = append(errs, fmt.Errorf("io counters: %w", err))
	}

	// Listing other users' sockets needs privileges; a failure just leaves zero.
	if conns, err := src.connections(ctx); err == nil {
		out.Connections = len(conns)
	} else {
		errs = append(errs, fmt.Errorf("connections: %w", err))
	}

	if ifaces, err := src.interfaces(ctx); err == nil {
		for _, iface := range ifaces {
			entry := Interface{Name: iface.Name}
			for _, a := range iface.Addrs {
				entry.Addrs = append(entry.Addrs, a.Addr)
			}
			out.Interfaces = append(out.Interfaces, entry)
		}
	} else {
		errs = append(errs, fmt.Errorf("interfaces: %w", err))
	}

	return out, errors.Join(errs...)
}

// Processes scans all processes and returns the topN by CPU and by memory.
// Processes that exit mid-scan or deny access are skipped and not counted.
// CPU percent is measured since the previous call, so a process seen for the
// first time reports 0.
func (h *HostProvider) Processes(ctx context.Context, topN int) (Processes, error) {
	src := h.source()
	pids, err := src.pids(ctx)
	if err != nil {
		return Processes{}, fmt.Errorf("list processes: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[int32]procSampler, len(pids))
	all := make([]Process, 0, len(pids))
	for _, pid := range pids {
		if ctx.Err() != nil {
			return Processes{}, ctx.Err()
		}
		p, ok := h.procs[pid]
		if !ok {
			if p, err = src.process(ctx, pid); err != nil {
				continue
			}
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, err := p.PercentWithContext(ctx, 0)
		if err != nil {
			continue
		}
		memPct, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}
		seen[pid] = p
		all = append(all, Process{
			PID:           pid,
			Name:          name,
			CPUPercent:    cpuPct,
			MemoryPercent: float64(memPct),
		})
	}
	// Exited processes drop out of the cache here.
	h.procs = seen

	return RankProcesses(all, topN), nil
}

// RankProcesses picks the topN entries by CPU and by memory. Total is the
// number of processes that were read successfully.
func RankProcesses(all []Process, topN int) Processes {
	out := Processes{Total: len(all)}
	if topN <= 0 {
		return out
	}

	byCPU := append([]Process(nil), all...)
	sort.SliceStable(byCPU, func(i, j int) bool { return byCPU[i].CPUPercent > byCPU[j].CPUPercent })
	out.TopCPU = byCPU[:min(topN, len(byCPU))]

	byMem := append([]Process(nil), all...)
	sort.SliceStable(byMem, func(i, j int) bool { return byMem[i].MemoryPercent > byMem[j].MemoryPercent })
	out.TopMemory = byMem[:min(topN, len(byMem))]

	return out
}

// Temperature returns the first reading from a known CPU sensor family, or
// nil when none is present.
func (h *HostProvider) Temperature(ctx context.Context) (*Temperature, error) {
	src := h.source()
	temps, err := src.temperatures(ctx)
	// gopsutil returns partial readings alongside warnings for unreadable sensors.
	if len(temps) == 0 {
		if err != nil {
			return nil, fmt.Errorf("read sensors: %w", err)
		}
		return nil, nil
	}

	readings := make([]SensorReading, 0, len(temps))
	for _, t := range temps {
		readings = append(readings, SensorReading{
			Key:      t.SensorKey,
			Current:  t.Temperature,
			High:     t.High,
			Critical: t.Critical,
		})
	}
	return PickTemperature(readings), nil
}

// SensorReading is one raw sensor value before family selection.
type SensorReading struct {
	Key      string
	Current  float64
	High     float64
	Critical float64
}

// PickTemperature returns the first reading whose key belongs to a known CPU
// sensor family, honouring the TemperatureSensors order.
func PickTemperature(readings []SensorReading) *Temperature {
	for _, family := range TemperatureSensors {
		for _, r := range readings {
			if strings.HasPrefix(r.Key, family) {
				return &Temperature{Current: r.Current, High: r.High, Critical: r.Critical}
			}
		}
	}
	return nil
}

// Security delegates to the configured prober.
func (h *HostProvider) Security(ctx context.Context) (SecurityStatus, error) {
	if h.Prober == nil {
		return nil, nil
	}
	return h.Prober.Probe(ctx), nil
}

// BootTime returns when the host booted.
func (h *HostProvider) BootTime(ctx context.Context) (time.Time, error) {
	secs, err := h.source().bootTime(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("boot time: %w", err)
	}
	return time.Unix(int64(secs), 0), nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

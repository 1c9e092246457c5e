package telemetry

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/shirou/gopsutil/v4/sensors"
)

// hostSource is the set of gopsutil reads HostProvider makes.
type hostSource interface {
	cpuPercent(ctx context.Context, window time.Duration) ([]float64, error)
	cpuCounts(ctx context.Context, logical bool) (int, error)
	cpuInfo(ctx context.Context) ([]cpu.InfoStat, error)
	loadAvg(ctx context.Context) (*load.AvgStat, error)
	virtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	swapMemory(ctx context.Context) (*mem.SwapMemoryStat, error)
	partitions(ctx context.Context) ([]disk.PartitionStat, error)
	diskUsage(ctx context.Context, path string) (*disk.UsageStat, error)
	diskIO(ctx context.Context) (map[string]disk.IOCountersStat, error)
	netIO(ctx context.Context) ([]net.IOCountersStat, error)
	connections(ctx context.Context) ([]net.ConnectionStat, error)
	interfaces(ctx context.Context) (net.InterfaceStatList, error)
	pids(ctx context.Context) ([]int32, error)
	process(ctx context.Context, pid int32) (procSampler, error)
	temperatures(ctx context.Context) ([]sensors.TemperatureStat, error)
	bootTime(ctx context.Context) (uint64, error)
}

// procSampler is the part of *process.Process used for ranking.
type procSampler interface {
	NameWithContext(ctx context.Context) (string, error)
	PercentWithContext(ctx context.Context, interval time.Duration) (float64, error)
	MemoryPercentWithContext(ctx context.Context) (float32, error)
}

type gopsutilSource struct{}

func (gopsutilSource) cpuPercent(ctx context.Context, window time.Duration) ([]float64, error) {
	return cpu.PercentWithContext(ctx, window, true)
}

func (gopsutilSource) cpuCounts(ctx context.Context, logical bool) (int, error) {
	return cpu.CountsWithContext(ctx, logical)
}

func (gopsutilSource) cpuInfo(ctx context.Context) ([]cpu.InfoStat, error) {
	return cpu.InfoWithContext(ctx)
}

func (gopsutilSource) loadAvg(ctx context.Context) (*load.AvgStat, error) {
	return load.AvgWithContext(ctx)
}

func (gopsutilSource) virtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

func (gopsutilSource) swapMemory(ctx context.Context) (*mem.SwapMemoryStat, error) {
	return mem.SwapMemoryWithContext(ctx)
}

func (gopsutilSource) partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	return disk.PartitionsWithContext(ctx, false)
}

func (gopsutilSource) diskUsage(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}

func (gopsutilSource) diskIO(ctx context.Context) (map[string]disk.IOCountersStat, error) {
	return disk.IOCountersWithContext(ctx)
}

func (gopsutilSource) netIO(ctx context.Context) ([]net.IOCountersStat, error) {
	return net.IOCountersWithContext(ctx, false)
}

func (gopsutilSource) connections(ctx context.Context) ([]net.ConnectionStat, error) {
	return net.ConnectionsWithContext(ctx, "inet")
}

func (gopsutilSource) interfaces(ctx context.Context) (net.InterfaceStatList, error) {
	return net.InterfacesWithContext(ctx)
}

func (gopsutilSource) pids(ctx context.Context) ([]int32, error) {
	return process.PidsWithContext(ctx)
}

func (gopsutilSource) process(ctx context.Context, pid int32) (procSampler, error) {
	return process.NewProcessWithContext(ctx, pid)
}

func (gopsutilSource) temperatures(ctx context.Context) ([]sensors.TemperatureStat, error) {
	return sensors.TemperaturesWithContext(ctx)
}

func (gopsutilSource) bootTime(ctx context.Context) (uint64, error) {
	return host.BootTimeWithContext(ctx)
}

package telemetry

import "time"

// Snapshot is one complete set of readings taken in a single sampling cycle.
// Optional sensor data uses pointers or nil maps so "absent" is distinguishable
// from a measured zero.
type Snapshot struct {
	Timestamp   time.Time      `json:"timestamp" yaml:"timestamp"`
	BootTime    time.Time      `json:"boot_time,omitempty" yaml:"boot_time,omitempty"`
	CPU         CPU            `json:"cpu" yaml:"cpu"`
	Memory      Memory         `json:"memory" yaml:"memory"`
	Disks       []Partition    `json:"disks" yaml:"disks"`
	DiskIO      *DiskIO        `json:"disk_io,omitempty" yaml:"disk_io,omitempty"`
	Network     Network        `json:"network" yaml:"network"`
	Processes   Processes      `json:"processes" yaml:"processes"`
	Temperature *Temperature   `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	Security    SecurityStatus `json:"security,omitempty" yaml:"security,omitempty"`

	// Degraded lists the categories that only returned partial data this cycle.
	Degraded []string `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// CPU contains processor usage information.
type CPU struct {
	Percent       float64    `json:"percent" yaml:"percent"`
	PerCore       []float64  `json:"per_core" yaml:"per_core"`
	FrequencyMHz  float64    `json:"frequency_mhz" yaml:"frequency_mhz"`
	PhysicalCores int        `json:"physical_cores" yaml:"physical_cores"`
	LogicalCores  int        `json:"logical_cores" yaml:"logical_cores"`
	LoadAvg       [3]float64 `json:"load_average" yaml:"load_average"`
}

// Memory contains RAM and swap usage. Sizes are in bytes.
type Memory struct {
	Total       uint64  `json:"total" yaml:"total"`
	Used        uint64  `json:"used" yaml:"used"`
	Available   uint64  `json:"available" yaml:"available"`
	Free        uint64  `json:"free" yaml:"free"`
	Percent     float64 `json:"percent" yaml:"percent"`
	SwapTotal   uint64  `json:"swap_total" yaml:"swap_total"`
	SwapUsed    uint64  `json:"swap_used" yaml:"swap_used"`
	SwapFree    uint64  `json:"swap_free" yaml:"swap_free"`
	SwapPercent float64 `json:"swap_percent" yaml:"swap_percent"`
}

// Partition contains usage for one mounted filesystem.
type Partition struct {
	Device     string  `json:"device" yaml:"device"`
	Mountpoint string  `json:"mountpoint" yaml:"mountpoint"`
	Fstype     string  `json:"fstype" yaml:"fstype"`
	Total      uint64  `json:"total" yaml:"total"`
	Used       uint64  `json:"used" yaml:"used"`
	Free       uint64  `json:"free" yaml:"free"`
	Percent    float64 `json:"percent" yaml:"percent"`
}

// DiskIO contains aggregate block device counters since boot.
type DiskIO struct {
	ReadBytes  uint64 `json:"read_bytes" yaml:"read_bytes"`
	WriteBytes uint64 `json:"write_bytes" yaml:"write_bytes"`
	ReadCount  uint64 `json:"read_count" yaml:"read_count"`
	WriteCount uint64 `json:"write_count" yaml:"write_count"`
}

// Network contains aggregate interface counters and connection info.
type Network struct {
	BytesSent   uint64      `json:"bytes_sent" yaml:"bytes_sent"`
	BytesRecv   uint64      `json:"bytes_recv" yaml:"bytes_recv"`
	PacketsSent uint64      `json:"packets_sent" yaml:"packets_sent"`
	PacketsRecv uint64      `json:"packets_recv" yaml:"packets_recv"`
	Connections int         `json:"active_connections" yaml:"active_connections"`
	Interfaces  []Interface `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
}

// Interface is a network interface and its addresses.
type Interface struct {
	Name  string   `json:"name" yaml:"name"`
	Addrs []string `json:"addrs,omitempty" yaml:"addrs,omitempty"`
}

// Processes contains the process count and the busiest processes.
type Processes struct {
	Total     int       `json:"total" yaml:"total"`
	TopCPU    []Process `json:"top_cpu" yaml:"top_cpu"`
	TopMemory []Process `json:"top_memory" yaml:"top_memory"`
}

// Process is a single process reading.
type Process struct {
	PID           int32   `json:"pid" yaml:"pid"`
	Name          string  `json:"name" yaml:"name"`
	CPUPercent    float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent" yaml:"memory_percent"`
}

// Temperature is a CPU sensor reading in °C. High and Critical are zero when
// the sensor doesn't report them.
type Temperature struct {
	Current  float64 `json:"current" yaml:"current"`
	High     float64 `json:"high" yaml:"high"`
	Critical float64 `json:"critical" yaml:"critical"`
}

// Status is the state of a host security subsystem.
type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusUnknown  Status = "unknown"
)

// SecurityStatus maps a subsystem name (apparmor, selinux, firewall) to its status.
type SecurityStatus map[string]Status

// Security subsystem names.
const (
	SubsystemAppArmor = "apparmor"
	SubsystemSELinux  = "selinux"
	SubsystemFirewall = "firewall"
)

// Subsystems lists security subsystems in display order.
var Subsystems = []string{SubsystemAppArmor, SubsystemSELinux, SubsystemFirewall}

// Package telemetry defines the host metrics provider contract and its
// gopsutil-backed implementation.
//
// Every Provider call is best-effort: a failing sub-reading (an unreadable
// partition, a missing sensor, a process that exits mid-scan) is skipped and
// reported as a degraded category rather than aborting the snapshot. Only
// errors wrapping ErrUnavailable are fatal to the caller.
package telemetry

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a provider failure that makes further sampling pointless.
var ErrUnavailable = errors.New("metrics provider unavailable")

// Provider exposes point-in-time host readings. Implementations must return
// partial results alongside a non-fatal error when a category only partly
// succeeds, and must bound any internal waiting (e.g. a CPU measurement
// window) to a duration known in advance.
type Provider interface {
	CPU(ctx context.Context) (CPU, error)
	Memory(ctx context.Context) (Memory, error)
	Disk(ctx context.Context) ([]Partition, *DiskIO, error)
	Network(ctx context.Context) (Network, error)
	Processes(ctx context.Context, topN int) (Processes, error)
	// Temperature returns nil when no supported sensor exists.
	Temperature(ctx context.Context) (*Temperature, error)
	Security(ctx context.Context) (SecurityStatus, error)
	BootTime(ctx context.Context) (time.Time, error)
}

// Category names used in Snapshot.Degraded.
const (
	CategoryCPU         = "cpu"
	CategoryMemory      = "memory"
	CategoryDisk        = "disk"
	CategoryNetwork     = "network"
	CategoryProcesses   = "processes"
	CategoryTemperature = "temperature"
	CategorySecurity    = "security"
	CategoryBoot        = "boot"
)

// CollectOptions controls what Collect samples.
type CollectOptions struct {
	TopN     int
	Security bool
	Now      func() time.Time
	// OnPartial is called for every category that returned a non-fatal error.
	OnPartial func(category string, err error)
}

// Collect samples every category sequentially and assembles a Snapshot.
// Non-fatal category errors are recorded in Snapshot.Degraded and reported to
// OnPartial. The returned error is either fatal (wraps ErrUnavailable) or the
// context's error when ctx ends mid-collection.
func Collect(ctx context.Context, p Provider, opts CollectOptions) (Snapshot, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	snap := Snapshot{Timestamp: now()}

	check := func(category string, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		snap.Degraded = append(snap.Degraded, category)
		if opts.OnPartial != nil {
			opts.OnPartial(category, err)
		}
		return nil
	}

	var err error
	snap.CPU, err = p.CPU(ctx)
	if err = check(CategoryCPU, err); err != nil {
		return snap, err
	}
	snap.Memory, err = p.Memory(ctx)
	if err = check(CategoryMemory, err); err != nil {
		return snap, err
	}
	snap.Disks, snap.DiskIO, err = p.Disk(ctx)
	if err = check(CategoryDisk, err); err != nil {
		return snap, err
	}
	snap.Network, err = p.Network(ctx)
	if err = check(CategoryNetwork, err); err != nil {
		return snap, err
	}
	snap.Processes, err = p.Processes(ctx, opts.TopN)
	if err = check(CategoryProcesses, err); err != nil {
		return snap, err
	}
	snap.Temperature, err = p.Temperature(ctx)
	if err = check(CategoryTemperature, err); err != nil {
		return snap, err
	}
	snap.BootTime, err = p.BootTime(ctx)
	if err = check(CategoryBoot, err); err != nil {
		return snap, err
	}
	if opts.Security {
		snap.Security, err = p.Security(ctx)
		if err = check(CategorySecurity, err); err != nil {
			return snap, err
		}
	}

	return snap, nil
}

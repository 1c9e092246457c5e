package telemetry

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds a whole Probe call, all subsystems together.
const DefaultProbeTimeout = 2 * time.Second

// SecurityProber reports the state of host security subsystems.
type SecurityProber interface {
	Probe(ctx context.Context) SecurityStatus
}

// Runner executes a command and returns its stdout. A non-zero exit status is
// not an error: the command ran and its output still counts.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// ExecRunner runs the command locally with stderr discarded.
func ExecRunner(ctx context.Context, name string, args ...string) (string, error) {
	command := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	command.Stdout = &stdout

	runErr := command.Run()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return stdout.String(), nil
		}
		return "", runErr
	}
	return stdout.String(), nil
}

// CommandProber asks aa-status, getenforce and systemctl for subsystem state.
type CommandProber struct {
	Run Runner
	// Timeout is the deadline for the whole Probe. Zero means DefaultProbeTimeout.
	Timeout time.Duration
}

// NewCommandProber creates a prober that shells out with the given overall
// timeout. A non-positive timeout means DefaultProbeTimeout.
func NewCommandProber(timeout time.Duration) *CommandProber {
	return &CommandProber{Run: ExecRunner, Timeout: timeout}
}

// Probe checks each subsystem in turn under one shared deadline. It never
// fails: anything it can't determine in time is reported as StatusUnknown.
func (p *CommandProber) Probe(ctx context.Context) SecurityStatus {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return SecurityStatus{
		SubsystemAppArmor: p.probe(ctx, ParseAppArmor, "aa-status"),
		SubsystemSELinux:  p.probe(ctx, ParseSELinux, "getenforce"),
		SubsystemFirewall: p.probe(ctx, ParseFirewall, "systemctl", "is-active", "firewalld"),
	}
}

func (p *CommandProber) probe(ctx context.Context, parse func(string) Status, name string, args ...string) Status {
	if ctx.Err() != nil {
		return StatusUnknown
	}
	run := p.Run
	if run == nil {
		run = ExecRunner
	}

	out, err := run(ctx, name, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return StatusUnknown
		}
		// A missing binary means the subsystem isn't installed.
		out = ""
	}
	return parse(out)
}

// ParseAppArmor maps aa-status output: any output means AppArmor is loaded.
func ParseAppArmor(out string) Status {
	if strings.TrimSpace(out) != "" {
		return StatusEnabled
	}
	return StatusDisabled
}

// ParseSELinux maps getenforce output.
func ParseSELinux(out string) Status {
	switch strings.ToLower(strings.TrimSpace(out)) {
	case "enforcing", "permissive":
		return StatusEnabled
	case "", "disabled":
		return StatusDisabled
	default:
		return StatusUnknown
	}
}

// ParseFirewall maps `systemctl is-active firewalld` output.
func ParseFirewall(out string) Status {
	if strings.TrimSpace(out) == "active" {
		return StatusActive
	}
	return StatusInactive
}

//go:build linux

// Package process_linux implements the governor platform on Linux: the
// process table comes from procfs, power modes map to nice values and I/O
// priority classes, foreground changes are polled from the X server and
// process creation is reported by the netlink process connector.
package process_linux

import (
	"context"
	"fmt"

	gproc "github.com/shirou/gopsutil/v3/process"

	"ecogov/process"
)

// Enumerator reads the process table through gopsutil
type Enumerator struct{}

// NewEnumerator creates a procfs backed enumerator
func NewEnumerator() process.Enumerator {
	return &Enumerator{}
}

func (e *Enumerator) EnumerateProcesses(ctx context.Context) ([]process.ProcessInfo, error) {
	procs, err := gproc.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read /proc: %w", err)
	}

	results := make([]process.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		info, err := processInfo(ctx, p)
		if err != nil {
			// Process may have terminated while we were reading
			continue
		}
		results = append(results, info)
	}

	return results, nil
}

func processInfo(ctx context.Context, p *gproc.Process) (process.ProcessInfo, error) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return process.ProcessInfo{}, fmt.Errorf("failed to read process name: %w", err)
	}

	// pid 1 and kernel threads report 0
	ppid, err := p.PpidWithContext(ctx)
	if err != nil {
		ppid = 0
	}

	return process.ProcessInfo{
		PID:  process.ProcessID(p.Pid),
		PPID: process.ProcessID(ppid),
		Name: name,
	}, nil
}

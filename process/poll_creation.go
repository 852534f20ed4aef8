package process

import (
	"context"
	"fmt"
	"time"
)

// PollingCreationSource detects new processes by diffing consecutive
// snapshots. It is used where the OS offers no creation notification the
// governor can subscribe to.
type PollingCreationSource struct {
	Enumerator Enumerator
	Interval   time.Duration
}

// NewPollingCreationSource creates a poller over e
func NewPollingCreationSource(e Enumerator, interval time.Duration) *PollingCreationSource {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &PollingCreationSource{Enumerator: e, Interval: interval}
}

func (s *PollingCreationSource) Run(ctx context.Context, out chan<- CreationEvent) error {
	prev, err := TakeSnapshot(ctx, s.Enumerator)
	if err != nil {
		return fmt.Errorf("initial process snapshot: %w", err)
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		cur, err := TakeSnapshot(ctx, s.Enumerator)
		if err != nil {
			// transient, keep the previous baseline
			continue
		}

		for _, ev := range NewProcesses(prev, cur) {
			select {
			case out <- ev:
			case <-ctx.Done():
				return nil
			}
		}
		prev = cur
	}
}

// NewProcesses returns the processes of cur that are absent from prev. A pid
// that was reused by a different image or parent counts as new.
func NewProcesses(prev, cur *Snapshot) []CreationEvent {
	var events []CreationEvent
	for _, p := range cur.procs {
		old, ok := prev.Lookup(p.PID)
		if ok && old.PPID == p.PPID && old.Name == p.Name {
			continue
		}
		events = append(events, CreationEvent{PID: p.PID, Name: p.Name})
	}
	return events
}

package process_windows

import (
	"context"

	"ecogov/process"
)

// deliverForeground blocks until the tracker accepts ev or ctx ends.
// The newest foreground change must never be lost, so a full queue applies
// backpressure to the hook thread instead of dropping.
func deliverForeground(ctx context.Context, out chan<- process.ForegroundEvent, ev process.ForegroundEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

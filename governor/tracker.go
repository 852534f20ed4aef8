package governor

import (
	"context"
	"fmt"

	"ecogov/metrics"
	"ecogov/process"
)

// Tracker follows the foreground process. For every change it throttles the
// tree of the previous foreground process and boosts the tree of the new one.
//
// The tracker state is owned by the goroutine calling Run; Handle must not be
// called concurrently.
type Tracker struct {
	applier  *Applier
	pool     *Pool
	resolver process.OwnerResolver
	notify   process.NotificationState
	current  *CurrentForeground
	log      Logger

	last    process.ProcessID
	hasLast bool
}

// NewTracker creates an idle tracker. resolver and notify may be nil.
func NewTracker(applier *Applier, pool *Pool, current *CurrentForeground, resolver process.OwnerResolver, notify process.NotificationState, log Logger) *Tracker {
	if resolver == nil {
		resolver = process.IdentityResolver{}
	}
	if notify == nil {
		notify = process.NeverBusy{}
	}
	if log == nil {
		log = NopLogger()
	}
	return &Tracker{
		applier:  applier,
		pool:     pool,
		resolver: resolver,
		notify:   notify,
		current:  current,
		log:      log,
	}
}

// Foreground returns the tracked pid; ok is false while the tracker is idle
func (t *Tracker) Foreground() (pid process.ProcessID, ok bool) {
	return t.last, t.hasLast
}

// Run consumes events in order until ctx ends or events is closed.
func (t *Tracker) Run(ctx context.Context, events <-chan process.ForegroundEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := t.Handle(ctx, ev); err != nil {
				t.log.Warn(fmt.Sprintf("abandoned foreground change to %d: %v", ev.PID, err))
			}
		}
	}
}

// Handle processes one notification. When the process table cannot be read
// the transition is abandoned, the tracker keeps its previous state and the
// error is returned.
func (t *Tracker) Handle(ctx context.Context, ev process.ForegroundEvent) error {
	pid := t.resolver.ResolveOwner(ev)
	t.log.Debugln("received:", pid)

	if pid == 0 {
		// no owning process, e.g. the desktop lost focus to a closing window
		return nil
	}
	if t.hasLast && pid == t.last {
		return nil
	}

	if t.hasLast {
		prev := t.last
		busy, err := t.notify.Busy()
		if err != nil {
			t.log.Debugln("failed to query notification state:", err)
		}

		if busy {
			t.log.Debugln("detected full screen app! skip throttling", prev)
			metrics.RecordSuppressed()
		} else {
			err := t.pool.Do(ctx, func(ctx context.Context) error {
				_, err := t.applier.Apply(ctx, Throttle, TreeOf(prev))
				return err
			})
			if err != nil {
				return err
			}
		}
	}

	err := t.pool.Do(ctx, func(ctx context.Context) error {
		_, err := t.applier.Apply(ctx, Boost, TreeOf(pid))
		return err
	})
	if err != nil {
		return err
	}

	t.current.Store(pid)
	t.last = pid
	t.hasLast = true
	metrics.RecordTransition(uint32(pid))
	return nil
}

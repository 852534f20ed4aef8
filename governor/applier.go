package governor

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"ecogov/metrics"
	"ecogov/process"
)

// SweepResult summarises one Apply call
type SweepResult struct {
	Attempted int // SetPowerMode calls issued
	Failed    int // calls that returned an error
	Bypassed  int // processes skipped by the bypass policy
}

// Applier resolves the processes a sweep targets and flips their power mode.
// Every call works on a fresh snapshot.
type Applier struct {
	enum     process.Enumerator
	setter   process.PowerSetter
	bypass   *BypassPolicy
	treeOpts []process.ProcTreeOption
	log      Logger

	// toggle failures on protected processes repeat every sweep
	warnLimit *rate.Limiter
}

// NewApplier creates an applier. treeOpts are applied to every ProcTree it builds.
func NewApplier(enum process.Enumerator, setter process.PowerSetter, bypass *BypassPolicy, log Logger, treeOpts ...process.ProcTreeOption) *Applier {
	if log == nil {
		log = NopLogger()
	}
	return &Applier{
		enum:      enum,
		setter:    setter,
		bypass:    bypass,
		treeOpts:  treeOpts,
		log:       log,
		warnLimit: rate.NewLimiter(rate.Every(time.Second), 20),
	}
}

// Apply performs one best-effort sweep. Only a failure to read the process
// table (or ctx ending) is returned; per-process failures are logged and
// counted in the result.
func (a *Applier) Apply(ctx context.Context, action Action, target Target) (SweepResult, error) {
	started := time.Now()

	var (
		res SweepResult
		err error
	)
	if target.All() {
		res, err = a.applyAll(ctx, action)
	} else {
		res, err = a.applyTree(ctx, action, target.PID())
	}

	metrics.RecordSweep(action.String(), target.kind(), started, err)
	if err != nil {
		return res, fmt.Errorf("%s %s: %w", action.verb(), target, err)
	}
	return res, nil
}

func (a *Applier) applyAll(ctx context.Context, action Action) (SweepResult, error) {
	var res SweepResult

	snap, err := process.TakeSnapshot(ctx, a.enum)
	if err != nil {
		return res, err
	}

	for _, p := range snap.Processes() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if a.bypass.Bypassed(p.Name) {
			res.Bypassed++
			continue
		}
		a.toggle(&res, action, p)
	}

	a.log.Debugln(fmt.Sprintf("[%-10s] all processes: %d toggled, %d failed, %d bypassed",
		action.verb(), res.Attempted-res.Failed, res.Failed, res.Bypassed))
	return res, nil
}

func (a *Applier) applyTree(ctx context.Context, action Action, root process.ProcessID) (SweepResult, error) {
	var res SweepResult

	snap, err := process.TakeSnapshot(ctx, a.enum)
	if err != nil {
		return res, err
	}

	if p, ok := snap.Lookup(root); ok {
		if a.bypass.Bypassed(p.Name) {
			a.log.Debugln(fmt.Sprintf("[%-10s] skipping %q", action.verb(), p.Name))
			res.Bypassed++
			return res, nil
		}
		a.log.Debugln(fmt.Sprintf("[%-10s] process %6d: %q", action.verb(), root, p.Name))
	} else {
		a.log.Debugln(fmt.Sprintf("[%-10s] process %6d", action.verb(), root))
	}

	tree := process.NewProcTree(snap, a.treeOpts...)
	for _, p := range tree.Members(root) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if a.bypass.Bypassed(p.Name) {
			res.Bypassed++
			continue
		}
		a.toggle(&res, action, p)
	}

	return res, nil
}

func (a *Applier) toggle(res *SweepResult, action Action, p process.ProcessInfo) {
	mode := action.Mode()
	res.Attempted++

	err := a.setter.SetPowerMode(p.PID, mode)
	metrics.RecordToggle(mode.String(), err)
	if err != nil {
		res.Failed++
		msg := fmt.Sprintf("failed to %s %d %q: %v", action, p.PID, p.Name, err)
		if a.warnLimit.Allow() {
			a.log.Warn(msg)
		} else {
			a.log.Debugln(msg)
		}
	}
}

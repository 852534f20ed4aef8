package governor

import (
	"context"
	"fmt"

	"ecogov/config"
	"ecogov/metrics"
	"ecogov/process"
)

// Admission decisions, also used as metric labels
const (
	DecisionThrottle        = "throttled"
	DecisionBypassed        = "bypassed"
	DecisionForegroundChild = "foreground_child"
	DecisionNotBlacklisted  = "not_blacklisted"
)

// AdmissionFilter decides, when a process is created, whether to throttle it
// right away.
type AdmissionFilter struct {
	mode      config.ListenNewProcessMode
	bypass    *BypassPolicy
	blacklist NameSet
	current   *CurrentForeground
	enum      process.Enumerator
	setter    process.PowerSetter
	pool      *Pool
	treeOpts  []process.ProcTreeOption
	log       Logger
}

// AdmissionOptions configures an AdmissionFilter
type AdmissionOptions struct {
	Mode      config.ListenNewProcessMode
	Bypass    *BypassPolicy
	Blacklist NameSet
	Current   *CurrentForeground
	Enum      process.Enumerator
	Setter    process.PowerSetter
	Pool      *Pool
	TreeOpts  []process.ProcTreeOption
	Log       Logger
}

// NewAdmissionFilter creates a filter from opts
func NewAdmissionFilter(opts AdmissionOptions) *AdmissionFilter {
	if opts.Mode == "" {
		opts.Mode = config.ModeNormal
	}
	if opts.Current == nil {
		opts.Current = &CurrentForeground{}
	}
	if opts.Pool == nil {
		opts.Pool = NewPool(1)
	}
	if opts.Log == nil {
		opts.Log = NopLogger()
	}
	return &AdmissionFilter{
		mode:      opts.Mode,
		bypass:    opts.Bypass,
		blacklist: opts.Blacklist,
		current:   opts.Current,
		enum:      opts.Enum,
		setter:    opts.Setter,
		pool:      opts.Pool,
		treeOpts:  opts.TreeOpts,
		log:       opts.Log,
	}
}

// Decide returns the decision for a new process; only DecisionThrottle leads
// to a power mode change.
func (f *AdmissionFilter) Decide(ctx context.Context, ev process.CreationEvent) string {
	// A bypassed name is never touched, whatever the mode
	if f.bypass.Bypassed(ev.Name) {
		return DecisionBypassed
	}

	switch f.mode {
	case config.ModeBlacklistOnly:
		if !f.blacklist.Contains(ev.Name) {
			return DecisionNotBlacklisted
		}
	default:
		fg := f.current.Load()
		if fg != 0 && f.inTree(ctx, fg, ev.PID) {
			return DecisionForegroundChild
		}
	}

	return DecisionThrottle
}

// inTree reports false when the process table cannot be read
func (f *AdmissionFilter) inTree(ctx context.Context, root, pid process.ProcessID) bool {
	snap, err := process.TakeSnapshot(ctx, f.enum)
	if err != nil {
		f.log.Debugln("admission snapshot failed:", err)
		return false
	}
	return process.NewProcTree(snap, f.treeOpts...).IsInTree(root, pid)
}

// Handle evaluates one event and throttles the process if the policy says so
func (f *AdmissionFilter) Handle(ctx context.Context, ev process.CreationEvent) error {
	return f.pool.Do(ctx, func(ctx context.Context) error {
		decision := f.Decide(ctx, ev)
		metrics.RecordAdmission(decision)
		if decision != DecisionThrottle {
			if decision == DecisionForegroundChild {
				f.log.Debugln(fmt.Sprintf("skipping %q: foreground process child", ev.Name))
			}
			return nil
		}

		err := f.setter.SetPowerMode(ev.PID, process.PowerThrottle)
		metrics.RecordToggle(process.PowerThrottle.String(), err)
		if err != nil {
			return fmt.Errorf("throttle new process %d %q: %w", ev.PID, ev.Name, err)
		}
		f.log.Debugln(fmt.Sprintf("throttled new process %d: %q", ev.PID, ev.Name))
		return nil
	})
}

// Run consumes events until ctx ends or events is closed. A failing event is
// logged and the subscription keeps going.
func (f *AdmissionFilter) Run(ctx context.Context, events <-chan process.CreationEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := f.Handle(ctx, ev); err != nil {
				f.log.Warn(err)
			}
		}
	}
}

// Package governor keeps the power mode of processes in line with the
// foreground application: the foreground process tree is boosted, everything
// else is throttled.
package governor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"ecogov/config"
	"ecogov/metrics"
	"ecogov/process"
)

// ErrSubscription wraps failures to set up a notification source
var ErrSubscription = errors.New("subscription failed")

// Governor wires the trackers to the platform collaborators
type Governor struct {
	cfg      *config.Config
	platform process.Platform
	bypass   *BypassPolicy
	current  *CurrentForeground
	pool     *Pool
	applier  *Applier
	tracker  *Tracker
	admit    *AdmissionFilter
	log      Logger
}

// New builds a governor from cfg. The bypass policy is frozen here, before
// any component can toggle a process.
func New(cfg *config.Config, platform process.Platform, log Logger) *Governor {
	if log == nil {
		log = NopLogger()
	}

	foldCase := config.FoldCase(runtime.GOOS)
	log.Infoln("initializing whitelist...")
	bypass := NewBypassPolicy(cfg.Whitelist, foldCase)

	var treeOpts []process.ProcTreeOption
	if len(cfg.TreeBoundary) > 0 {
		treeOpts = append(treeOpts, process.WithBoundary(cfg.TreeBoundary...), process.WithFoldCase(foldCase))
	}

	g := &Governor{
		cfg:      cfg,
		platform: platform,
		bypass:   bypass,
		current:  &CurrentForeground{},
		pool:     NewPool(cfg.Workers),
		log:      log,
	}
	g.applier = NewApplier(platform.Enumerator, platform.PowerSetter, bypass, log, treeOpts...)
	g.tracker = NewTracker(g.applier, g.pool, g.current, platform.OwnerResolver, platform.Notification, log)
	g.admit = NewAdmissionFilter(AdmissionOptions{
		Mode:      cfg.ListenNewProcess.Mode,
		Bypass:    bypass,
		Blacklist: NewNameSet(cfg.ListenNewProcess.Blacklist, foldCase),
		Current:   g.current,
		Enum:      platform.Enumerator,
		Setter:    platform.PowerSetter,
		Pool:      g.pool,
		TreeOpts:  treeOpts,
		Log:       log,
	})
	return g
}

// Applier returns the power-state applier used by the governor
func (g *Governor) Applier() *Applier {
	return g.applier
}

// Current returns the published foreground pid cell
func (g *Governor) Current() *CurrentForeground {
	return g.current
}

// Run performs the startup sweep and then runs the enabled trackers until ctx
// is cancelled. On the way out every non-bypassed process is recovered to its
// default power mode. With both trackers disabled Run returns right after the
// startup sweep and leaves processes throttled.
func (g *Governor) Run(ctx context.Context) error {
	if g.cfg.ThrottleAllStartup {
		g.log.Infoln("throttling all processes...")
		err := g.pool.Do(ctx, func(ctx context.Context) error {
			_, err := g.applier.Apply(ctx, Throttle, AllProcesses())
			return err
		})
		if err != nil {
			g.log.Errorln(err)
		}
	}

	fg := g.cfg.ListenForegroundEvents.Enabled && g.platform.Foreground != nil
	np := g.cfg.ListenNewProcess.Enabled && g.platform.Creation != nil
	if !fg && !np {
		g.log.Infoln("one-shot mode detected! will leave processes throttled")
		return nil
	}

	var eg errgroup.Group

	if fg {
		events := make(chan process.ForegroundEvent, g.cfg.QueueSize)
		eg.Go(func() error {
			defer close(events)
			if err := g.platform.Foreground.Run(ctx, events); err != nil {
				g.log.Errorln(fmt.Errorf("foreground events: %w: %w", ErrSubscription, err))
			}
			return nil
		})
		eg.Go(func() error {
			g.log.Infoln("listening foreground events...")
			return g.tracker.Run(ctx, events)
		})
	}

	if np {
		events := make(chan process.CreationEvent, g.cfg.QueueSize)
		eg.Go(func() error {
			defer close(events)
			if err := g.platform.Creation.Run(ctx, events); err != nil {
				g.log.Errorln(fmt.Errorf("new processes: %w: %w", ErrSubscription, err))
			}
			return nil
		})
		eg.Go(func() error {
			g.log.Infoln("listening new processes...")
			return g.admit.Run(ctx, events)
		})
	}

	if addr := g.cfg.MetricsListen; addr != "" {
		eg.Go(func() error {
			g.log.Infoln("serving metrics on", addr)
			if err := metrics.Serve(ctx, addr); err != nil {
				g.log.Errorln("metrics listener:", err)
			}
			return nil
		})
	}

	err := eg.Wait()
	g.Recover(time.Duration(g.cfg.ShutdownTimeout))
	return err
}

// Recover restores every non-bypassed process to the default power mode. It
// blocks until the sweep completes or timeout elapses; a zero timeout waits
// for completion.
func (g *Governor) Recover(timeout time.Duration) {
	g.log.Infoln("recovering...")

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		_, err := g.applier.Apply(ctx, Recover, AllProcesses())
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			g.log.Errorln(err)
		}
	case <-ctx.Done():
		g.log.Warn("recovery sweep did not finish within ", timeout)
	}
}

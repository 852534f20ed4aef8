package process

import "context"

// PowerSetter applies a power mode hint to a single process
type PowerSetter interface {
	// SetPowerMode sets the power mode of pid. A failure does not imply the
	// process no longer exists.
	SetPowerMode(pid ProcessID, mode PowerMode) error
}

// ForegroundEvent is one raw foreground-change notification.
type ForegroundEvent struct {
	PID    ProcessID // Owner of the foreground window as reported by the OS
	Window uintptr   // Native window handle, 0 when the platform has none
}

// CreationEvent is one process-creation notification.
type CreationEvent struct {
	PID  ProcessID
	Name string
}

// ForegroundSource delivers foreground-change notifications. Run blocks until
// ctx is cancelled or the subscription fails. The same pid may be delivered
// repeatedly.
type ForegroundSource interface {
	Run(ctx context.Context, out chan<- ForegroundEvent) error
}

// CreationSource delivers one notification per newly created process. Run
// blocks until ctx is cancelled or the subscription fails.
type CreationSource interface {
	Run(ctx context.Context, out chan<- CreationEvent) error
}

// OwnerResolver maps a container/proxy foreground pid to the pid of the
// application actually owning the window. Implementations return ev.PID when
// there is nothing to resolve.
type OwnerResolver interface {
	ResolveOwner(ev ForegroundEvent) ProcessID
}

// NotificationState reports whether the user is in a fullscreen or
// do-not-disturb state during which background throttling is suppressed.
type NotificationState interface {
	Busy() (bool, error)
}

// Platform bundles the OS collaborators consumed by the governor
type Platform struct {
	Enumerator    Enumerator
	PowerSetter   PowerSetter
	Foreground    ForegroundSource
	Creation      CreationSource
	OwnerResolver OwnerResolver
	Notification  NotificationState
}

// IdentityResolver performs no container resolution
type IdentityResolver struct{}

func (IdentityResolver) ResolveOwner(ev ForegroundEvent) ProcessID {
	return ev.PID
}

// NeverBusy never reports a fullscreen state
type NeverBusy struct{}

func (NeverBusy) Busy() (bool, error) {
	return false, nil
}

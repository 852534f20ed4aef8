// Package process provides the platform-neutral process model: snapshots of
// the process table, ancestry queries over them, power modes and the
// interfaces implemented by the per-OS packages.
package process

import "errors"

var (
	// ErrProcessNotFound is returned when a pid is not part of a snapshot.
	ErrProcessNotFound = errors.New("process not found")

	// ErrEnumerate is returned when the process table cannot be read.
	ErrEnumerate = errors.New("failed to enumerate processes")

	// ErrUnsupported is returned by collaborators that have no implementation
	// on the running platform or desktop session.
	ErrUnsupported = errors.New("not supported on this platform")

	// ErrSubscribe is returned by a CreationSource that could not subscribe to
	// creation notifications at all, e.g. for lack of privileges.
	ErrSubscribe = errors.New("creation notifications unavailable")
)

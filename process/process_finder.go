package process

import (
	"context"
	"fmt"
)

// Enumerator reads the live process table.
type Enumerator interface {
	// EnumerateProcesses returns one record per process alive at the time of the call
	EnumerateProcesses(ctx context.Context) ([]ProcessInfo, error)
}

// EnumeratorFunc adapts a function to the Enumerator interface
type EnumeratorFunc func(ctx context.Context) ([]ProcessInfo, error)

func (f EnumeratorFunc) EnumerateProcesses(ctx context.Context) ([]ProcessInfo, error) {
	return f(ctx)
}

// TakeSnapshot enumerates the process table once and freezes the result.
func TakeSnapshot(ctx context.Context, e Enumerator) (*Snapshot, error) {
	procs, err := e.EnumerateProcesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumerate, err)
	}
	return NewSnapshot(procs), nil
}

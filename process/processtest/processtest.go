// Package processtest provides in-memory collaborators for tests.
package processtest

import (
	"context"
	"errors"
	"sync"

	"ecogov/process"
)

// ErrInjected is returned by fakes configured to fail
var ErrInjected = errors.New("injected failure")

// Table is a mutable fake process table implementing process.Enumerator
type Table struct {
	mu    sync.Mutex
	procs []process.ProcessInfo
	err   error
	calls int
}

// NewTable creates a table holding procs
func NewTable(procs ...process.ProcessInfo) *Table {
	return &Table{procs: append([]process.ProcessInfo(nil), procs...)}
}

// P is shorthand for a process record
func P(pid, ppid process.ProcessID, name string) process.ProcessInfo {
	return process.ProcessInfo{PID: pid, PPID: ppid, Name: name}
}

func (t *Table) EnumerateProcesses(ctx context.Context) ([]process.ProcessInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	if t.err != nil {
		return nil, t.err
	}
	return append([]process.ProcessInfo(nil), t.procs...), nil
}

// Set replaces the table contents
func (t *Table) Set(procs ...process.ProcessInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.procs = append([]process.ProcessInfo(nil), procs...)
}

// Add appends records to the table
func (t *Table) Add(procs ...process.ProcessInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.procs = append(t.procs, procs...)
}

// FailWith makes every enumeration fail with err; nil clears it
func (t *Table) FailWith(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// Calls returns the number of enumerations served
func (t *Table) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Call is one recorded SetPowerMode invocation
type Call struct {
	PID  process.ProcessID
	Mode process.PowerMode
}

// Setter records power mode changes and tracks the resulting mode per pid
type Setter struct {
	mu    sync.Mutex
	calls []Call
	modes map[process.ProcessID]process.PowerMode
	fail  map[process.ProcessID]error
}

// NewSetter creates an empty recording setter
func NewSetter() *Setter {
	return &Setter{
		modes: make(map[process.ProcessID]process.PowerMode),
		fail:  make(map[process.ProcessID]error),
	}
}

func (s *Setter) SetPowerMode(pid process.ProcessID, mode process.PowerMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{PID: pid, Mode: mode})
	if err, ok := s.fail[pid]; ok {
		return err
	}
	s.modes[pid] = mode
	return nil
}

// Fail makes every call for pid fail
func (s *Setter) Fail(pid process.ProcessID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[pid] = ErrInjected
}

// Calls returns a copy of all recorded calls in order
func (s *Setter) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Mode returns the last successfully applied mode of pid
func (s *Setter) Mode(pid process.ProcessID) (process.PowerMode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.modes[pid]
	return m, ok
}

// Touched reports whether any call was issued for pid
func (s *Setter) Touched(pid process.ProcessID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c.PID == pid {
			return true
		}
	}
	return false
}

// Reset drops recorded calls but keeps modes and failures
func (s *Setter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Busy is a settable process.NotificationState
type Busy struct {
	mu   sync.Mutex
	busy bool
	err  error
}

func (b *Busy) Busy() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy, b.err
}

// Set changes the reported state
func (b *Busy) Set(busy bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = busy
	b.err = err
}

// Resolver maps container pids to owner pids
type Resolver map[process.ProcessID]process.ProcessID

func (r Resolver) ResolveOwner(ev process.ForegroundEvent) process.ProcessID {
	if owner, ok := r[ev.PID]; ok {
		return owner
	}
	return ev.PID
}

// ForegroundFeed replays a fixed list of foreground pids then waits for ctx
type ForegroundFeed []process.ProcessID

func (f ForegroundFeed) Run(ctx context.Context, out chan<- process.ForegroundEvent) error {
	for _, pid := range f {
		select {
		case out <- process.ForegroundEvent{PID: pid}:
		case <-ctx.Done():
			return nil
		}
	}
	<-ctx.Done()
	return nil
}

// CreationFeed replays a fixed list of creation events then waits for ctx
type CreationFeed []process.CreationEvent

func (f CreationFeed) Run(ctx context.Context, out chan<- process.CreationEvent) error {
	for _, ev := range f {
		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
	<-ctx.Done()
	return nil
}

// FailingSource fails subscription setup immediately
type FailingSource struct{}

func (FailingSource) Run(ctx context.Context, out chan<- process.ForegroundEvent) error {
	return ErrInjected
}

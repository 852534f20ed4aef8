package governor

import (
	"fmt"

	"ecogov/process"
)

// Action is what a sweep does to the processes it selects
type Action uint8

const (
	Throttle Action = iota + 1 // efficiency mode on
	Boost                      // efficiency mode off, normal priority
	Recover                    // hint removed, used when the governor stops
)

// Mode returns the power mode an action applies
func (a Action) Mode() process.PowerMode {
	switch a {
	case Throttle:
		return process.PowerThrottle
	case Boost:
		return process.PowerBoost
	}
	return process.PowerUnset
}

func (a Action) String() string {
	switch a {
	case Throttle:
		return "throttle"
	case Boost:
		return "boost"
	case Recover:
		return "recover"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

func (a Action) verb() string {
	switch a {
	case Throttle:
		return "throttling"
	case Boost:
		return "boosting"
	case Recover:
		return "recovering"
	}
	return a.String()
}

// Target selects the processes of a sweep
type Target struct {
	all bool
	pid process.ProcessID
}

// AllProcesses targets every process of the snapshot
func AllProcesses() Target {
	return Target{all: true}
}

// TreeOf targets pid and all of its descendants
func TreeOf(pid process.ProcessID) Target {
	return Target{pid: pid}
}

// All reports whether the target is the whole process table
func (t Target) All() bool {
	return t.all
}

// PID returns the root of a tree target
func (t Target) PID() process.ProcessID {
	return t.pid
}

func (t Target) kind() string {
	if t.all {
		return "all"
	}
	return "tree"
}

func (t Target) String() string {
	if t.all {
		return "all processes"
	}
	return fmt.Sprintf("tree of %d", t.pid)
}

package process

import "strings"

// ProcTree answers ancestry queries against one frozen Snapshot.
type ProcTree struct {
	snap     *Snapshot
	boundary map[string]struct{}
	foldCase bool
}

// ProcTreeOption configures a ProcTree
type ProcTreeOption func(*ProcTree)

// WithBoundary makes ancestry walks stop at any process whose image name is
// one of names. Such a process acts as a partition wall: nothing above it is
// considered an ancestor of anything below it.
func WithBoundary(names ...string) ProcTreeOption {
	return func(t *ProcTree) {
		for _, name := range names {
			if name == "" {
				continue
			}
			t.boundary[name] = struct{}{}
		}
	}
}

// WithFoldCase compares boundary names case-insensitively
func WithFoldCase(fold bool) ProcTreeOption {
	return func(t *ProcTree) {
		t.foldCase = fold
	}
}

// NewProcTree builds an ancestry resolver over snap
func NewProcTree(snap *Snapshot, opts ...ProcTreeOption) *ProcTree {
	t := &ProcTree{
		snap:     snap,
		boundary: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.foldCase {
		folded := make(map[string]struct{}, len(t.boundary))
		for name := range t.boundary {
			folded[strings.ToLower(name)] = struct{}{}
		}
		t.boundary = folded
	}
	return t
}

// Snapshot returns the snapshot the tree was built from
func (t *ProcTree) Snapshot() *Snapshot {
	return t.snap
}

// IsInTree reports whether pid is root or a descendant of root.
//
// The walk climbs parent links and gives up on an unknown parent, a zero
// parent, a revisited pid (pid reuse can create cycles) or a boundary process.
func (t *ProcTree) IsInTree(root, pid ProcessID) bool {
	if pid == root {
		return true
	}

	visited := make(map[ProcessID]struct{})
	visited[pid] = struct{}{}

	for {
		parent, ok := t.snap.Parent(pid)
		if !ok || parent == 0 {
			return false
		}
		if _, seen := visited[parent]; seen {
			return false
		}
		// an exited parent may have had its pid reused; it ends the chain
		if _, known := t.snap.Lookup(parent); !known {
			return false
		}
		if parent == root {
			return true
		}
		if t.isBoundary(parent) {
			return false
		}

		visited[parent] = struct{}{}
		pid = parent
	}
}

// Members returns every process of the snapshot in the tree of root, ordered by pid
func (t *ProcTree) Members(root ProcessID) []ProcessInfo {
	var members []ProcessInfo
	for _, p := range t.snap.procs {
		if t.IsInTree(root, p.PID) {
			members = append(members, p)
		}
	}
	return members
}

func (t *ProcTree) isBoundary(pid ProcessID) bool {
	if len(t.boundary) == 0 {
		return false
	}
	name := t.snap.Name(pid)
	if t.foldCase {
		name = strings.ToLower(name)
	}
	_, ok := t.boundary[name]
	return ok
}

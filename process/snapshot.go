package process

import (
	"sort"
	"strings"
)

// Snapshot is a frozen read of the process table taken at one instant.
// It is never refreshed; take a new one instead.
type Snapshot struct {
	procs []ProcessInfo
	index map[ProcessID]int
}

// NewSnapshot freezes procs. Records are ordered by pid; when a pid appears
// more than once the first record wins.
func NewSnapshot(procs []ProcessInfo) *Snapshot {
	sorted := make([]ProcessInfo, 0, len(procs))
	seen := make(map[ProcessID]struct{}, len(procs))
	for _, p := range procs {
		if _, dup := seen[p.PID]; dup {
			continue
		}
		seen[p.PID] = struct{}{}
		sorted = append(sorted, p)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PID < sorted[j].PID
	})

	index := make(map[ProcessID]int, len(sorted))
	for i, p := range sorted {
		index[p.PID] = i
	}

	return &Snapshot{procs: sorted, index: index}
}

// Len returns the number of processes in the snapshot
func (s *Snapshot) Len() int {
	return len(s.procs)
}

// Processes returns a copy of all records ordered by pid
func (s *Snapshot) Processes() []ProcessInfo {
	out := make([]ProcessInfo, len(s.procs))
	copy(out, s.procs)
	return out
}

// Lookup returns the record of pid
func (s *Snapshot) Lookup(pid ProcessID) (ProcessInfo, bool) {
	i, ok := s.index[pid]
	if !ok {
		return ProcessInfo{}, false
	}
	return s.procs[i], true
}

// Parent returns the parent pid of pid
func (s *Snapshot) Parent(pid ProcessID) (ProcessID, bool) {
	p, ok := s.Lookup(pid)
	return p.PPID, ok
}

// Name returns the image name of pid, or "" when pid is unknown
func (s *Snapshot) Name(pid ProcessID) string {
	p, _ := s.Lookup(pid)
	return p.Name
}

// FindByName returns the pids whose image name equals name, ordered by pid
func (s *Snapshot) FindByName(name string, foldCase bool) []ProcessID {
	if name == "" {
		return nil
	}
	var out []ProcessID
	for _, p := range s.procs {
		if p.Name == name || (foldCase && strings.EqualFold(p.Name, name)) {
			out = append(out, p.PID)
		}
	}
	return out
}

// Children returns the direct children of pid
func (s *Snapshot) Children(pid ProcessID) []ProcessInfo {
	var children []ProcessInfo
	for _, p := range s.procs {
		if p.PPID == pid && p.PID != pid {
			children = append(children, p)
		}
	}
	return children
}

// Tree returns a tree-like representation of processes starting from rootPID.
// Parent links that loop back into the tree are cut.
func (s *Snapshot) Tree(rootPID ProcessID) (*ProcessTreeNode, error) {
	root, ok := s.Lookup(rootPID)
	if !ok {
		return nil, ErrProcessNotFound
	}

	childrenMap := make(map[ProcessID][]ProcessID)
	for _, p := range s.procs {
		childrenMap[p.PPID] = append(childrenMap[p.PPID], p.PID)
	}

	visited := make(map[ProcessID]bool)
	return s.buildTree(root, childrenMap, visited), nil
}

func (s *Snapshot) buildTree(procInfo ProcessInfo, childrenMap map[ProcessID][]ProcessID, visited map[ProcessID]bool) *ProcessTreeNode {
	visited[procInfo.PID] = true
	node := &ProcessTreeNode{
		Process:  procInfo,
		Children: []*ProcessTreeNode{},
	}

	for _, childPID := range childrenMap[procInfo.PID] {
		if visited[childPID] {
			continue
		}
		if child, ok := s.Lookup(childPID); ok {
			node.Children = append(node.Children, s.buildTree(child, childrenMap, visited))
		}
	}

	return node
}

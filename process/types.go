package process

import "fmt"

// ProcessID represents an OS process identifier. Identifiers are only unique
// within a single Snapshot; the OS reuses them over time.
type ProcessID uint32

func (pid ProcessID) ToString() string {
	return fmt.Sprintf("%d", uint32(pid))
}

// ProcessInfo contains the basic information captured for a process
type ProcessInfo struct {
	PID  ProcessID // Process ID
	PPID ProcessID // Parent Process ID, 0 for roots
	Name string    // Image name (e.g. "explorer.exe" or comm on linux)
}

// ProcessTreeNode represents a node in a process tree
type ProcessTreeNode struct {
	Process  ProcessInfo
	Children []*ProcessTreeNode
}

// Walk visits the node and all of its descendants depth first.
func (n *ProcessTreeNode) Walk(fn func(node *ProcessTreeNode, depth int)) {
	n.walk(fn, 0)
}

func (n *ProcessTreeNode) walk(fn func(node *ProcessTreeNode, depth int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

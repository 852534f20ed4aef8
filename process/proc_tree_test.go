package process_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecogov/process"
	"ecogov/process/processtest"
)

var P = processtest.P

func chainSnapshot() *process.Snapshot {
	// 30 -> 20 -> 10 -> 0
	return process.NewSnapshot([]process.ProcessInfo{
		P(10, 0, "init"),
		P(20, 10, "shell"),
		P(30, 20, "app"),
		P(40, 10, "daemon"),
	})
}

func TestIsInTree_SelfMembership(t *testing.T) {
	tree := process.NewProcTree(chainSnapshot())
	for _, pid := range []process.ProcessID{10, 20, 30, 40, 999} {
		assert.True(t, tree.IsInTree(pid, pid), "pid %d", pid)
	}
}

func TestIsInTree_AncestryIsNotSymmetric(t *testing.T) {
	tree := process.NewProcTree(chainSnapshot())

	assert.True(t, tree.IsInTree(10, 30))
	assert.True(t, tree.IsInTree(20, 30))
	assert.False(t, tree.IsInTree(30, 10))
	assert.False(t, tree.IsInTree(30, 20))
	assert.False(t, tree.IsInTree(20, 40))
}

func TestIsInTree_UnknownAndZeroParents(t *testing.T) {
	snap := process.NewSnapshot([]process.ProcessInfo{
		P(5, 77, "orphan"), // parent not in the snapshot
		P(6, 0, "root"),
	})
	tree := process.NewProcTree(snap)

	assert.False(t, tree.IsInTree(77, 5))
	assert.False(t, tree.IsInTree(0, 6))
	assert.False(t, tree.IsInTree(6, 1234))
}

func TestIsInTree_ExitedRootIsNotAnAncestor(t *testing.T) {
	// 50 exited; its children still record it as parent
	snap := process.NewSnapshot([]process.ProcessInfo{
		P(1, 0, "init"),
		P(51, 50, "orphan-child"),
		P(52, 51, "grandchild"),
	})
	tree := process.NewProcTree(snap)

	assert.False(t, tree.IsInTree(50, 51))
	assert.False(t, tree.IsInTree(50, 52))
	assert.True(t, tree.IsInTree(51, 52))
	assert.Empty(t, tree.Members(50))
	assert.Len(t, tree.Members(51), 2)
}

func TestIsInTree_CycleTerminates(t *testing.T) {
	// 1 -> 2 -> 3 -> 1 forms a loop, 9 sits outside
	snap := process.NewSnapshot([]process.ProcessInfo{
		P(1, 3, "a"),
		P(2, 1, "b"),
		P(3, 2, "c"),
		P(9, 0, "outside"),
		P(11, 11, "self-parent"),
	})
	tree := process.NewProcTree(snap)

	for _, pid := range []process.ProcessID{1, 2, 3} {
		assert.False(t, tree.IsInTree(9, pid), "pid %d", pid)
	}
	assert.False(t, tree.IsInTree(9, 11))

	// Members of the cycle are still reachable from each other
	assert.True(t, tree.IsInTree(1, 3))
}

func TestIsInTree_Boundary(t *testing.T) {
	snap := process.NewSnapshot([]process.ProcessInfo{
		P(4, 0, "System"),
		P(500, 4, "wininit.exe"),
		P(600, 500, "services.exe"),
		P(700, 600, "svchost.exe"),
	})

	plain := process.NewProcTree(snap)
	assert.True(t, plain.IsInTree(4, 700))

	walled := process.NewProcTree(snap, process.WithBoundary("WININIT.EXE"), process.WithFoldCase(true))
	assert.False(t, walled.IsInTree(4, 700))
	assert.True(t, walled.IsInTree(500, 700), "the boundary itself can still be a root")
	assert.True(t, walled.IsInTree(600, 700))

	exact := process.NewProcTree(snap, process.WithBoundary("WININIT.EXE"))
	assert.True(t, exact.IsInTree(4, 700), "case sensitive boundary does not match")
}

func TestMembers(t *testing.T) {
	tree := process.NewProcTree(chainSnapshot())

	var pids []process.ProcessID
	for _, p := range tree.Members(20) {
		pids = append(pids, p.PID)
	}
	assert.Equal(t, []process.ProcessID{20, 30}, pids)
	assert.Empty(t, tree.Members(12345))
}

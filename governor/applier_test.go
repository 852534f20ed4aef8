package governor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecogov/process"
	"ecogov/process/processtest"
)

func TestApplier_ThrottleAll(t *testing.T) {
	setter := processtest.NewSetter()
	a := NewApplier(desktop(), setter, desktopBypass(), nil)

	res, err := a.Apply(context.Background(), Throttle, AllProcesses())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Attempted: 4, Failed: 0, Bypassed: 3}, res)
	assert.ElementsMatch(t, []process.ProcessID{20, 21, 30, 31}, pids(setter.Calls()))
	for _, c := range setter.Calls() {
		assert.Equal(t, process.PowerThrottle, c.Mode)
	}
}

func TestApplier_BoostTree(t *testing.T) {
	setter := processtest.NewSetter()
	a := NewApplier(desktop(), setter, desktopBypass(), nil)

	res, err := a.Apply(context.Background(), Boost, TreeOf(20))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 1, res.Bypassed)
	assert.ElementsMatch(t, []process.ProcessID{20, 21}, pids(setter.Calls()))

	mode, ok := setter.Mode(21)
	require.True(t, ok)
	assert.Equal(t, process.PowerBoost, mode)
	assert.False(t, setter.Touched(22), "bypassed descendant must not be touched")
	assert.False(t, setter.Touched(10), "ancestor is not part of the tree")
}

func TestApplier_BypassedRootSkipsTree(t *testing.T) {
	setter := processtest.NewSetter()
	a := NewApplier(desktop(), setter, desktopBypass(), nil)

	res, err := a.Apply(context.Background(), Throttle, TreeOf(10))
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Bypassed: 1}, res)
	assert.Empty(t, setter.Calls())
}

func TestApplier_UnknownRoot(t *testing.T) {
	setter := processtest.NewSetter()
	a := NewApplier(desktop(), setter, desktopBypass(), nil)

	res, err := a.Apply(context.Background(), Throttle, TreeOf(999))
	require.NoError(t, err)

	// 999 is not in the table and nothing names it as parent
	assert.Equal(t, SweepResult{}, res)
	assert.Empty(t, setter.Calls())
}

func TestApplier_ExitedRootLeavesOrphansAlone(t *testing.T) {
	table := processtest.NewTable(
		P(1, 0, "init"),
		P(51, 50, "orphan-child"),
	)
	setter := processtest.NewSetter()
	a := NewApplier(table, setter, nil, nil)

	res, err := a.Apply(context.Background(), Throttle, TreeOf(50))
	require.NoError(t, err)

	assert.Equal(t, SweepResult{}, res)
	assert.Empty(t, setter.Calls())
}

func TestApplier_ContinuesAfterFailure(t *testing.T) {
	setter := processtest.NewSetter()
	setter.Fail(30)
	a := NewApplier(desktop(), setter, desktopBypass(), nil)

	res, err := a.Apply(context.Background(), Throttle, AllProcesses())
	require.NoError(t, err)

	assert.Equal(t, 4, res.Attempted)
	assert.Equal(t, 1, res.Failed)
	mode, ok := setter.Mode(31)
	require.True(t, ok)
	assert.Equal(t, process.PowerThrottle, mode)
}

func TestApplier_EnumerationError(t *testing.T) {
	table := desktop()
	table.FailWith(processtest.ErrInjected)
	setter := processtest.NewSetter()
	a := NewApplier(table, setter, desktopBypass(), nil)

	_, err := a.Apply(context.Background(), Throttle, TreeOf(20))
	require.Error(t, err)
	assert.ErrorIs(t, err, process.ErrEnumerate)
	assert.ErrorIs(t, err, processtest.ErrInjected)
	assert.Contains(t, err.Error(), "throttling tree of 20")
	assert.Empty(t, setter.Calls())
}

func TestApplier_RecoverUnsets(t *testing.T) {
	setter := processtest.NewSetter()
	a := NewApplier(desktop(), setter, desktopBypass(), nil)

	_, err := a.Apply(context.Background(), Throttle, AllProcesses())
	require.NoError(t, err)
	_, err = a.Apply(context.Background(), Recover, AllProcesses())
	require.NoError(t, err)

	for _, pid := range []process.ProcessID{20, 21, 30, 31} {
		mode, ok := setter.Mode(pid)
		require.True(t, ok)
		assert.Equal(t, process.PowerUnset, mode, "pid %d", pid)
	}
	for _, pid := range []process.ProcessID{1, 10, 22} {
		assert.False(t, setter.Touched(pid), "pid %d", pid)
	}
}

func TestApplier_CancelledContext(t *testing.T) {
	setter := processtest.NewSetter()
	a := NewApplier(desktop(), setter, desktopBypass(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Apply(ctx, Throttle, AllProcesses())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, setter.Calls())
}

func TestApplier_TreeBoundary(t *testing.T) {
	setter := processtest.NewSetter()
	a := NewApplier(desktop(), setter, nil, nil, process.WithBoundary("game.exe"))

	// game.exe ends the ancestor walk, so its children are not members of 10's tree
	_, err := a.Apply(context.Background(), Boost, TreeOf(10))
	require.NoError(t, err)
	assert.ElementsMatch(t, []process.ProcessID{10, 20}, pids(setter.Calls()))
}

func TestAction(t *testing.T) {
	assert.Equal(t, process.PowerThrottle, Throttle.Mode())
	assert.Equal(t, process.PowerBoost, Boost.Mode())
	assert.Equal(t, process.PowerUnset, Recover.Mode())
	assert.Equal(t, "recover", Recover.String())
	assert.Equal(t, "action(9)", Action(9).String())

	assert.Equal(t, "all processes", AllProcesses().String())
	assert.Equal(t, "tree of 7", TreeOf(7).String())
	assert.Equal(t, "tree", TreeOf(7).kind())
}

func TestApplier_LimitsFailureWarnings(t *testing.T) {
	table := processtest.NewTable()
	setter := processtest.NewSetter()
	for pid := process.ProcessID(100); pid < 150; pid++ {
		table.Add(P(pid, 1, "protected"))
		setter.Fail(pid)
	}
	log := &countingLogger{}
	a := NewApplier(table, setter, nil, log)

	res, err := a.Apply(context.Background(), Throttle, AllProcesses())
	require.NoError(t, err)

	assert.Equal(t, 50, res.Failed)
	assert.GreaterOrEqual(t, log.warnings(), 20)
	assert.Less(t, log.warnings(), 50)
}

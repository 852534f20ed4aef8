package governor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecogov/config"
	"ecogov/process"
	"ecogov/process/processtest"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Whitelist = []string{"init", "explorer.exe", "csrss.exe"}
	cfg.ShutdownTimeout = config.Duration(2 * time.Second)
	return cfg
}

func hasCall(setter *processtest.Setter, want processtest.Call) bool {
	for _, c := range setter.Calls() {
		if c == want {
			return true
		}
	}
	return false
}

func TestGovernor_RunAndRecover(t *testing.T) {
	cfg := testConfig()
	cfg.ListenNewProcess.Mode = config.ModeBlacklistOnly
	cfg.ListenNewProcess.Blacklist = []string{"worker.exe"}

	setter := processtest.NewSetter()
	g := New(cfg, process.Platform{
		Enumerator:  desktop(),
		PowerSetter: setter,
		Foreground:  processtest.ForegroundFeed{20, 30},
		Creation: processtest.CreationFeed{
			{PID: 31, Name: "worker.exe"},
			{PID: 21, Name: "helper.exe"},
		},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	require.Eventually(t, func() bool {
		return g.Current().Load() == 30 && hasCall(setter, processtest.Call{PID: 31, Mode: process.PowerThrottle})
	}, 2*time.Second, 5*time.Millisecond)

	mode, _ := setter.Mode(20)
	assert.Equal(t, process.PowerThrottle, mode)
	mode, _ = setter.Mode(30)
	assert.Equal(t, process.PowerBoost, mode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("governor did not stop")
	}

	for _, pid := range []process.ProcessID{20, 21, 30, 31} {
		mode, ok := setter.Mode(pid)
		require.True(t, ok)
		assert.Equal(t, process.PowerUnset, mode, "pid %d", pid)
	}
	for _, pid := range []process.ProcessID{1, 10, 22} {
		assert.False(t, setter.Touched(pid), "bypassed pid %d", pid)
	}
}

func TestGovernor_OneShot(t *testing.T) {
	cfg := testConfig()
	cfg.ListenForegroundEvents.Enabled = false
	cfg.ListenNewProcess.Enabled = false

	setter := processtest.NewSetter()
	g := New(cfg, process.Platform{Enumerator: desktop(), PowerSetter: setter}, nil)

	require.NoError(t, g.Run(context.Background()))

	// processes stay throttled, there is no recovery in one-shot mode
	for _, pid := range []process.ProcessID{20, 21, 30, 31} {
		mode, ok := setter.Mode(pid)
		require.True(t, ok)
		assert.Equal(t, process.PowerThrottle, mode, "pid %d", pid)
	}
	assert.Len(t, setter.Calls(), 4)
}

func TestGovernor_StartupThrottleDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.ThrottleAllStartup = false
	cfg.ListenForegroundEvents.Enabled = false
	cfg.ListenNewProcess.Enabled = false

	setter := processtest.NewSetter()
	g := New(cfg, process.Platform{Enumerator: desktop(), PowerSetter: setter}, nil)

	require.NoError(t, g.Run(context.Background()))
	assert.Empty(t, setter.Calls())
}

func TestGovernor_SubscriptionFailure(t *testing.T) {
	cfg := testConfig()
	cfg.ThrottleAllStartup = false
	cfg.ListenNewProcess.Enabled = false

	setter := processtest.NewSetter()
	g := New(cfg, process.Platform{
		Enumerator:  desktop(),
		PowerSetter: setter,
		Foreground:  processtest.FailingSource{},
	}, nil)

	done := make(chan error, 1)
	go func() { done <- g.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("governor did not stop after the only source failed")
	}

	// the shutdown recovery still ran
	mode, ok := setter.Mode(20)
	require.True(t, ok)
	assert.Equal(t, process.PowerUnset, mode)
}

func TestGovernor_RecoverTimeout(t *testing.T) {
	cfg := testConfig()
	blocking := process.EnumeratorFunc(func(ctx context.Context) ([]process.ProcessInfo, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	g := New(cfg, process.Platform{Enumerator: blocking, PowerSetter: processtest.NewSetter()}, nil)

	start := time.Now()
	g.Recover(50 * time.Millisecond)
	assert.Less(t, time.Since(start), time.Second)
}

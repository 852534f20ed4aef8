//go:build linux

package process_linux

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecogov/process"
)

func TestEnumerator_FindsSelf(t *testing.T) {
	e := NewEnumerator()
	procs, err := e.EnumerateProcesses(context.Background())
	require.NoError(t, err)

	self := process.ProcessID(os.Getpid())
	snap := process.NewSnapshot(procs)
	info, ok := snap.Lookup(self)
	require.True(t, ok)
	assert.Equal(t, process.ProcessID(os.Getppid()), info.PPID)
	assert.NotEmpty(t, info.Name)
}

func TestPowerSetter_Throttle(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	pid := process.ProcessID(cmd.Process.Pid)
	require.NoError(t, NewPowerSetter().SetPowerMode(pid, process.PowerThrottle))
	assert.Equal(t, "19", statField(t, pid, 19))
}

func TestPowerSetter_MissingProcess(t *testing.T) {
	s := &PowerSetter{ProcRoot: t.TempDir()}
	err := s.SetPowerMode(4242, process.PowerBoost)
	assert.ErrorIs(t, err, process.ErrProcessNotFound)
}

func TestPowerSetter_NoLiveTasks(t *testing.T) {
	root := t.TempDir()
	// a task id that cannot exist
	require.NoError(t, os.MkdirAll(filepath.Join(root, "4242", "task", "2147483647"), 0o755))

	s := &PowerSetter{ProcRoot: root}
	err := s.SetPowerMode(4242, process.PowerBoost)
	assert.ErrorIs(t, err, process.ErrProcessNotFound)
}

func TestHints(t *testing.T) {
	nice, ioprio := hints(process.PowerThrottle)
	assert.Equal(t, 19, nice)
	assert.Equal(t, 3<<13, ioprio)

	nice, ioprio = hints(process.PowerBoost)
	assert.Equal(t, 0, nice)
	assert.Equal(t, 2<<13|4, ioprio)

	nice, ioprio = hints(process.PowerUnset)
	assert.Equal(t, 0, nice)
	assert.Equal(t, 0, ioprio)
}

func TestParsePID(t *testing.T) {
	pid, err := parsePID([]byte("1234\n"))
	require.NoError(t, err)
	assert.Equal(t, process.ProcessID(1234), pid)

	_, err = parsePID([]byte(""))
	assert.Error(t, err)
	_, err = parsePID([]byte("-1"))
	assert.Error(t, err)
}

func TestIsFullscreen(t *testing.T) {
	assert.True(t, isFullscreen([]byte("_NET_WM_STATE(ATOM) = _NET_WM_STATE_FULLSCREEN\n")))
	assert.True(t, isFullscreen([]byte("_NET_WM_STATE(ATOM) = _NET_WM_STATE_FOCUSED, _NET_WM_STATE_FULLSCREEN\n")))
	assert.False(t, isFullscreen([]byte("_NET_WM_STATE(ATOM) = _NET_WM_STATE_MAXIMIZED_VERT\n")))
	assert.False(t, isFullscreen([]byte("_NET_WM_STATE:  not found.\n")))
}

type fakeRunner map[string]string

func (f fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	key := name + " " + strings.Join(args, " ")
	out, ok := f[key]
	if !ok {
		return nil, errors.New("no output for " + key)
	}
	return []byte(out), nil
}

func TestX11Notification(t *testing.T) {
	n := &X11Notification{run: fakeRunner{
		"xdotool getactivewindow":          "65011719\n",
		"xprop -id 65011719 _NET_WM_STATE": "_NET_WM_STATE(ATOM) = _NET_WM_STATE_FULLSCREEN\n",
	}.run}

	busy, err := n.Busy()
	require.NoError(t, err)
	assert.True(t, busy)

	n = &X11Notification{run: fakeRunner{}.run}
	busy, err = n.Busy()
	assert.Error(t, err)
	assert.False(t, busy)
}

func TestX11Foreground_Poll(t *testing.T) {
	s := NewX11Foreground(time.Millisecond)
	s.run = fakeRunner{"xdotool getactivewindow getwindowpid": "777\n"}.run

	ev, err := s.poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, process.ForegroundEvent{PID: 777}, ev)
}

// statField returns the 1-based field n of /proc/<pid>/stat
func statField(t *testing.T, pid process.ProcessID, n int) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("/proc", pid.ToString(), "stat"))
	require.NoError(t, err)

	// the command name may contain spaces, fields resume after the last ')'
	rest := string(b[strings.LastIndexByte(string(b), ')')+2:])
	fields := strings.Fields(rest)
	require.Greater(t, len(fields), n-3)
	return fields[n-3]
}

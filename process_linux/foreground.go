//go:build linux

package process_linux

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"ecogov/process"
)

const fullscreenAtom = "_NET_WM_STATE_FULLSCREEN"

// runner executes a desktop helper and returns its stdout
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// X11Foreground polls the active window of the X server with xdotool. Every
// poll is delivered, duplicates are left to the tracker.
type X11Foreground struct {
	Interval time.Duration

	run runner
	log *logger.Logger
}

// NewX11Foreground creates a poller with the given interval
func NewX11Foreground(interval time.Duration) *X11Foreground {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &X11Foreground{
		Interval: interval,
		run:      execRunner,
		log:      logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "x11-foreground")),
	}
}

func (s *X11Foreground) Run(ctx context.Context, out chan<- process.ForegroundEvent) error {
	if _, err := exec.LookPath("xdotool"); err != nil {
		return fmt.Errorf("%w: xdotool: %w", process.ErrUnsupported, err)
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		ev, err := s.poll(ctx)
		if err != nil {
			s.log.Debugln("no active window:", err)
		} else {
			select {
			case out <- ev:
			case <-ctx.Done():
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *X11Foreground) poll(ctx context.Context) (process.ForegroundEvent, error) {
	b, err := s.run(ctx, "xdotool", "getactivewindow", "getwindowpid")
	if err != nil {
		return process.ForegroundEvent{}, err
	}
	pid, err := parsePID(b)
	if err != nil {
		return process.ForegroundEvent{}, err
	}
	return process.ForegroundEvent{PID: pid}, nil
}

func parsePID(b []byte) (process.ProcessID, error) {
	s := strings.TrimSpace(string(b))
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unexpected pid %q: %w", s, err)
	}
	return process.ProcessID(v), nil
}

// X11Notification reports busy while the active window is fullscreen
type X11Notification struct {
	run runner
}

// NewX11Notification creates a fullscreen probe backed by xdotool and xprop
func NewX11Notification() *X11Notification {
	return &X11Notification{run: execRunner}
}

func (n *X11Notification) Busy() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	win, err := n.run(ctx, "xdotool", "getactivewindow")
	if err != nil {
		return false, fmt.Errorf("active window: %w", err)
	}
	state, err := n.run(ctx, "xprop", "-id", string(bytes.TrimSpace(win)), "_NET_WM_STATE")
	if err != nil {
		return false, fmt.Errorf("window state: %w", err)
	}
	return isFullscreen(state), nil
}

// isFullscreen parses `xprop _NET_WM_STATE` output such as
//
//	_NET_WM_STATE(ATOM) = _NET_WM_STATE_FULLSCREEN, _NET_WM_STATE_FOCUSED
func isFullscreen(state []byte) bool {
	_, atoms, ok := strings.Cut(string(state), "=")
	if !ok {
		return false
	}
	for _, atom := range strings.Split(atoms, ",") {
		if strings.TrimSpace(atom) == fullscreenAtom {
			return true
		}
	}
	return false
}

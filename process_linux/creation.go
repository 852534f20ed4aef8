//go:build linux

package process_linux

import (
	"context"
	"fmt"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	gproc "github.com/shirou/gopsutil/v3/process"
	"github.com/vishvananda/netlink"

	"ecogov/process"
)

// NetlinkCreation reports exec events from the kernel process connector. A
// new process is reported once it has exec'd its image, fork-only children
// keep the image of their parent and are covered by the parent's mode.
type NetlinkCreation struct {
	log *logger.Logger
}

// NewNetlinkCreation creates a connector backed creation source
func NewNetlinkCreation() *NetlinkCreation {
	return &NetlinkCreation{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "proc-connector")),
	}
}

func (s *NetlinkCreation) Run(ctx context.Context, out chan<- process.CreationEvent) error {
	events := make(chan netlink.ProcEvent, 256)
	errs := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	if err := netlink.ProcEventMonitor(events, done, errs); err != nil {
		return fmt.Errorf("%w: process connector: %w", process.ErrSubscribe, err)
	}
	s.log.Debugln("subscribed to exec events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			return fmt.Errorf("process connector: %w", err)
		case ev := <-events:
			if ev.What != netlink.PROC_EVENT_EXEC || ev.Msg == nil {
				continue
			}
			// threads of a multithreaded process exec with their own pid
			if ev.Msg.Pid() != ev.Msg.Tgid() {
				continue
			}

			pid := process.ProcessID(ev.Msg.Tgid())
			name, err := imageName(ctx, pid)
			if err != nil {
				s.log.Debugln("exited before lookup:", pid)
				continue
			}

			select {
			case out <- process.CreationEvent{PID: pid, Name: name}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func imageName(ctx context.Context, pid process.ProcessID) (string, error) {
	p, err := gproc.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return "", err
	}
	return p.NameWithContext(ctx)
}

//go:build windows

package process_windows

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"ecogov/process"
)

const startTraceQuery = "SELECT ProcessID, ProcessName FROM Win32_ProcessStartTrace"

// WMICreation subscribes to Win32_ProcessStartTrace. The subscription needs
// an elevated token; without one Run fails with process.ErrSubscribe.
type WMICreation struct {
	// Wait bounds one NextEvent call, which is how often ctx is checked
	Wait time.Duration

	log *logger.Logger
}

// NewWMICreation creates a WMI backed creation source
func NewWMICreation() *WMICreation {
	return &WMICreation{
		Wait: 500 * time.Millisecond,
		log:  logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "wmi")),
	}
}

func (s *WMICreation) Run(ctx context.Context, out chan<- process.CreationEvent) error {
	// COM objects are bound to the apartment of this thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	events, cleanup, err := subscribeStartTrace()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", process.ErrSubscribe, startTraceQuery, err)
	}
	defer cleanup()
	s.log.Debugln("subscribed to process start traces")

	waitMs := int32(s.Wait / time.Millisecond)
	for {
		if ctx.Err() != nil {
			return nil
		}

		raw, err := oleutil.CallMethod(events, "NextEvent", waitMs)
		if err != nil {
			if isWMITimeout(err) {
				continue
			}
			return fmt.Errorf("process start trace: %w", err)
		}

		ev, ok := startTraceEvent(raw.ToIDispatch())
		raw.Clear()
		if !ok {
			s.log.Debugln("start trace without a usable ProcessID")
			continue
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}

// subscribeStartTrace connects to the local root\cimv2 namespace and opens an
// event source for process start traces.
func subscribeStartTrace() (*ole.IDispatch, func(), error) {
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); !comInitialized(err) {
		return nil, nil, err
	}

	var releases []func()
	cleanup := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
		ole.CoUninitialize()
	}
	fail := func(err error) (*ole.IDispatch, func(), error) {
		cleanup()
		return nil, nil, err
	}

	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return fail(err)
	}
	releases = append(releases, func() { unknown.Release() })

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fail(err)
	}
	releases = append(releases, func() { locator.Release() })

	serviceRaw, err := oleutil.CallMethod(locator, "ConnectServer")
	if err != nil {
		return fail(err)
	}
	service := serviceRaw.ToIDispatch()
	releases = append(releases, func() { serviceRaw.Clear() })

	sourceRaw, err := oleutil.CallMethod(service, "ExecNotificationQuery", startTraceQuery)
	if err != nil {
		return fail(err)
	}
	releases = append(releases, func() { sourceRaw.Clear() })

	return sourceRaw.ToIDispatch(), cleanup, nil
}

func startTraceEvent(obj *ole.IDispatch) (process.CreationEvent, bool) {
	if obj == nil {
		return process.CreationEvent{}, false
	}

	pidRaw, err := oleutil.GetProperty(obj, "ProcessID")
	if err != nil {
		return process.CreationEvent{}, false
	}
	pid, ok := wmiPID(pidRaw.Value())
	pidRaw.Clear()
	if !ok {
		return process.CreationEvent{}, false
	}

	ev := process.CreationEvent{PID: pid}
	if nameRaw, err := oleutil.GetProperty(obj, "ProcessName"); err == nil {
		ev.Name = nameRaw.ToString()
		nameRaw.Clear()
	}
	return ev, true
}

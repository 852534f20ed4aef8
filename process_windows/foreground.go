//go:build windows

package process_windows

import (
	"context"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"

	"ecogov/process"
)

const (
	eventSystemForeground  = 0x0003
	wineventOutOfContext   = 0x0000
	wineventSkipOwnProcess = 0x0002
	wmQuit                 = 0x0012
)

// msg mirrors the Win32 MSG structure
type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// WinEventForeground subscribes to EVENT_SYSTEM_FOREGROUND. The hook and its
// message loop live on one locked OS thread; the callback only decodes the
// window owner and enqueues. A full queue stalls the hook thread until the
// tracker catches up.
type WinEventForeground struct {
	log *logger.Logger
}

// NewWinEventForeground creates a foreground hook source
func NewWinEventForeground() *WinEventForeground {
	return &WinEventForeground{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "winevent")),
	}
}

func (s *WinEventForeground) Run(ctx context.Context, out chan<- process.ForegroundEvent) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	callback := windows.NewCallback(func(hook, event, hwnd, idObject, idChild, idEventThread, eventTime uintptr) uintptr {
		ev := process.ForegroundEvent{PID: windowPID(hwnd), Window: hwnd}
		if !deliverForeground(ctx, out, ev) {
			s.log.Debugln("shutting down, foreground event for ", ev.PID, " not delivered")
		}
		return 0
	})

	hook, _, err := procSetWinEventHook.Call(
		eventSystemForeground, eventSystemForeground,
		0, callback,
		0, 0,
		wineventOutOfContext|wineventSkipOwnProcess,
	)
	if hook == 0 {
		return fmt.Errorf("SetWinEventHook failed: %w", err)
	}
	defer procUnhookWinEvent.Call(hook)

	tid := windows.GetCurrentThreadId()
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
		case <-stop:
		}
	}()

	var m msg
	for {
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case 0:
			// WM_QUIT
			return nil
		case -1:
			return fmt.Errorf("GetMessageW failed: %w", err)
		}
	}
}

func windowPID(hwnd uintptr) process.ProcessID {
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return process.ProcessID(pid)
}

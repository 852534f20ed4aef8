//go:build windows

package process_windows

import (
	"sync"

	"golang.org/x/sys/windows"

	"ecogov/process"
)

// FrameHostResolver maps UWP windows hosted by ApplicationFrameHost.exe to
// the app process owning the hosted child window.
type FrameHostResolver struct {
	// name resolves the image name of a pid, imageName when nil
	name func(process.ProcessID) (string, error)
}

// NewFrameHostResolver creates a resolver
func NewFrameHostResolver() *FrameHostResolver {
	return &FrameHostResolver{name: imageName}
}

func (r *FrameHostResolver) ResolveOwner(ev process.ForegroundEvent) process.ProcessID {
	if ev.Window == 0 || ev.PID == 0 {
		return ev.PID
	}
	name, err := r.name(ev.PID)
	if err != nil || !isFrameHost(name) {
		return ev.PID
	}
	return pickChildOwner(ev.PID, childWindowPIDs(ev.Window))
}

var (
	enumChildOnce sync.Once
	enumChildCb   uintptr

	enumChildMu   sync.Mutex
	enumChildPIDs []process.ProcessID
)

// childWindowPIDs returns the owners of the child windows of hwnd. Callbacks
// cannot be freed, so one callback is shared and calls are serialized.
func childWindowPIDs(hwnd uintptr) []process.ProcessID {
	enumChildOnce.Do(func() {
		enumChildCb = windows.NewCallback(func(child, lparam uintptr) uintptr {
			enumChildPIDs = append(enumChildPIDs, windowPID(child))
			return 1
		})
	})

	enumChildMu.Lock()
	defer enumChildMu.Unlock()

	enumChildPIDs = nil
	procEnumChildWindows.Call(hwnd, enumChildCb, 0)
	return append([]process.ProcessID(nil), enumChildPIDs...)
}

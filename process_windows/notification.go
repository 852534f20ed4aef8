//go:build windows

package process_windows

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ShellNotification queries SHQueryUserNotificationState
type ShellNotification struct{}

func (ShellNotification) Busy() (bool, error) {
	var state uint32
	hr, _, _ := procSHQueryUserNotificationState.Call(uintptr(unsafe.Pointer(&state)))
	if hr != 0 {
		return false, fmt.Errorf("SHQueryUserNotificationState failed: %w", windows.Errno(hr))
	}
	return notificationBusy(state), nil
}

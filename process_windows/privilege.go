//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ErrAlreadyRunning is returned by AcquireSingleton when another instance holds the mutex
var ErrAlreadyRunning = errors.New("another instance is already running")

// EnableDebugPrivilege enables SeDebugPrivilege on the current process token,
// required to change the power mode of SYSTEM processes.
func EnableDebugPrivilege() error {
	var token windows.Token
	err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_ADJUST_PRIVILEGES|windows.TOKEN_QUERY, &token)
	if err != nil {
		return fmt.Errorf("OpenProcessToken failed: %w", err)
	}
	defer token.Close()

	var luid windows.LUID
	if err := windows.LookupPrivilegeValue(nil, windows.StringToUTF16Ptr("SeDebugPrivilege"), &luid); err != nil {
		return fmt.Errorf("LookupPrivilegeValue failed: %w", err)
	}

	tp := windows.Tokenprivileges{
		PrivilegeCount: 1,
		Privileges: [1]windows.LUIDAndAttributes{
			{Luid: luid, Attributes: windows.SE_PRIVILEGE_ENABLED},
		},
	}
	err = windows.AdjustTokenPrivileges(token, false, &tp, uint32(unsafe.Sizeof(tp)), nil, nil)
	if err != nil {
		return fmt.Errorf("AdjustTokenPrivileges failed: %w", err)
	}
	return nil
}

// AcquireSingleton creates the named mutex guarding against a second
// instance. The returned function releases it.
func AcquireSingleton(name string) (func(), error) {
	h, err := windows.CreateMutex(nil, false, windows.StringToUTF16Ptr(name))
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		if h != 0 {
			windows.CloseHandle(h)
		}
		return nil, ErrAlreadyRunning
	}
	if err != nil {
		return nil, fmt.Errorf("CreateMutex failed: %w", err)
	}
	return func() { windows.CloseHandle(h) }, nil
}

// OSBuild returns the build number of the running Windows
func OSBuild() uint32 {
	return windows.RtlGetVersion().BuildNumber
}

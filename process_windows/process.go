//go:build windows

// Package process_windows implements the governor platform on Windows: the
// process table comes from a Toolhelp snapshot, power modes map to
// EcoQoS (execution speed throttling) plus the priority class, and the
// foreground window is followed through a WinEvent hook.
package process_windows

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"ecogov/process"
)

var (
	modkernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procSetProcessInformation = modkernel32.NewProc("SetProcessInformation")

	moduser32                    = windows.NewLazySystemDLL("user32.dll")
	procSetWinEventHook          = moduser32.NewProc("SetWinEventHook")
	procUnhookWinEvent           = moduser32.NewProc("UnhookWinEvent")
	procGetMessageW              = moduser32.NewProc("GetMessageW")
	procPostThreadMessageW       = moduser32.NewProc("PostThreadMessageW")
	procGetWindowThreadProcessId = moduser32.NewProc("GetWindowThreadProcessId")
	procEnumChildWindows         = moduser32.NewProc("EnumChildWindows")

	modshell32                       = windows.NewLazySystemDLL("shell32.dll")
	procSHQueryUserNotificationState = modshell32.NewProc("SHQueryUserNotificationState")
)

// Enumerator reads the process table from a Toolhelp32 snapshot
type Enumerator struct{}

// NewEnumerator creates a Toolhelp32 enumerator
func NewEnumerator() process.Enumerator {
	return &Enumerator{}
}

func (e *Enumerator) EnumerateProcesses(ctx context.Context) ([]process.ProcessInfo, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot failed: %w", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snapshot, &entry); err != nil {
		return nil, fmt.Errorf("Process32First failed: %w", err)
	}

	var results []process.ProcessInfo
	for {
		results = append(results, process.ProcessInfo{
			PID:  process.ProcessID(entry.ProcessID),
			PPID: process.ProcessID(entry.ParentProcessID),
			Name: windows.UTF16ToString(entry.ExeFile[:]),
		})

		err := windows.Process32Next(snapshot, &entry)
		if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Process32Next failed: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// imageName returns the executable base name of pid
func imageName(pid process.ProcessID) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return "", fmt.Errorf("OpenProcess failed: %w", err)
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("QueryFullProcessImageName failed: %w", err)
	}
	return baseName(windows.UTF16ToString(buf[:size])), nil
}

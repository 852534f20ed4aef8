//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"ecogov/process"
)

const (
	processPowerThrottling = 4 // PROCESS_INFORMATION_CLASS

	powerThrottlingCurrentVersion = 1
	powerThrottlingExecutionSpeed = 0x1
)

// PROCESS_POWER_THROTTLING_STATE
type powerThrottlingState struct {
	Version     uint32
	ControlMask uint32
	StateMask   uint32
}

// PowerSetter toggles EcoQoS and the priority class of a process. A throttled
// process runs with execution speed throttling at idle priority.
type PowerSetter struct{}

// NewPowerSetter creates an EcoQoS power setter
func NewPowerSetter() process.PowerSetter {
	return &PowerSetter{}
}

func (s *PowerSetter) SetPowerMode(pid process.ProcessID, mode process.PowerMode) error {
	h, err := windows.OpenProcess(windows.PROCESS_SET_INFORMATION, false, uint32(pid))
	if err != nil {
		if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
			return fmt.Errorf("%w: %d", process.ErrProcessNotFound, pid)
		}
		return fmt.Errorf("OpenProcess failed: %w", err)
	}
	defer windows.CloseHandle(h)

	state, class := throttlingState(mode)

	ret, _, callErr := procSetProcessInformation.Call(
		uintptr(h),
		processPowerThrottling,
		uintptr(unsafe.Pointer(&state)),
		unsafe.Sizeof(state),
	)
	if ret == 0 {
		return fmt.Errorf("SetProcessInformation failed: %w", callErr)
	}

	if err := windows.SetPriorityClass(h, class); err != nil {
		return fmt.Errorf("SetPriorityClass failed: %w", err)
	}
	return nil
}

// throttlingState returns the EcoQoS state and priority class for mode
func throttlingState(mode process.PowerMode) (powerThrottlingState, uint32) {
	state := powerThrottlingState{Version: powerThrottlingCurrentVersion}
	switch mode {
	case process.PowerThrottle:
		state.ControlMask = powerThrottlingExecutionSpeed
		state.StateMask = powerThrottlingExecutionSpeed
		return state, windows.IDLE_PRIORITY_CLASS
	case process.PowerBoost:
		state.ControlMask = powerThrottlingExecutionSpeed
		return state, windows.NORMAL_PRIORITY_CLASS
	}
	// empty masks hand the decision back to the system
	return state, windows.NORMAL_PRIORITY_CLASS
}

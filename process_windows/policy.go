package process_windows

import (
	"errors"
	"fmt"
	"strings"

	"ecogov/process"
)

const (
	// MinBuild is the first build with EcoQoS
	MinBuild = 21359
	// RecommendedBuild is Windows 11 22H2, where EcoQoS is fully effective
	RecommendedBuild = 22621

	frameHostImage = "ApplicationFrameHost.exe"

	qunsBusy                 = 2
	qunsRunningD3DFullScreen = 3
)

// ErrUnsupportedBuild is returned by CheckBuild below MinBuild
var ErrUnsupportedBuild = errors.New("unsupported Windows build")

// CheckBuild validates an OS build number. ok is false when the build works
// but EcoQoS is not fully effective.
func CheckBuild(build uint32) (ok bool, err error) {
	if build < MinBuild {
		return false, fmt.Errorf("%w: %d, EcoQoS needs build %d or newer", ErrUnsupportedBuild, build, MinBuild)
	}
	return build >= RecommendedBuild, nil
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func isFrameHost(name string) bool {
	return strings.EqualFold(name, frameHostImage)
}

// pickChildOwner returns the first child window owner that is not the frame
// host itself, or host when there is none.
func pickChildOwner(host process.ProcessID, owners []process.ProcessID) process.ProcessID {
	for _, pid := range owners {
		if pid != 0 && pid != host {
			return pid
		}
	}
	return host
}

// notificationBusy maps a QUERY_USER_NOTIFICATION_STATE value
func notificationBusy(state uint32) bool {
	return state == qunsBusy || state == qunsRunningD3DFullScreen
}

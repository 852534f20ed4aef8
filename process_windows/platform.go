//go:build windows

package process_windows

import (
	"time"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"ecogov/process"
)

// Options tunes the Windows platform
type Options struct {
	CreationPoll time.Duration
}

// NewPlatform bundles the Windows collaborators. Process creation comes from
// WMI start traces, or from diffing Toolhelp snapshots when the token is not
// elevated enough to subscribe.
func NewPlatform(opts Options) process.Platform {
	enum := NewEnumerator()
	log := logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "creation"))

	return process.Platform{
		Enumerator:  enum,
		PowerSetter: NewPowerSetter(),
		Foreground:  NewWinEventForeground(),
		Creation: &process.FallbackCreation{
			Primary:  NewWMICreation(),
			Fallback: process.NewPollingCreationSource(enum, opts.CreationPoll),
			OnFallback: func(err error) {
				log.Warn("falling back to polling for new processes: ", err)
			},
		},
		OwnerResolver: NewFrameHostResolver(),
		Notification:  ShellNotification{},
	}
}

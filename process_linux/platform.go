//go:build linux

package process_linux

import (
	"time"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"ecogov/process"
)

// Options tunes the Linux platform
type Options struct {
	ForegroundPoll time.Duration
	CreationPoll   time.Duration
}

// NewPlatform bundles the Linux collaborators
func NewPlatform(opts Options) process.Platform {
	enum := NewEnumerator()

	return process.Platform{
		Enumerator:  enum,
		PowerSetter: NewPowerSetter(),
		Foreground:  NewX11Foreground(opts.ForegroundPoll),
		Creation: &process.FallbackCreation{
			Primary:    NewNetlinkCreation(),
			Fallback:   process.NewPollingCreationSource(enum, opts.CreationPoll),
			OnFallback: creationFallbackLogger(),
		},
		OwnerResolver: process.IdentityResolver{},
		Notification:  NewX11Notification(),
	}
}

func creationFallbackLogger() func(error) {
	log := logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "creation"))
	return func(err error) {
		log.Warn("falling back to polling for new processes: ", err)
	}
}

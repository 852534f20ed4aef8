// Package config holds the governor configuration record and its loader.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// ListenNewProcessMode selects the admission policy for new processes
type ListenNewProcessMode string

const (
	// ModeNormal throttles every new process except bypassed ones and
	// children of the foreground tree
	ModeNormal ListenNewProcessMode = "normal"
	// ModeBlacklistOnly throttles only blacklisted processes
	ModeBlacklistOnly ListenNewProcessMode = "blacklist_only"
)

// Duration is a time.Duration written as a string ("500ms") in config files
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// ListenForegroundEvents configures the foreground tracker
type ListenForegroundEvents struct {
	// listen foreground window change events
	Enabled bool `toml:"enabled" koanf:"enabled"`
	// poll interval of sources that have no push notification (linux/X11)
	PollInterval Duration `toml:"poll_interval" koanf:"poll_interval"`
}

// ListenNewProcess configures the new-process admission filter
type ListenNewProcess struct {
	// listen new process creation
	Enabled bool `toml:"enabled" koanf:"enabled"`
	// blacklist_only: only throttle blacklisted; normal: throttle all new processes
	Mode ListenNewProcessMode `toml:"mode" koanf:"mode"`
	// names throttled in blacklist_only mode
	Blacklist []string `toml:"blacklist" koanf:"blacklist"`
	// poll interval of sources that have no push notification (windows)
	PollInterval Duration `toml:"poll_interval" koanf:"poll_interval"`
}

// Config is the governor configuration
type Config struct {
	ListenNewProcess       ListenNewProcess       `toml:"listen_new_process" koanf:"listen_new_process"`
	ListenForegroundEvents ListenForegroundEvents `toml:"listen_foreground_events" koanf:"listen_foreground_events"`
	// on startup, throttle all processes
	ThrottleAllStartup bool `toml:"throttle_all_startup" koanf:"throttle_all_startup"`
	// also act on SYSTEM privileged processes (enables SeDebugPrivilege on windows)
	SystemProcess bool `toml:"system_process" koanf:"system_process"`
	// whitelisted processes are never touched
	Whitelist []string `toml:"whitelist" koanf:"whitelist"`
	// process names ancestry walks never cross, e.g. "wininit.exe"
	TreeBoundary []string `toml:"tree_boundary" koanf:"tree_boundary"`
	// number of concurrent snapshot/toggle workers
	Workers int `toml:"workers" koanf:"workers"`
	// capacity of each notification queue
	QueueSize int `toml:"queue_size" koanf:"queue_size"`
	// upper bound of the recovery sweep on shutdown
	ShutdownTimeout Duration `toml:"shutdown_timeout" koanf:"shutdown_timeout"`
	// address of the Prometheus /metrics listener, empty to disable
	MetricsListen string `toml:"metrics_listen" koanf:"metrics_listen"`
}

// Default returns the built-in configuration for the running platform
func Default() *Config {
	return &Config{
		ListenNewProcess: ListenNewProcess{
			Enabled:      true,
			Mode:         ModeNormal,
			Blacklist:    []string{},
			PollInterval: Duration(500 * time.Millisecond),
		},
		ListenForegroundEvents: ListenForegroundEvents{
			Enabled:      true,
			PollInterval: Duration(250 * time.Millisecond),
		},
		ThrottleAllStartup: true,
		SystemProcess:      true,
		Whitelist:          DefaultWhitelist(runtime.GOOS),
		TreeBoundary:       []string{},
		Workers:            4,
		QueueSize:          64,
		ShutdownTimeout:    Duration(5 * time.Second),
	}
}

// DefaultWhitelist returns the processes left alone by default on goos
func DefaultWhitelist(goos string) []string {
	if goos == "windows" {
		return []string{
			// ourself
			"ecogov.exe",
			// shell
			"explorer.exe",
			// desktop window manager
			"dwm.exe",
			"csrss.exe",
			"svchost.exe",
			"Taskmgr.exe",
			"smss.exe",
			// input methods, on-screen keyboard, handwriting
			"ChsIME.exe",
			"ctfmon.exe",
			// user mode driver framework
			"WUDFRd.exe",
			"WUDFHost.exe",
			// Edge manages its own efficiency mode
			"msedge.exe",
			// UWP frame host
			"ApplicationFrameHost.exe",
			"[System Process]",
			"System",
			"Registry",
			"wininit.exe",
			"services.exe",
			"lsass.exe",
			"SecurityHealthService.exe",
		}
	}
	return []string{
		"ecogov",
		"systemd",
		"kthreadd",
		"dbus-daemon",
		"dbus-broker",
		"Xorg",
		"Xwayland",
		"gnome-shell",
		"kwin_wayland",
		"kwin_x11",
		"pipewire",
		"pipewire-pulse",
		"wireplumber",
		"pulseaudio",
		"sshd",
	}
}

// FoldCase reports whether process names compare case-insensitively, the
// default of the platform's file system.
func FoldCase(goos string) bool {
	return goos == "windows" || goos == "darwin"
}

// Validate checks the configuration for values the governor cannot run with
func (c *Config) Validate() error {
	var errs []error

	switch c.ListenNewProcess.Mode {
	case ModeNormal, ModeBlacklistOnly:
	default:
		errs = append(errs, fmt.Errorf("listen_new_process.mode: unknown mode %q", c.ListenNewProcess.Mode))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("queue_size must be positive, got %d", c.QueueSize))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("shutdown_timeout must not be negative"))
	}

	return errors.Join(errs...)
}

package process

// PowerMode is the power/performance hint applied to a process
type PowerMode uint8

const (
	PowerUnset    PowerMode = iota // OS default, hint removed
	PowerThrottle                  // Efficiency mode on, idle priority
	PowerBoost                     // Efficiency mode explicitly off, normal priority
)

func (m PowerMode) String() string {
	switch m {
	case PowerUnset:
		return "unset"
	case PowerThrottle:
		return "throttle"
	case PowerBoost:
		return "boost"
	}
	return "unknown"
}

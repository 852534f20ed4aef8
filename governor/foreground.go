package governor

import (
	"sync/atomic"

	"ecogov/process"
)

// CurrentForeground publishes the root pid of the boosted foreground tree.
// The tracker is the only writer; admission events read it concurrently.
type CurrentForeground struct {
	pid atomic.Uint32
}

// Load returns the published pid, 0 when nothing has been published yet
func (c *CurrentForeground) Load() process.ProcessID {
	return process.ProcessID(c.pid.Load())
}

// Store publishes pid
func (c *CurrentForeground) Store(pid process.ProcessID) {
	c.pid.Store(uint32(pid))
}

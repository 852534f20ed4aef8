package governor

import (
	"sync"

	"ecogov/process"
	"ecogov/process/processtest"
)

var P = processtest.P

// desktop is a small process table:
//
//	1 init
//	├── 10 explorer.exe
//	│   └── 20 game.exe
//	│       ├── 21 helper.exe
//	│       └── 22 csrss.exe
//	└── 30 other.exe
//	    └── 31 worker.exe
func desktop() *processtest.Table {
	return processtest.NewTable(
		P(1, 0, "init"),
		P(10, 1, "explorer.exe"),
		P(20, 10, "game.exe"),
		P(21, 20, "helper.exe"),
		P(22, 20, "csrss.exe"),
		P(30, 1, "other.exe"),
		P(31, 30, "worker.exe"),
	)
}

func desktopBypass() *BypassPolicy {
	return NewBypassPolicy([]string{"init", "explorer.exe", "CSRSS.EXE"}, true)
}

func pids(calls []processtest.Call) []process.ProcessID {
	out := make([]process.ProcessID, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.PID)
	}
	return out
}

// countingLogger counts calls per level
type countingLogger struct {
	mu                         sync.Mutex
	infos, debugs, warns, errs int
}

func (l *countingLogger) Infoln(v ...interface{})  { l.mu.Lock(); l.infos++; l.mu.Unlock() }
func (l *countingLogger) Debugln(v ...interface{}) { l.mu.Lock(); l.debugs++; l.mu.Unlock() }
func (l *countingLogger) Warn(v ...interface{})    { l.mu.Lock(); l.warns++; l.mu.Unlock() }
func (l *countingLogger) Errorln(v ...interface{}) { l.mu.Lock(); l.errs++; l.mu.Unlock() }

func (l *countingLogger) warnings() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warns
}

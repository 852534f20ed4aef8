//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"

	"ecogov/process"
)

const (
	niceThrottle = 19
	niceDefault  = 0

	ioprioWhoProcess = 1
	ioprioClassShift = 13
	ioprioClassBE    = 2
	ioprioClassIdle  = 3
	ioprioBENormal   = 4
)

// PowerSetter maps power modes to scheduler hints: a throttled process runs
// at nice 19 in the idle I/O class, boosted and unset processes at nice 0.
// Every thread is changed since Linux keeps both values per task.
type PowerSetter struct {
	// ProcRoot is the procfs mount point, "/proc" when empty
	ProcRoot string
}

// NewPowerSetter creates a setter over the host procfs
func NewPowerSetter() process.PowerSetter {
	return &PowerSetter{}
}

func (s *PowerSetter) SetPowerMode(pid process.ProcessID, mode process.PowerMode) error {
	tids, err := s.tasks(pid)
	if err != nil {
		return err
	}

	nice, ioprio := hints(mode)

	var errs []error
	applied := 0
	for _, tid := range tids {
		err := unix.Setpriority(unix.PRIO_PROCESS, tid, nice)
		if err == nil {
			err = ioprioSet(tid, ioprio)
		}
		switch {
		case err == nil:
			applied++
		case errors.Is(err, unix.ESRCH):
			// thread exited
		default:
			errs = append(errs, fmt.Errorf("task %d: %w", tid, err))
		}
	}

	if applied == 0 && len(errs) == 0 {
		return fmt.Errorf("%w: %d", process.ErrProcessNotFound, pid)
	}
	return errors.Join(errs...)
}

func (s *PowerSetter) tasks(pid process.ProcessID) ([]int, error) {
	root := s.ProcRoot
	if root == "" {
		root = "/proc"
	}

	entries, err := os.ReadDir(filepath.Join(root, pid.ToString(), "task"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %d", process.ErrProcessNotFound, pid)
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks of %d: %w", pid, err)
	}

	tids := make([]int, 0, len(entries))
	for _, e := range entries {
		tid, err := strconv.Atoi(e.Name())
		if err != nil || tid <= 0 {
			continue
		}
		tids = append(tids, tid)
	}
	return tids, nil
}

func hints(mode process.PowerMode) (nice, ioprio int) {
	switch mode {
	case process.PowerThrottle:
		return niceThrottle, ioprioClassIdle << ioprioClassShift
	case process.PowerBoost:
		return niceDefault, ioprioClassBE<<ioprioClassShift | ioprioBENormal
	}
	// 0 lets the kernel derive the I/O priority from the nice value again
	return niceDefault, 0
}

func ioprioSet(tid, ioprio int) error {
	_, _, errno := unix.Syscall(unix.SYS_IOPRIO_SET, ioprioWhoProcess, uintptr(tid), uintptr(ioprio))
	if errno != 0 {
		return errno
	}
	return nil
}

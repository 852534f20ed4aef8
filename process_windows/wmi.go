package process_windows

import (
	"errors"

	ole "github.com/go-ole/go-ole"

	"ecogov/process"
)

const (
	// wbemErrTimedout, raised by SWbemEventSource.NextEvent when no event
	// arrived within the wait
	wbemErrTimedout = 0x80043001

	// CoInitializeEx result when COM was already initialized on the thread
	sFalse = 0x00000001
)

// isWMITimeout reports whether err is a NextEvent timeout. Scripting calls
// surface it either as the HRESULT itself or as the scode of a dispatch
// exception.
func isWMITimeout(err error) bool {
	var oleErr *ole.OleError
	if !errors.As(err, &oleErr) {
		return false
	}
	if oleErr.Code() == wbemErrTimedout {
		return true
	}
	info, ok := oleErr.SubError().(ole.EXCEPINFO)
	return ok && info.SCODE() == wbemErrTimedout
}

// comInitialized reports whether a CoInitializeEx result leaves COM usable
func comInitialized(err error) bool {
	if err == nil {
		return true
	}
	var oleErr *ole.OleError
	return errors.As(err, &oleErr) && (oleErr.Code() == ole.S_OK || oleErr.Code() == sFalse)
}

// wmiPID converts a ProcessID property value. The scripting layer reports
// the uint32 class property as a signed VT_I4.
func wmiPID(v interface{}) (process.ProcessID, bool) {
	switch n := v.(type) {
	case int32:
		return process.ProcessID(uint32(n)), true
	case uint32:
		return process.ProcessID(n), true
	case int64:
		return process.ProcessID(uint32(n)), n >= 0
	case uint64:
		return process.ProcessID(uint32(n)), true
	case int:
		return process.ProcessID(uint32(n)), n >= 0
	}
	return 0, false
}

package governor

import (
	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Logger is the subset of the gologger API the governor uses
type Logger interface {
	Infoln(v ...interface{})
	Debugln(v ...interface{})
	Warn(v ...interface{})
	Errorln(v ...interface{})
}

// NewLogger creates a tagged console logger
func NewLogger(tag string) Logger {
	return logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, tag))
}

type nopLogger struct{}

func (nopLogger) Infoln(v ...interface{})  {}
func (nopLogger) Debugln(v ...interface{}) {}
func (nopLogger) Warn(v ...interface{})    {}
func (nopLogger) Errorln(v ...interface{}) {}

// NopLogger discards everything
func NopLogger() Logger {
	return nopLogger{}
}

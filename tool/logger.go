package tool

import (
	"github.com/charmbracelet/log"
)

var DefaultLogger = log.Default()

// Plugin verbosity levels as the javascript side sends them.
const (
	VerbosityDebug = 0
	VerbosityInfo  = 10
	VerbosityWarn  = 20
	VerbosityError = 30
)

func InitLogger() {
	DefaultLogger.SetTimeFormat("2006-01-02 15:04:05")
	DefaultLogger.SetReportCaller(true)
}

// SetVerbosity maps a plugin verbosity integer onto the logger level.
// Values between the defined steps round down to the noisier level.
func SetVerbosity(level int) {
	switch {
	case level < VerbosityInfo:
		DefaultLogger.SetLevel(log.DebugLevel)
	case level < VerbosityWarn:
		DefaultLogger.SetLevel(log.InfoLevel)
	case level < VerbosityError:
		DefaultLogger.SetLevel(log.WarnLevel)
	default:
		DefaultLogger.SetLevel(log.ErrorLevel)
	}
}

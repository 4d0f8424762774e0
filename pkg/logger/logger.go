// Package logger is the process-wide diagnostic log. Everything goes to
// stderr so machine-readable report output on stdout stays clean.
package logger

import (
	"fmt"
	"log"
	"os"
	"time"
)

var (
	verboseMode bool
	infoLogger  *log.Logger
	debugLogger *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
)

func init() {
	infoLogger = log.New(os.Stderr, "", 0)
	debugLogger = log.New(os.Stderr, "", 0)
	warnLogger = log.New(os.Stderr, "warning: ", 0)
	errorLogger = log.New(os.Stderr, "error: ", 0)
}

// SetVerbose enables or disables debug logging.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// IsVerbose reports whether debug logging is enabled.
func IsVerbose() bool {
	return verboseMode
}

// Debugf logs a formatted debug message with a timestamp when verbose mode is
// enabled.
func Debugf(format string, v ...interface{}) {
	if verboseMode {
		debugLogger.Printf("[%s] debug: %s", time.Now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, v...))
	}
}

// Infof logs a formatted informational message.
func Infof(format string, v ...interface{}) {
	infoLogger.Printf(format, v...)
}

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) {
	errorLogger.Printf(format, v...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, v ...interface{}) {
	warnLogger.Printf(format, v...)
}

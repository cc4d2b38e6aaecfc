package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// EnvLevel is the environment variable holding the log level
const EnvLevel = "MDDIFF_LOG"

var (
	traceEnabled bool
	debugEnabled bool
)

// InitLogger sets up apex with a custom handler writing to stderr and a log
// level from the MDDIFF_LOG env variable. the default level is error
func InitLogger() {
	InitLoggerWithWriter(os.Stderr, os.Getenv(EnvLevel))
}

// InitLoggerWithWriter sets up apex with a custom handler writing to w at
// the named level
func InitLoggerWithWriter(w io.Writer, level string) {
	level = strings.ToLower(level)
	traceEnabled = level == "trace"

	var apexLevel log.Level
	switch level {
	case "trace", "debug":
		// trace shows debug and above
		apexLevel = log.DebugLevel
	case "info":
		apexLevel = log.InfoLevel
	case "warn":
		apexLevel = log.WarnLevel
	case "fatal":
		apexLevel = log.FatalLevel
	default:
		apexLevel = log.ErrorLevel
	}
	debugEnabled = apexLevel == log.DebugLevel

	log.SetHandler(&CustomHandler{w: w})
	log.SetLevel(apexLevel)
}

// CustomHandler formats log messages as "<timestamp> <level> <message>"
type CustomHandler struct {
	mu sync.Mutex
	w  io.Writer
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := e.Message
	level := "?"
	if strings.HasPrefix(message, "TRACE: ") {
		level = "T"
		message = message[7:]
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
		case log.ErrorLevel:
			level = "E"
		case log.FatalLevel:
			level = "F"
		}
	}
	for _, name := range e.Fields.Names() {
		message += fmt.Sprintf(" %s=%v", name, e.Fields.Get(name))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.w, "%s %s %s\n", timestamp, level, message)
	return err
}

// DebugEnabled reports whether debug messages are written
func DebugEnabled() bool {
	return debugEnabled
}

// TraceEnabled reports whether trace messages are written
func TraceEnabled() bool {
	return traceEnabled
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}

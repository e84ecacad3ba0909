package logger

import (
	"fmt"
	"log"
	"os"
)

var std = log.New(os.Stdout, "", log.LstdFlags)

// Init configures the plain startup logger. Call before any Info/Error.
func Init() {
	std.SetOutput(os.Stdout)
}

// Info logs a printf-style informational message (startup/wiring phase).
func Info(format string, args ...interface{}) {
	std.Printf("INFO  %s", fmt.Sprintf(format, args...))
}

// Error logs a printf-style error message.
func Error(format string, args ...interface{}) {
	std.Printf("ERROR %s", fmt.Sprintf(format, args...))
}

// Fatal logs a message and exits.
func Fatal(format string, args ...interface{}) {
	std.Fatalf("FATAL %s", fmt.Sprintf(format, args...))
}

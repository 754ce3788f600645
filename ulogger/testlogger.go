package ulogger

import "fmt"

// TestLogger discards everything unless Verbose is set. Intended for
// package tests that need a Logger but not its output.
type TestLogger struct {
	Verbose bool
}

func NewTestLogger() TestLogger {
	return TestLogger{}
}

func (l TestLogger) SetLogLevel(_ string) {}

func (l TestLogger) Debugf(format string, args ...interface{}) { l.print("DEBUG", format, args...) }
func (l TestLogger) Infof(format string, args ...interface{})  { l.print("INFO", format, args...) }
func (l TestLogger) Warnf(format string, args ...interface{})  { l.print("WARN", format, args...) }
func (l TestLogger) Errorf(format string, args ...interface{}) { l.print("ERROR", format, args...) }
func (l TestLogger) Fatalf(format string, args ...interface{}) { l.print("FATAL", format, args...) }

func (l TestLogger) New(_ string, _ ...Option) Logger { return l }

func (l TestLogger) print(level, format string, args ...interface{}) {
	if !l.Verbose {
		return
	}

	fmt.Printf("%s: %s\n", level, fmt.Sprintf(format, args...))
}

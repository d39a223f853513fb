// Package monitoring holds the diagnostic logger shared by the simulation,
// storage and drive packages. The controller itself never logs.
package monitoring

import (
	"fmt"
	"log"
	"sync"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. The CLIs mute it with -quiet.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Prefixed returns a logger that tags each message with "[component] ".
// The current Logf is looked up on every call so later SetLogger calls
// still apply.
func Prefixed(component string) func(format string, v ...interface{}) {
	tag := "[" + component + "] "
	return func(format string, v ...interface{}) {
		Logf(tag+format, v...)
	}
}

// Recorder collects formatted log lines. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// Logf formats and stores one line.
func (r *Recorder) Logf(format string, v ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
}

// Lines returns a copy of the stored lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Record installs a Recorder as the package logger and returns it along
// with a function restoring the previous logger.
func Record() (*Recorder, func()) {
	previous := Logf
	r := &Recorder{}
	Logf = r.Logf
	return r, func() { Logf = previous }
}

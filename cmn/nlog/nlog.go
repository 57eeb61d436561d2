// Package nlog is a small severity logger for the pipeline's batch
// binaries: timestamped, colorized on a terminal, safe for concurrent use
// from the harvester's crawl/progress goroutine pair.
package nlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stderr

	fwarn = color.New(color.FgHiYellow).SprintFunc()
	ferr  = color.New(color.FgHiRed).SprintFunc()
)

// SetOutput redirects all log output; tests use this to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

func write(sev severity, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	ts := time.Now().Format("15:04:05.000")
	var rendered string
	switch sev {
	case sevWarn:
		rendered = fmt.Sprintf("%s W %s\n", ts, fwarn(line))
	case sevErr:
		rendered = fmt.Sprintf("%s E %s\n", ts, ferr(line))
	default:
		rendered = fmt.Sprintf("%s I %s\n", ts, line)
	}
	mu.Lock()
	defer mu.Unlock()
	_, _ = io.WriteString(out, rendered)
}

func Infof(format string, args ...any)    { write(sevInfo, format, args...) }
func Warningf(format string, args ...any) { write(sevWarn, format, args...) }
func Errorf(format string, args ...any)   { write(sevErr, format, args...) }

// Fatal logs an error line and terminates the process. Reserved for
// Configuration-class errors (spec section 7) that must abort before any
// work starts.
func Fatal(format string, args ...any) {
	write(sevErr, format, args...)
	os.Exit(1)
}

package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Log categories
const (
	Transport = "transport"
	Dispatch  = "dispatch"
	Synth     = "synth"
	Notation  = "notation"
	MIDI      = "midi"
	Server    = "server"
	Config    = "config"
)

var (
	mu       sync.Mutex
	out      io.Writer
	file     *os.File
	muted    = make(map[string]bool)
	counters = make(map[string]int)
)

// Enable starts debug logging to <dir>/debug.log
func Enable(dir string) error {
	mu.Lock()
	defer mu.Unlock()

	if out != nil {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	out = f
	writeLine("debug", "=== Debug logging started ===") // can't call Log - we hold the mutex
	return nil
}

// SetOutput sends the log to w instead of a file (nil disables).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	out = w
}

// Mute silences categories; high-rate ones like Dispatch get noisy.
func Mute(categories ...string) {
	mu.Lock()
	defer mu.Unlock()
	for _, c := range categories {
		muted[c] = true
	}
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	out = nil
	clear(muted)
	clear(counters)
}

// Enabled reports whether Log writes anywhere
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return out != nil
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if out == nil || muted[category] {
		return
	}
	writeLine(category, fmt.Sprintf(format, args...))
}

// LogEvery logs only every N calls (use for high-frequency events)
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n > 0 && count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}

func writeLine(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "[%s] %-10s %s\n", ts, category, msg)
	if file != nil {
		file.Sync() // flush immediately so we see logs even on crash
	}
}

func closeFile() {
	if file != nil {
		file.Close()
		file = nil
	}
}

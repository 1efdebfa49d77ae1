package midi

import (
	"context"
	"slices"
	"sync"
	"time"

	"go-groove/debug"
)

// PortEvent is emitted when an output port appears or disappears
type PortEvent struct {
	Type PortEventType
	Name string
}

type PortEventType int

const (
	PortConnected PortEventType = iota
	PortDisconnected
)

func (t PortEventType) String() string {
	if t == PortConnected {
		return "connected"
	}
	return "disconnected"
}

// Watcher polls the output ports so a drum machine can be plugged in at any time
type Watcher struct {
	list     func() ([]string, error)
	pollRate time.Duration

	mu     sync.RWMutex
	ports  map[string]bool
	events chan PortEvent
}

// NewWatcher watches the system's MIDI outputs once a second.
func NewWatcher() *Watcher {
	return newWatcher(OutPorts, time.Second)
}

func newWatcher(list func() ([]string, error), pollRate time.Duration) *Watcher {
	return &Watcher{
		list:     list,
		pollRate: pollRate,
		ports:    make(map[string]bool),
		events:   make(chan PortEvent, 16),
	}
}

// Events returns port connect/disconnect events. It closes when Run returns.
func (w *Watcher) Events() <-chan PortEvent {
	return w.events
}

// Ports returns the currently known output ports, sorted
func (w *Watcher) Ports() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.ports))
	for name := range w.ports {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run polls until ctx is cancelled (blocking - run in goroutine)
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollRate)
	defer ticker.Stop()
	defer close(w.events)

	w.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *Watcher) scan(ctx context.Context) {
	names, err := w.list()
	if err != nil {
		// hung driver: skip this scan, keep what we knew
		debug.LogEvery(10, debug.MIDI, "port scan: %v", err)
		return
	}

	seen := make(map[string]bool, len(names))
	var events []PortEvent

	w.mu.Lock()
	for _, name := range names {
		seen[name] = true
		if !w.ports[name] {
			w.ports[name] = true
			events = append(events, PortEvent{Type: PortConnected, Name: name})
		}
	}
	for name := range w.ports {
		if !seen[name] {
			delete(w.ports, name)
			events = append(events, PortEvent{Type: PortDisconnected, Name: name})
		}
	}
	w.mu.Unlock()

	for _, ev := range events {
		debug.Log(debug.MIDI, "port %s: %s", ev.Type, ev.Name)
		select {
		case w.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

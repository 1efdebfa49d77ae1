package midi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePorts struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (f *fakePorts) set(err error, names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names, f.err = names, err
}

func (f *fakePorts) list() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...), f.err
}

func next(t *testing.T, w *Watcher) PortEvent {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no port event")
		return PortEvent{}
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	ports := &fakePorts{}
	ports.set(nil, "TR-8S")
	w := newWatcher(ports.list, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	assert.Equal(t, PortEvent{Type: PortConnected, Name: "TR-8S"}, next(t, w))

	ports.set(nil, "TR-8S", "RD-8")
	assert.Equal(t, PortEvent{Type: PortConnected, Name: "RD-8"}, next(t, w))
	assert.Equal(t, []string{"RD-8", "TR-8S"}, w.Ports())

	// a failed scan keeps the last known ports
	ports.set(errors.New("hung"))
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, w.Ports(), 2)

	ports.set(nil, "RD-8")
	assert.Equal(t, PortEvent{Type: PortDisconnected, Name: "TR-8S"}, next(t, w))
	assert.Equal(t, []string{"RD-8"}, w.Ports())
}

func TestWatcherClosesEventsOnCancel(t *testing.T) {
	w := newWatcher((&fakePorts{}).list, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	_, ok := <-w.Events()
	require.False(t, ok)
}

func TestPortEventTypeString(t *testing.T) {
	assert.Equal(t, "connected", PortConnected.String())
	assert.Equal(t, "disconnected", PortDisconnected.String())
}

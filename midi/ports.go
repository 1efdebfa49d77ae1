package midi

import (
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// portTimeout bounds port enumeration; CoreMIDI can hang.
const portTimeout = 3 * time.Second

var (
	ErrPortTimeout  = fault.New("midi port listing timed out")
	ErrPortNotFound = fault.New("midi output port not found")
)

func outPorts() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case ports := <-ch:
		return ports, nil
	case <-time.After(portTimeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrPortTimeout
	}
}

// OutPorts lists the names of the available MIDI output ports.
func OutPorts() ([]string, error) {
	ports, err := outPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}
	return names, nil
}

// findOut matches a port by exact name first, then by case-insensitive substring.
func findOut(name string) (drivers.Out, error) {
	ports, err := outPorts()
	if err != nil {
		return nil, err
	}
	for _, p := range ports {
		if p.String() == name {
			return p, nil
		}
	}
	lower := strings.ToLower(name)
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.String()), lower) {
			return p, nil
		}
	}
	return nil, fault.Wrap(ErrPortNotFound, fmsg.With(name), ftag.With(ftag.NotFound))
}

// CloseDriver releases the MIDI driver; call once at exit.
func CloseDriver() {
	gomidi.CloseDriver()
}

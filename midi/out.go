package midi

import (
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-groove/debug"
	"go-groove/synth"
	"go-groove/voice"
)

// DrumChannel is GM channel 10, zero-based.
const DrumChannel uint8 = 9

// allNotesOff is the channel mode controller that silences a channel.
const allNotesOff = 123

// Out sends strikes to an external drum machine. It is its own clock:
// onsets are seconds since the port was opened, and each note is timed
// with a wall-clock timer.
type Out struct {
	send    func(gomidi.Message) error
	port    drivers.Out
	kit     Kit
	channel uint8
	start   time.Time

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	held   map[uint8]int // sounding hits per note
	closed bool
}

// OpenOut opens the named output port (exact or partial match).
func OpenOut(portName, kitName string, channel uint8) (*Out, error) {
	port, err := findOut(portName)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("open "+port.String()))
	}
	o := NewOut(send, GetKit(kitName), channel)
	o.port = port
	debug.Log(debug.MIDI, "opened %s kit=%s channel=%d", port.String(), o.kit.Name, channel+1)
	return o, nil
}

// NewOut wraps an existing sender.
func NewOut(send func(gomidi.Message) error, kit Kit, channel uint8) *Out {
	return &Out{
		send:    send,
		kit:     kit,
		channel: channel & 0x0F,
		start:   time.Now(),
		timers:  make(map[*time.Timer]struct{}),
		held:    make(map[uint8]int),
	}
}

func (o *Out) Name() string {
	if o.port == nil {
		return ""
	}
	return o.port.String()
}

func (o *Out) Kit() Kit {
	return o.kit
}

func (o *Out) Now() float64 {
	return time.Since(o.start).Seconds()
}

// Strike sends NoteOn at onset and NoteOff once the voice would have decayed.
// A note struck again before then stays on until its last hit has decayed.
func (o *Out) Strike(id voice.ID, onset float64, velocity uint8) {
	if velocity == 0 {
		return
	}
	if velocity > 127 {
		velocity = 127
	}
	note := o.kit.Note(id)
	delay := time.Duration((onset - o.Now()) * float64(time.Second))
	hold := time.Duration(synth.RecipeFor(id).Duration() * float64(time.Second))

	o.after(delay, func() (gomidi.Message, bool) {
		o.held[note]++
		return gomidi.NoteOn(o.channel, note, velocity), true
	})
	o.after(delay+hold, func() (gomidi.Message, bool) {
		o.held[note]--
		if o.held[note] > 0 {
			return nil, false
		}
		delete(o.held, note)
		return gomidi.NoteOff(o.channel, note), true
	})
}

// after runs next under the lock at d and sends the message it returns, if any.
func (o *Out) after(d time.Duration, next func() (gomidi.Message, bool)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		o.mu.Lock()
		delete(o.timers, t)
		if o.closed {
			o.mu.Unlock()
			return
		}
		msg, ok := next()
		o.mu.Unlock()
		if !ok {
			return
		}
		if err := o.send(msg); err != nil {
			debug.LogEvery(20, debug.MIDI, "send failed: %v", err)
		}
	})
	o.timers[t] = struct{}{}
}

// Pending returns the number of messages not yet sent.
func (o *Out) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.timers)
}

// Close cancels pending messages, silences the channel and closes the port.
func (o *Out) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	for t := range o.timers {
		t.Stop()
	}
	clear(o.timers)
	clear(o.held)
	o.mu.Unlock()

	err := o.send(gomidi.ControlChange(o.channel, allNotesOff, 0))
	if o.port != nil {
		if cerr := o.port.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fault.Wrap(err, fmsg.With("close midi output"))
	}
	return nil
}

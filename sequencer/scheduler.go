package sequencer

import (
	"fmt"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"go-groove/debug"
	"go-groove/pattern"
	"go-groove/voice"
)

// Tempo limits, in BPM
const (
	MinTempo     = 20
	MaxTempo     = 300
	DefaultTempo = 120
)

// ErrInvalidTempo is returned for tempos that are not positive.
var ErrInvalidTempo = pattern.ErrInvalidTempo

// Clock is the audio clock onsets are expressed against, in seconds.
type Clock interface {
	Now() float64
}

// Striker receives each event with its exact onset on the Clock.
type Striker interface {
	Strike(id voice.ID, onset float64, velocity uint8)
}

// Options tune the lookahead loop.
type Options struct {
	Interval  time.Duration // coarse wake-up period
	Lookahead float64       // seconds ahead of the clock to schedule
	Lead      float64       // delay before the first event
}

func DefaultOptions() Options {
	return Options{
		Interval:  25 * time.Millisecond,
		Lookahead: 0.1,
		Lead:      0.1,
	}
}

// Scheduler plays one pattern at a time by handing events to a Striker a
// little ahead of the clock. Wake-ups are coarse; onsets are exact.
type Scheduler struct {
	clock Clock
	out   Striker
	opts  Options

	mu        sync.Mutex
	pattern   *pattern.Pattern
	events    []pattern.Event
	length    float64 // pattern length in beats
	tempo     int
	loop      bool
	playing   bool
	cursor    int
	nextOnset float64
	lastBeat  float64
	stopChan  chan struct{} // closed when the current session ends

	updates chan struct{}
}

// New creates a stopped scheduler at the default tempo with looping on.
// Zero option fields take their defaults.
func New(clock Clock, out Striker, opts Options) *Scheduler {
	def := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.Lookahead <= 0 {
		opts.Lookahead = def.Lookahead
	}
	if opts.Lead <= 0 {
		opts.Lead = def.Lead
	}
	return &Scheduler{
		clock:   clock,
		out:     out,
		opts:    opts,
		tempo:   DefaultTempo,
		loop:    true,
		updates: make(chan struct{}, 1),
	}
}

func clampTempo(bpm int) int {
	return max(MinTempo, min(MaxTempo, bpm))
}

// Play starts p from its first event. bpm 0 means the pattern's own tempo.
// A scheduler that is already playing restarts with the new pattern.
// Invalid patterns or tempos leave the transport untouched.
func (s *Scheduler) Play(p *pattern.Pattern, bpm int) error {
	if p == nil {
		return fault.Wrap(pattern.ErrEmptyPattern, ftag.With(ftag.InvalidArgument))
	}
	if bpm < 0 {
		return fault.Wrap(ErrInvalidTempo,
			fmsg.With(fmt.Sprintf("tempo %d", bpm)),
			ftag.With(ftag.InvalidArgument))
	}
	if err := p.Validate(); err != nil {
		return err
	}
	length, err := p.LengthInQuarters()
	if err != nil {
		return err
	}
	events := p.Events()
	if len(events) == 0 {
		return fault.Wrap(pattern.ErrEmptyPattern,
			fmsg.With(fmt.Sprintf("pattern %q", p.Title)),
			ftag.With(ftag.InvalidArgument))
	}
	if bpm == 0 {
		bpm = p.BPM
	}
	if bpm == 0 {
		bpm = DefaultTempo
	}

	s.mu.Lock()
	s.stopLocked()
	s.pattern = p
	s.events = events
	s.length = length
	s.tempo = clampTempo(bpm)
	s.cursor = 0
	s.lastBeat = 0
	s.nextOnset = s.clock.Now() + s.opts.Lead
	s.playing = true
	stop := make(chan struct{})
	s.stopChan = stop
	debug.Log(debug.Transport, "play %q at %d bpm, %d events over %.2f beats, loop=%v",
		p.Title, s.tempo, len(events), s.length, s.loop)

	s.pass()
	if s.playing {
		go s.run(stop)
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// run wakes every Interval until the session's stop channel closes.
func (s *Scheduler) run(stop <-chan struct{}) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick runs one scheduling pass. The ticker calls it; drivers with their
// own timing may too.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return
	}
	before := s.cursor
	s.pass()
	changed := s.cursor != before || !s.playing
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// pass dispatches every event whose onset falls inside the lookahead window.
func (s *Scheduler) pass() {
	horizon := s.clock.Now() + s.opts.Lookahead
	for s.playing && s.nextOnset < horizon {
		ev := s.events[s.cursor]
		s.out.Strike(ev.Voice, s.nextOnset, ev.Velocity)
		debug.Log(debug.Dispatch, "%s vel=%d beat=%.3f onset=%.4f", voice.Name(ev.Voice), ev.Velocity, ev.Start, s.nextOnset)
		s.lastBeat = ev.Start
		s.advance()
	}
}

// advance moves the cursor and spaces the next onset at the current tempo.
// Past the last event it wraps when looping and stops otherwise.
func (s *Scheduler) advance() {
	cur := s.events[s.cursor]
	next := s.cursor + 1

	var deltaBeats float64
	if next < len(s.events) {
		deltaBeats = s.events[next].Start - cur.Start
	} else {
		if !s.loop {
			debug.Log(debug.Transport, "end of %q", s.pattern.Title)
			s.stopLocked()
			return
		}
		next = 0
		deltaBeats = s.length - cur.Start + s.events[0].Start
	}

	s.cursor = next
	s.nextOnset += deltaBeats * 60 / float64(s.tempo)
}

// Stop ends playback. Strikes already handed out still sound.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	wasPlaying := s.playing
	if wasPlaying {
		debug.Log(debug.Transport, "stop")
	}
	s.stopLocked()
	s.mu.Unlock()

	if wasPlaying {
		s.notify()
	}
}

func (s *Scheduler) stopLocked() {
	s.playing = false
	if s.stopChan != nil {
		close(s.stopChan)
		s.stopChan = nil
	}
}

// SetTempo changes the spacing of events scheduled from now on.
func (s *Scheduler) SetTempo(bpm int) error {
	if bpm <= 0 {
		return fault.Wrap(ErrInvalidTempo,
			fmsg.With(fmt.Sprintf("tempo %d", bpm)),
			ftag.With(ftag.InvalidArgument))
	}
	s.mu.Lock()
	s.tempo = clampTempo(bpm)
	debug.Log(debug.Transport, "tempo %d", s.tempo)
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetLoop takes effect the next time the cursor runs off the end.
func (s *Scheduler) SetLoop(enabled bool) {
	s.mu.Lock()
	s.loop = enabled
	debug.Log(debug.Transport, "loop %v", enabled)
	s.mu.Unlock()

	s.notify()
}

// State returns a snapshot of the transport.
func (s *Scheduler) State() Transport {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Transport{
		Playing:   s.playing,
		Tempo:     s.tempo,
		Loop:      s.loop,
		Cursor:    s.cursor,
		NextOnset: s.nextOnset,
		Beat:      s.lastBeat,
		Length:    s.length,
	}
	if s.pattern != nil {
		t.Pattern = s.pattern.Title
		t.PatternID = s.pattern.ID().String()
	}
	return t
}

// Updates signals state changes. Notifications coalesce; read State after one.
func (s *Scheduler) Updates() <-chan struct{} {
	return s.updates
}

func (s *Scheduler) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Close stops playback and releases the ticker goroutine.
func (s *Scheduler) Close() {
	s.Stop()
}

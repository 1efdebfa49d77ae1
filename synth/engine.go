package synth

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/hajimehoshi/oto/v2"

	"go-groove/debug"
	"go-groove/voice"
)

const (
	DefaultSampleRate = 44100
	channelCount      = 2
)

// Engine renders drum voices into a Mixer and, once opened, plays the mixer
// through the default audio device. It satisfies the scheduler's clock and
// striker roles.
type Engine struct {
	mixer *Mixer
	seed  atomic.Uint64

	mu     sync.Mutex
	ctx    *oto.Context
	player oto.Player
}

func New(sampleRate int) *Engine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	e := &Engine{mixer: NewMixer(sampleRate)}
	e.seed.Store(0x2545F4914F6CDD1D)
	return e
}

func (e *Engine) Mixer() *Mixer {
	return e.mixer
}

// Now is the audio clock in seconds.
func (e *Engine) Now() float64 {
	return e.mixer.Now()
}

// Strike schedules one voice at an absolute onset on the audio clock.
// Velocity 0 is silent and above 127 is clamped.
func (e *Engine) Strike(id voice.ID, onset float64, velocity uint8) {
	if velocity == 0 {
		return
	}
	if velocity > 127 {
		velocity = 127
	}

	recipe := RecipeFor(id)
	gain := float64(velocity) / 127
	samples := Render(recipe, gain, e.mixer.SampleRate(), e.seed.Add(0x9E3779B97F4A7C15))

	start := int64(math.Round(onset * float64(e.mixer.SampleRate())))
	if e.mixer.Schedule(samples, start) {
		debug.LogEvery(50, debug.Synth, "late strike %s at %.3fs", recipe, onset)
		return
	}
	debug.Log(debug.Synth, "strike %s (%s) at %.3fs gain %.2f", recipe, voice.Name(id), onset, gain)
}

// Open starts pulling the mixer through the default output device.
// Only one audio context can exist per process.
func (e *Engine) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player != nil {
		return nil
	}

	ctx, ready, err := oto.NewContext(e.mixer.SampleRate(), channelCount, oto.FormatFloat32LE)
	if err != nil {
		return fault.Wrap(err, fmsg.With("open audio device"))
	}
	<-ready

	e.ctx = ctx
	e.player = ctx.NewPlayer(e.mixer)
	e.player.Play()
	debug.Log(debug.Synth, "audio open at %d Hz", e.mixer.SampleRate())
	return nil
}

// Close stops the player. The oto context itself lives for the process.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player == nil {
		return nil
	}
	err := e.player.Close()
	e.player = nil
	if err != nil {
		return fault.Wrap(err, fmsg.With("close audio player"))
	}
	return nil
}

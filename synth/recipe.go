package synth

import (
	"math"

	"go-groove/voice"
)

// Recipe is a synthesis recipe. Every voice maps to exactly one.
type Recipe int

const (
	Click Recipe = iota
	Kick
	Snare
	ClosedHat
	OpenHat
	Crash
	Ride
	LowTom
	MidTom
	HighTom
)

// Recipes lists every recipe, fallback first
var Recipes = []Recipe{Click, Kick, Snare, ClosedHat, OpenHat, Crash, Ride, LowTom, MidTom, HighTom}

// RecipeFor picks the recipe for a voice. Unknown voices get a click so that
// every event is audible.
func RecipeFor(id voice.ID) Recipe {
	switch voice.Classify(id) {
	case voice.FamilyKick:
		return Kick
	case voice.FamilySnare:
		return Snare
	case voice.FamilyClosedHat:
		return ClosedHat
	case voice.FamilyOpenHat:
		return OpenHat
	case voice.FamilyCrash:
		return Crash
	case voice.FamilyRide:
		return Ride
	case voice.FamilyLowTom:
		return LowTom
	case voice.FamilyMidTom:
		return MidTom
	case voice.FamilyHighTom:
		return HighTom
	default:
		return Click
	}
}

// Duration returns how long the voice sounds, in seconds.
func (r Recipe) Duration() float64 {
	switch r {
	case Kick:
		return 0.5
	case Snare:
		return 0.2
	case ClosedHat:
		return 0.05
	case OpenHat:
		return 0.3
	case Crash:
		return 1.5
	case Ride:
		return 1.0
	case LowTom, MidTom, HighTom:
		return 0.3
	default:
		return 0.05
	}
}

func (r Recipe) String() string {
	switch r {
	case Kick:
		return "kick"
	case Snare:
		return "snare"
	case ClosedHat:
		return "closed-hat"
	case OpenHat:
		return "open-hat"
	case Crash:
		return "crash"
	case Ride:
		return "ride"
	case LowTom:
		return "low-tom"
	case MidTom:
		return "mid-tom"
	case HighTom:
		return "high-tom"
	default:
		return "click"
	}
}

// Frames returns the rendered length at the given sample rate.
func (r Recipe) Frames(sampleRate int) int {
	return int(math.Round(r.Duration() * float64(sampleRate)))
}

// Render produces the mono signal for one strike, peaking at no more than
// gain (0..1). seed drives the noise generator.
func Render(r Recipe, gain float64, sampleRate int, seed uint64) []float32 {
	buf := make([]float32, r.Frames(sampleRate))
	switch r {
	case Kick:
		renderSweep(buf, sampleRate, gain, 150, 0.01, r.Duration())
	case Snare:
		renderSnare(buf, sampleRate, gain, seed)
	case ClosedHat, OpenHat, Crash:
		renderNoise(buf, sampleRate, gain*0.8, r.Duration(), 5000, seed)
	case Ride:
		renderRide(buf, sampleRate, gain*0.6, r.Duration())
	case LowTom:
		renderSweep(buf, sampleRate, gain, 100, 50, r.Duration())
	case MidTom:
		renderSweep(buf, sampleRate, gain, 150, 75, r.Duration())
	case HighTom:
		renderSweep(buf, sampleRate, gain, 200, 100, r.Duration())
	default:
		renderSweep(buf, sampleRate, gain, 800, 800, r.Duration())
	}
	limit(buf, gain)
	return buf
}

// limit scales buf down so its peak does not exceed gain. Layered recipes
// and high-pass overshoot on noise can otherwise go past it.
func limit(buf []float32, gain float64) {
	var peak float64
	for _, s := range buf {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	if peak <= gain || peak == 0 {
		return
	}
	k := float32(gain / peak)
	for i := range buf {
		buf[i] *= k
	}
}

// renderSweep is a sine whose pitch glides exponentially from f0 to f1,
// under an exponential amplitude decay.
func renderSweep(buf []float32, sampleRate int, gain, f0, f1, dur float64) {
	env := newEnvelope(gain, dur, sampleRate)
	phase := 0.0
	for i := range buf {
		t := float64(i) / float64(sampleRate)
		buf[i] = float32(sine(phase) * env.at(i, sampleRate))
		phase += expRamp(f0, f1, t, dur) / float64(sampleRate)
	}
}

// renderNoise is high-passed white noise; hats and cymbals differ only in length.
func renderNoise(buf []float32, sampleRate int, gain, dur, cutoff float64, seed uint64) {
	env := newEnvelope(gain, dur, sampleRate)
	hp := highpass(sampleRate, cutoff, math.Sqrt2/2)
	for i := range buf {
		buf[i] = float32(hp.process(lcg(&seed)) * env.at(i, sampleRate))
	}
}

// renderSnare layers 1 kHz high-passed noise with a short 180 Hz triangle body.
func renderSnare(buf []float32, sampleRate int, gain float64, seed uint64) {
	renderNoise(buf, sampleRate, gain, 0.2, 1000, seed)

	body := newEnvelope(gain*0.5, 0.1, sampleRate)
	for i := 0; i < body.frames && i < len(buf); i++ {
		phase := 180 * float64(i) / float64(sampleRate)
		buf[i] += float32(triangle(phase) * body.at(i, sampleRate))
	}
}

// renderRide runs a 400 Hz square through a narrow 5 kHz band-pass for a bell tone.
func renderRide(buf []float32, sampleRate int, gain, dur float64) {
	env := newEnvelope(gain, dur, sampleRate)
	bp := bandpass(sampleRate, 5000, 10)
	for i := range buf {
		phase := 400 * float64(i) / float64(sampleRate)
		buf[i] = float32(bp.process(square(phase)) * env.at(i, sampleRate))
	}
}

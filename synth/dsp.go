package synth

import "math"

// silenceLevel is where every envelope ends before the final fade (-60 dB).
const silenceLevel = 0.001

// fadeSeconds is the linear tail that takes each voice to exactly zero.
const fadeSeconds = 0.003

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// expRamp moves exponentially from v0 to v1 over dur seconds and holds v1 after.
// Both values must be positive.
func expRamp(v0, v1, t, dur float64) float64 {
	if t >= dur {
		return v1
	}
	if t <= 0 {
		return v0
	}
	return v0 * math.Pow(v1/v0, t/dur)
}

// envelope is an exponential decay from gain to silence over dur seconds,
// with a linear fade over the last few milliseconds so the voice ends at zero.
type envelope struct {
	gain   float64
	dur    float64
	frames int
	fade   int
}

func newEnvelope(gain, dur float64, sampleRate int) envelope {
	frames := int(math.Round(dur * float64(sampleRate)))
	fade := int(fadeSeconds * float64(sampleRate))
	if fade > frames {
		fade = frames
	}
	return envelope{gain: gain, dur: dur, frames: frames, fade: fade}
}

func (e envelope) at(i int, sampleRate int) float64 {
	if i >= e.frames {
		return 0
	}
	t := float64(i) / float64(sampleRate)
	v := e.gain * expRamp(1, silenceLevel, t, e.dur)
	if remaining := e.frames - 1 - i; remaining < e.fade {
		v *= float64(remaining) / float64(e.fade)
	}
	return v
}

func sine(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

func triangle(phase float64) float64 {
	phase -= math.Floor(phase)
	return 1 - 4*math.Abs(phase-0.5)
}

func square(phase float64) float64 {
	phase -= math.Floor(phase)
	if phase < 0.5 {
		return 1
	}
	return -1
}

// biquad is an RBJ cookbook second-order filter (direct form I).
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

// belowNyquist keeps filter corners inside the representable band.
func belowNyquist(f float64, sampleRate int) float64 {
	return math.Min(f, 0.45*float64(sampleRate))
}

func highpass(sampleRate int, cutoff, q float64) *biquad {
	w := 2 * math.Pi * belowNyquist(cutoff, sampleRate) / float64(sampleRate)
	cosw, alpha := math.Cos(w), math.Sin(w)/(2*q)
	a0 := 1 + alpha
	return &biquad{
		b0: (1 + cosw) / 2 / a0,
		b1: -(1 + cosw) / a0,
		b2: (1 + cosw) / 2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

// bandpass has unity gain at the center frequency.
func bandpass(sampleRate int, center, q float64) *biquad {
	w := 2 * math.Pi * belowNyquist(center, sampleRate) / float64(sampleRate)
	cosw, alpha := math.Cos(w), math.Sin(w)/(2*q)
	a0 := 1 + alpha
	return &biquad{
		b0: alpha / a0,
		b1: 0,
		b2: -alpha / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

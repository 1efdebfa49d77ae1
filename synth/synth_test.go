package synth

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-groove/voice"
)

const testRate = 22050

func peak(buf []float32) float64 {
	m := 0.0
	for _, s := range buf {
		m = math.Max(m, math.Abs(float64(s)))
	}
	return m
}

func TestRecipeForCoversKnownVoices(t *testing.T) {
	cases := map[voice.ID]Recipe{
		voice.Kick:          Kick,
		voice.Snare:         Snare,
		voice.ElectricSnare: Snare,
		voice.ClosedHiHat:   ClosedHat,
		voice.OpenHiHat:     OpenHat,
		voice.Crash:         Crash,
		voice.Ride:          Ride,
		voice.LowFloorTom:   LowTom,
		voice.LowMidTom:     MidTom,
		voice.HighTom:       HighTom,
		99:                  Click,
		voice.PedalHiHat:    Click,
	}
	for id, want := range cases {
		assert.Equal(t, want, RecipeFor(id), "voice %d", id)
	}
}

func TestRenderLengthsAndTail(t *testing.T) {
	for _, r := range Recipes {
		t.Run(r.String(), func(t *testing.T) {
			buf := Render(r, 1, testRate, 7)
			require.Len(t, buf, r.Frames(testRate))
			assert.Zero(t, buf[len(buf)-1], "voice must end at silence")
			assert.Greater(t, peak(buf), 0.01, "voice must be audible")
		})
	}
}

func TestRenderStaysWithinGain(t *testing.T) {
	for _, r := range Recipes {
		for seed := uint64(1); seed <= 4; seed++ {
			assert.LessOrEqual(t, peak(Render(r, 1, testRate, seed)), 1.0+1e-6, "%s seed %d", r, seed)
			assert.LessOrEqual(t, peak(Render(r, 0.5, testRate, seed)), 0.5+1e-6, "%s seed %d", r, seed)
		}
	}
}

func TestRenderScalesWithGain(t *testing.T) {
	loud := Render(Kick, 1, testRate, 1)
	soft := Render(Kick, 0.25, testRate, 1)
	assert.InDelta(t, peak(loud)*0.25, peak(soft), 1e-4)
	assert.LessOrEqual(t, peak(loud), 1.0)
}

func TestRenderNoiseDependsOnSeed(t *testing.T) {
	a := Render(ClosedHat, 1, testRate, 1)
	b := Render(ClosedHat, 1, testRate, 2)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Render(ClosedHat, 1, testRate, 1))
}

func TestEnvelopeDecays(t *testing.T) {
	env := newEnvelope(1, 0.5, testRate)
	assert.InDelta(t, 1, env.at(0, testRate), 1e-9)
	assert.Less(t, env.at(env.frames/2, testRate), 0.05)
	assert.Zero(t, env.at(env.frames-1, testRate))
	assert.Zero(t, env.at(env.frames+10, testRate))
}

func TestMixerPlacesVoicesAtFrames(t *testing.T) {
	m := NewMixer(testRate)
	assert.False(t, m.Schedule([]float32{0.5, 0.5, 0.5}, 2))

	out := make([]float32, 4)
	m.Mix(out)
	assert.Equal(t, []float32{0, 0, 0.5, 0.5}, out)
	assert.Equal(t, 1, m.Pending())

	m.Mix(out)
	assert.Equal(t, []float32{0.5, 0, 0, 0}, out)
	assert.Zero(t, m.Pending())
	assert.InDelta(t, 8.0/testRate, m.Now(), 1e-12)
}

func TestMixerSumsAndClamps(t *testing.T) {
	m := NewMixer(testRate)
	m.Schedule([]float32{0.75, 0.25}, 0)
	m.Schedule([]float32{0.75, 0.25}, 0)

	out := make([]float32, 2)
	m.Mix(out)
	assert.Equal(t, []float32{1, 0.5}, out)
}

func TestMixerLateVoicePlaysNow(t *testing.T) {
	m := NewMixer(testRate)
	m.Mix(make([]float32, 10))

	assert.True(t, m.Schedule([]float32{0.5}, 3))
	out := make([]float32, 2)
	m.Mix(out)
	assert.Equal(t, []float32{0.5, 0}, out)
}

func TestMixerReadWritesStereoFloat(t *testing.T) {
	m := NewMixer(testRate)
	m.Schedule([]float32{0.25}, 0)

	p := make([]byte, 4*bytesPerFrame)
	n, err := m.Read(p)
	require.NoError(t, err)
	assert.Equal(t, len(p), n)

	left := math.Float32frombits(binary.LittleEndian.Uint32(p[0:]))
	right := math.Float32frombits(binary.LittleEndian.Uint32(p[4:]))
	assert.Equal(t, float32(0.25), left)
	assert.Equal(t, float32(0.25), right)
	assert.Equal(t, int64(4), m.Frame())
}

func TestMixerReadIsBounded(t *testing.T) {
	m := NewMixer(testRate)
	p := make([]byte, 4*maxReadFrames*bytesPerFrame)
	n, err := m.Read(p)
	require.NoError(t, err)
	assert.Equal(t, maxReadFrames*bytesPerFrame, n)

	n, err = m.Read(make([]byte, 3))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEngineStrike(t *testing.T) {
	e := New(testRate)

	e.Strike(voice.Snare, 0.5, 0)
	assert.Zero(t, e.Mixer().Pending(), "velocity 0 is silent")

	e.Strike(voice.Kick, 0.5, 200)
	require.Equal(t, 1, e.Mixer().Pending())

	v := e.mixer.voices[0]
	assert.Equal(t, int64(testRate/2), v.start)
	assert.Len(t, v.samples, Kick.Frames(testRate))
	assert.InDelta(t, 1, peak(v.samples), 0.05, "clamped to full velocity")
}

func TestEngineUnknownVoiceClicks(t *testing.T) {
	e := New(testRate)
	e.Strike(99, 0, 127)
	require.Equal(t, 1, e.Mixer().Pending())
	assert.Len(t, e.mixer.voices[0].samples, Click.Frames(testRate))
	assert.Zero(t, e.Now())
}

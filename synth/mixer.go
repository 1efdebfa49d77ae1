package synth

import (
	"encoding/binary"
	"math"
	"sync"
)

// bytesPerFrame is one float32 LE sample for each of two channels.
const bytesPerFrame = 8

// maxReadFrames bounds a single Read so the clock advances in small steps
// even when the device asks for a large buffer.
const maxReadFrames = 512

type scheduled struct {
	start   int64
	samples []float32
	pos     int
}

// Mixer sums scheduled voices into a continuous stream. Its clock is the
// number of frames handed to the device, so it only moves while audio is
// being pulled.
type Mixer struct {
	mu         sync.Mutex
	sampleRate int
	frame      int64
	voices     []*scheduled
	scratch    []float32
}

func NewMixer(sampleRate int) *Mixer {
	return &Mixer{sampleRate: sampleRate}
}

func (m *Mixer) SampleRate() int {
	return m.sampleRate
}

// Now returns the stream position in seconds.
func (m *Mixer) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.frame) / float64(m.sampleRate)
}

// Frame returns the number of frames rendered so far.
func (m *Mixer) Frame() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame
}

// Schedule queues samples to start at an absolute frame. A start already in
// the past plays immediately and reports late.
func (m *Mixer) Schedule(samples []float32, startFrame int64) (late bool) {
	if len(samples) == 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if startFrame < m.frame {
		startFrame, late = m.frame, true
	}
	m.voices = append(m.voices, &scheduled{start: startFrame, samples: samples})
	return late
}

// Pending returns how many voices are waiting or still sounding.
func (m *Mixer) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Mix renders the next len(out) mono frames and advances the clock.
func (m *Mixer) Mix(out []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mix(out)
}

func (m *Mixer) mix(out []float32) {
	clear(out)
	kept := m.voices[:0]
	for _, v := range m.voices {
		i := 0
		if v.pos == 0 {
			offset := v.start - m.frame
			if offset >= int64(len(out)) {
				kept = append(kept, v)
				continue
			}
			if offset > 0 {
				i = int(offset)
			}
		}
		for ; i < len(out) && v.pos < len(v.samples); i++ {
			out[i] += v.samples[v.pos]
			v.pos++
		}
		if v.pos < len(v.samples) {
			kept = append(kept, v)
		}
	}
	clear(m.voices[len(kept):])
	m.voices = kept
	m.frame += int64(len(out))

	for i, s := range out {
		out[i] = clamp(s)
	}
}

func clamp(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

// Read implements io.Reader for the audio device: float32 LE, two
// identical channels. It never returns io.EOF.
func (m *Mixer) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames > maxReadFrames {
		frames = maxReadFrames
	}
	if frames == 0 {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cap(m.scratch) < frames {
		m.scratch = make([]float32, maxReadFrames)
	}
	buf := m.scratch[:frames]
	m.mix(buf)

	for i, s := range buf {
		bits := math.Float32bits(s)
		off := i * bytesPerFrame
		binary.LittleEndian.PutUint32(p[off:], bits)
		binary.LittleEndian.PutUint32(p[off+4:], bits)
	}
	return frames * bytesPerFrame, nil
}

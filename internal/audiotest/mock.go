// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"

	"github.com/ik5/audtrim/audio"
)

// Waveform returns the value of one sample given its frame index and channel.
type Waveform func(frame, channel int) float32

// MockSource generates frames on demand and implements audio.Source and
// audio.Sized.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	waveform   Waveform
	closed     bool
}

// NewMockSource returns a source producing frames frames of waveform.
func NewMockSource(sampleRate, channels, frames int, waveform Waveform) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

// NewSilentSource returns a source of zeros.
func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return 0 })
}

// NewSineSource returns a source with the same sine wave on every channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, Sine(sampleRate, frequency))
}

// NewConstantSource returns a source with a constant value.
func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

// Sine returns a waveform of the given frequency.
func Sine(sampleRate int, frequency float64) Waveform {
	return func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	}
}

// Ramp returns a waveform where every sample is distinct, so misplaced
// frames or swapped channels show up in comparisons.
func Ramp(frames int) Waveform {
	return func(frame, channel int) float32 {
		v := float32(frame) / float32(frames+1)
		if channel%2 == 1 {
			return -v
		}
		return v
	}
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Frames() int     { return m.frames }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds to the first frame.
func (m *MockSource) Reset() { m.pos = 0 }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	for f := range n {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.pos+f, c)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}
	return n * m.channels, nil
}

// NewBuffer renders waveform into a Buffer.
func NewBuffer(sampleRate, channels, frames int, waveform Waveform) *audio.Buffer {
	buf := audio.NewBuffer(sampleRate, channels, frames)
	for c := range channels {
		for f := range frames {
			buf.Data[c][f] = waveform(f, c)
		}
	}
	return buf
}

// RampBuffer returns seconds of ramp audio.
func RampBuffer(sampleRate, channels int, seconds float64) *audio.Buffer {
	frames := int(math.Round(seconds * float64(sampleRate)))
	return NewBuffer(sampleRate, channels, frames, Ramp(frames))
}

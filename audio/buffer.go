// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// Buffer is decoded audio held in memory, one sample slice per channel.
// Samples are float32 in [-1,1] and every channel has the same length.
type Buffer struct {
	SampleRate int
	Data       [][]float32
}

// NewBuffer allocates a silent buffer of frames frames.
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
	}
	return &Buffer{
		SampleRate: sampleRate,
		Data:       data,
	}
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.Data) }

// Frames returns the number of sample frames.
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Seconds returns the buffer length in seconds.
func (b *Buffer) Seconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Duration returns the buffer length as a time.Duration.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Validate checks the buffer shape.
func (b *Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", b.SampleRate)
	}
	if len(b.Data) == 0 {
		return fmt.Errorf("buffer has no channels")
	}
	frames := len(b.Data[0])
	for c := 1; c < len(b.Data); c++ {
		if len(b.Data[c]) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, want %d",
				ErrChannelMismatch, c, len(b.Data[c]), frames)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		SampleRate: b.SampleRate,
		Data:       make([][]float32, len(b.Data)),
	}
	for c := range b.Data {
		out.Data[c] = append([]float32(nil), b.Data[c]...)
	}
	return out
}

// Equal reports whether both buffers hold the same rate, shape and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.SampleRate != o.SampleRate || len(b.Data) != len(o.Data) {
		return false
	}
	for c := range b.Data {
		if len(b.Data[c]) != len(o.Data[c]) {
			return false
		}
		for i := range b.Data[c] {
			if b.Data[c][i] != o.Data[c][i] {
				return false
			}
		}
	}
	return true
}

// Interleaved returns the samples interleaved frame by frame.
func (b *Buffer) Interleaved() []float32 {
	channels := len(b.Data)
	frames := b.Frames()
	out := make([]float32, frames*channels)
	for c := range channels {
		ch := b.Data[c]
		for f := range frames {
			out[f*channels+c] = ch[f]
		}
	}
	return out
}

// Deinterleave builds a Buffer from interleaved samples. A trailing partial
// frame is dropped.
func Deinterleave(sampleRate, channels int, samples []float32) *Buffer {
	if channels <= 0 {
		return &Buffer{SampleRate: sampleRate}
	}
	frames := len(samples) / channels
	b := NewBuffer(sampleRate, channels, frames)
	for f := range frames {
		base := f * channels
		for c := range channels {
			b.Data[c][f] = samples[base+c]
		}
	}
	return b
}

const (
	// maxEmptyReads bounds consecutive (0, nil) reads before ReadAll gives up.
	maxEmptyReads = 100

	// maxPreallocSamples caps what a Sized hint may reserve up front.
	// Longer streams still decode, growing by append.
	maxPreallocSamples = 1 << 22
)

// ReadAll drains src into a Buffer. src is not closed.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("source reports %d channels", channels)
	}

	size := src.BufSize()
	if size < channels {
		size = 4096
	}
	// Keep reads frame aligned so sources that require it are satisfied.
	size -= size % channels

	var samples []float32
	if sized, ok := src.(Sized); ok && sized.Frames() > 0 {
		// the hint comes from the file header and may be forged
		frames := min(sized.Frames(), maxPreallocSamples/channels)
		samples = make([]float32, 0, frames*channels)
	}
	buf := make([]float32, size)
	emptyReads := 0
	for {
		n, err := src.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
			emptyReads = 0
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n == 0 {
			emptyReads++
			if emptyReads >= maxEmptyReads {
				return nil, io.ErrNoProgress
			}
		}
	}

	return Deinterleave(src.SampleRate(), channels, samples), nil
}

// BufferSource reads a Buffer as an interleaved Source.
type BufferSource struct {
	buf *Buffer
	pos int // frame position
}

// NewBufferSource returns a Source positioned at the first frame of buf.
func NewBufferSource(buf *Buffer) *BufferSource {
	return &BufferSource{buf: buf}
}

func (s *BufferSource) SampleRate() int { return s.buf.SampleRate }
func (s *BufferSource) Channels() int   { return s.buf.NumChannels() }
func (s *BufferSource) BufSize() int    { return 4096 }
func (s *BufferSource) Close() error    { return nil }

// Rewind moves back to the first frame.
func (s *BufferSource) Rewind() { s.pos = 0 }

func (s *BufferSource) ReadSamples(dst []float32) (int, error) {
	channels := s.buf.NumChannels()
	if channels == 0 {
		return 0, io.EOF
	}
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	remaining := s.buf.Frames() - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	frames := min(len(dst)/channels, remaining)
	for f := range frames {
		base := f * channels
		for c := range channels {
			dst[base+c] = s.buf.Data[c][s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= s.buf.Frames() {
		return frames * channels, io.EOF
	}
	return frames * channels, nil
}

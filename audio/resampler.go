// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audtrim/utils"
)

// Resampler converts src to another sample rate with cubic interpolation.
// Channels are preserved. When downsampling each source frame passes
// through a one-pole low-pass filter first.
//
// Output frame k sits at source position k*srcRate/dstRate. The first and
// last source frames are emitted exactly when they fall on an output
// position, so equal rates reproduce the input.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames per output frame
	channels int

	// window holds source frames t-1, t0, t+1, t+2. Output is interpolated
	// between window[1] and window[2] at offset pos.
	window [4][]float32
	filled [4]bool
	primed bool
	pos    float64

	frame []float32
	eof   bool

	lowPass bool
	seeded  bool
	alpha   float32
	state   []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		frame:    make([]float32, channels),
		lowPass:  step > 1,
		alpha:    0.5,
		state:    make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame reads one source frame into dst and reports false once the
// source is exhausted.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	for empty := 0; !r.eof; empty++ {
		n, err := r.src.ReadSamples(r.frame)
		switch {
		case err == io.EOF:
			r.eof = true
		case err != nil:
			return false, fmt.Errorf("%w", err)
		}

		if n > 0 {
			clear(dst)
			copy(dst, r.frame[:n])
			r.filter(dst)
			return true, nil
		}
		if empty >= maxEmptyReads {
			return false, io.ErrNoProgress
		}
	}
	return false, nil
}

// filter applies y[n] = a*x[n] + (1-a)*y[n-1] when downsampling.
func (r *Resampler) filter(frame []float32) {
	if !r.lowPass {
		return
	}
	if !r.seeded {
		// start from the first sample to avoid a fade-in
		copy(r.state, frame)
		r.seeded = true
	}
	for c := range frame {
		frame[c] = r.alpha*frame[c] + (1-r.alpha)*r.state[c]
		r.state[c] = frame[c]
	}
}

// prime loads t0..t+2 and mirrors t0 into t-1.
func (r *Resampler) prime() error {
	r.primed = true
	for i := 1; i < len(r.window); i++ {
		ok, err := r.readFrame(r.window[i])
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		r.filled[i] = true
	}
	if !r.filled[1] {
		return io.EOF
	}

	copy(r.window[0], r.window[1])
	r.filled[0] = true
	return nil
}

// advance shifts the window one source frame forward.
func (r *Resampler) advance() error {
	oldest := r.window[0]
	copy(r.window[:3], r.window[1:])
	copy(r.filled[:3], r.filled[1:])
	r.window[3] = oldest

	ok, err := r.readFrame(r.window[3])
	r.filled[3] = ok
	return err
}

func (r *Resampler) interpolate(out []float32) {
	alpha := float32(r.pos)
	for c := range r.channels {
		y1 := r.window[1][c]
		y2 := y1
		if r.filled[2] {
			y2 = r.window[2][c]
		}
		y3 := y2
		if r.filled[3] {
			y3 = r.window[3][c]
		}
		out[c] = utils.CubicInterpolate(r.window[0][c], y1, y2, y3, alpha)
	}
}

// ReadSamples produces dst samples at the target rate.
// len(dst) must be a multiple of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		// past the last source frame
		if !r.filled[1] || (!r.filled[2] && r.pos > 0) {
			return written * r.channels, io.EOF
		}

		base := written * r.channels
		r.interpolate(dst[base : base+r.channels])
		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}

// ResampleBuffer converts buf to dstRate. Equal rates return a copy.
func ResampleBuffer(buf *Buffer, dstRate int) (*Buffer, error) {
	if dstRate <= 0 {
		return nil, fmt.Errorf("invalid target rate %d", dstRate)
	}
	if buf.SampleRate == dstRate || buf.Frames() == 0 {
		out := buf.Clone()
		out.SampleRate = dstRate
		return out, nil
	}

	out, err := ReadAll(NewResampler(NewBufferSource(buf), dstRate))
	if err != nil {
		return nil, fmt.Errorf("resample %d -> %d: %w", buf.SampleRate, dstRate, err)
	}
	return out, nil
}

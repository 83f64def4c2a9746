// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/utils"
)

const defaultBufSize = 4096

// aiffReader is the part of aiff.Decoder a source reads from.
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        aiffReader
	sampleRate int
	channels   int
	bitDepth   int
	ints       *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) BufSize() int {
	if s.ints == nil {
		return defaultBufSize
	}
	return cap(s.ints.Data)
}

// scratch returns an IntBuffer holding exactly n samples.
func (s *source) scratch(n int) *goaudio.IntBuffer {
	if s.ints != nil && cap(s.ints.Data) >= n {
		s.ints.Data = s.ints.Data[:n]
		return s.ints
	}
	s.ints = &goaudio.IntBuffer{
		Data:           make([]int, n),
		Format:         s.dec.Format(),
		SourceBitDepth: s.bitDepth,
	}
	return s.ints
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	ints := s.scratch(len(dst))
	n, err := s.dec.PCMBuffer(ints)
	for i, v := range ints.Data[:n] {
		if s.bitDepth == 8 {
			// AIFF stores signed bytes but go-audio hands them back unsigned
			v = int(int8(v))
		}
		dst[i] = utils.IntToFloat32(v, s.bitDepth)
	}
	return n, readResult(n, len(dst), err)
}

// readResult maps a PCMBuffer outcome to the Source contract: a short or
// empty read ends the stream.
func readResult(n, want int, err error) error {
	switch {
	case err != nil && !errors.Is(err, io.EOF):
		return fmt.Errorf("aiff read: %w", err)
	case err != nil, n < want:
		return io.EOF
	}
	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		// go-audio needs to seek between chunks
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}

	format, err := checkHeader(int(dec.BitDepth), dec.Format())
	if err != nil {
		return nil, err
	}

	return &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   int(dec.BitDepth),
	}, nil
}

func checkHeader(bits int, format *goaudio.Format) (*goaudio.Format, error) {
	if bits != 8 && bits != 16 && bits != 24 && bits != 32 {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bits)
	}
	if format == nil || format.NumChannels < 1 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}
	return format, nil
}

// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/utils"
)

// SampleFormat selects how Encode stores samples.
type SampleFormat int

const (
	// Float32 stores IEEE 754 single precision samples. Any float32 data
	// survives a write/read cycle bit for bit.
	Float32 SampleFormat = iota
	// PCM16 stores signed 16-bit integers. Data that was decoded from
	// 16-bit PCM survives a write/read cycle unchanged.
	PCM16
)

func (f SampleFormat) String() string {
	switch f {
	case Float32:
		return "float32"
	case PCM16:
		return "pcm16"
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// ParseSampleFormat maps "float32" / "pcm16" to a SampleFormat.
func ParseSampleFormat(s string) (SampleFormat, error) {
	switch s {
	case "float32", "float", "f32":
		return Float32, nil
	case "pcm16", "s16", "int16":
		return PCM16, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSampleFormat, s)
}

// WriteFloat32 writes a 32-bit IEEE float WAV. samples are interleaved.
func WriteFloat32(ws io.WriteSeeker, sampleRate, channels int, samples []float32) error {
	if channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedWavLayout, channels)
	}
	if len(samples)%channels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", ErrUnsupportedWavLayout, len(samples), channels)
	}

	enc := gowav.NewEncoder(ws, sampleRate, 32, channels, formatIEEEFloat)

	// The encoder stores 32-bit integers verbatim, so carry the float bit
	// patterns through an IntBuffer.
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(int32(math.Float32bits(s)))
	}
	buf := &goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: 32,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Encode serializes buf as a complete WAV file.
func Encode(buf *audio.Buffer, format SampleFormat) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	samples := buf.Interleaved()
	switch format {
	case Float32:
		ws := &writeSeeker{}
		if err := WriteFloat32(ws, buf.SampleRate, buf.NumChannels(), samples); err != nil {
			return nil, err
		}
		return ws.Bytes(), nil

	case PCM16:
		pcm := make([]int16, len(samples))
		for i, s := range samples {
			pcm[i] = utils.Float32ToInt16(s)
		}
		out := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)*2))
		if err := WritePCM16(out, buf.SampleRate, buf.NumChannels(), pcm); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownSampleFormat, int(format))
}

// writeSeeker implements io.WriteSeeker for in-memory data
type writeSeeker struct {
	data   []byte
	offset int64
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	end := ws.offset + int64(len(p))
	if end > int64(len(ws.data)) {
		if end > int64(cap(ws.data)) {
			grown := make([]byte, end, max(end, int64(cap(ws.data))*2))
			copy(grown, ws.data)
			ws.data = grown
		} else {
			ws.data = ws.data[:end]
		}
	}
	copy(ws.data[ws.offset:], p)
	ws.offset = end
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = ws.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(ws.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if newOffset < 0 {
		return 0, fmt.Errorf("negative position")
	}

	ws.offset = newOffset
	return newOffset, nil
}

func (ws *writeSeeker) Bytes() []byte { return ws.data }

// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// pcmHeader is the canonical 44 byte RIFF/WAVE header for integer PCM.
type pcmHeader struct {
	RiffID     [4]byte
	RiffSize   uint32
	WaveID     [4]byte
	FmtID      [4]byte
	FmtSize    uint32
	Format     uint16
	Channels   uint16
	SampleRate uint32
	ByteRate   uint32
	BlockAlign uint16
	Bits       uint16
	DataID     [4]byte
	DataSize   uint32
}

const (
	pcm16HeaderSize = 44
	pcm16Chunk      = 8192 // samples per write
)

func newPCM16Header(sampleRate, channels, samples int) pcmHeader {
	const bytesPerSample = 2
	dataSize := uint32(samples * bytesPerSample)
	return pcmHeader{
		RiffID:     [4]byte{'R', 'I', 'F', 'F'},
		RiffSize:   pcm16HeaderSize - 8 + dataSize,
		WaveID:     [4]byte{'W', 'A', 'V', 'E'},
		FmtID:      [4]byte{'f', 'm', 't', ' '},
		FmtSize:    16,
		Format:     formatPCM,
		Channels:   uint16(channels),
		SampleRate: uint32(sampleRate),
		ByteRate:   uint32(sampleRate * channels * bytesPerSample),
		BlockAlign: uint16(channels * bytesPerSample),
		Bits:       16,
		DataID:     [4]byte{'d', 'a', 't', 'a'},
		DataSize:   dataSize,
	}
}

// WriteWAV16 writes a mono 16-bit PCM WAV at sampleRate.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	return WritePCM16(w, sampleRate, 1, samples)
}

// WritePCM16 writes interleaved int16 samples as a 16-bit PCM WAV. The
// sample count must be a multiple of channels. w is only written to, never
// seeked, so pipes work.
func WritePCM16(w io.Writer, sampleRate, channels int, samples []int16) error {
	switch {
	case channels < 1:
		return fmt.Errorf("%w: %d channels", ErrUnsupportedWavLayout, channels)
	case len(samples)%channels != 0:
		return fmt.Errorf("%w: %d samples for %d channels", ErrUnsupportedWavLayout, len(samples), channels)
	}

	hdr := newPCM16Header(sampleRate, channels, len(samples))
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	out := make([]byte, 0, 2*min(len(samples), pcm16Chunk))
	for rest := samples; len(rest) > 0; {
		n := min(len(rest), pcm16Chunk)
		out = out[:0]
		for _, s := range rest[:n] {
			out = binary.LittleEndian.AppendUint16(out, uint16(s))
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
		rest = rest[n:]
	}
	return nil
}

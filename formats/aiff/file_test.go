// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"

	goaudio "github.com/go-audio/audio"
)

// buildAIFF returns a minimal FORM/AIFF file with a COMM and an SSND chunk.
// pcm holds big-endian samples at bits per sample.
func buildAIFF(sampleRate, channels, bits int, pcm []byte) []byte {
	frames := len(pcm) / (channels * bits / 8)
	pad := len(pcm) % 2

	var b bytes.Buffer
	put := func(v any) { _ = binary.Write(&b, binary.BigEndian, v) }

	b.WriteString("FORM")
	put(uint32(4 + 8 + 18 + 8 + 8 + len(pcm) + pad))
	b.WriteString("AIFF")

	b.WriteString("COMM")
	put(uint32(18))
	put(int16(channels))
	put(uint32(frames))
	put(int16(bits))
	put(goaudio.IntToIEEEFloat(sampleRate))

	b.WriteString("SSND")
	put(uint32(8 + len(pcm)))
	put(uint32(0)) // offset
	put(uint32(0)) // block size
	b.Write(pcm)
	if pad == 1 {
		b.WriteByte(0)
	}
	return b.Bytes()
}

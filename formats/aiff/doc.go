// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files using github.com/go-audio/aiff.
//
// # Supported Formats
//
// The decoder reads uncompressed big-endian PCM:
//   - 8, 16, 24 and 32 bits per sample
//   - any channel count reported by the COMM chunk
//   - AIFF-C with the "NONE" or "sowt" encodings
//
// Any other sample size fails with ErrUnsupportedBitDepth, which matches
// audio.ErrUnsupportedFormat under errors.Is. Files that are not AIFF at all
// fail with ErrNotAiffFile, and a header that cannot be parsed with
// ErrUnsupportedAiffLayout.
//
// # Decoding
//
// Decoder implements audio.Decoder and is normally registered once:
//
//	registry := audio.NewRegistry()
//	registry.Register("aiff", aiff.Decoder{})
//
// It can also be used directly:
//
//	src, err := aiff.Decoder{}.Decode(bytes.NewReader(data))
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	buf, err := audio.ReadAll(src)
//
// go-audio needs an io.ReadSeeker. Readers that cannot seek are buffered in
// memory first.
//
// # Output Format
//
// Samples are float32 in [-1, 1], interleaved by frame. Every depth is
// treated as signed two's complement, including 8-bit, which is where AIFF
// differs from WAV:
//
//	8-bit   0x40 ->  0.5     0xC0 -> -0.5
//	16-bit  0x4000 -> 0.5    0x8000 -> -1
//
// go-audio returns 8-bit samples as unsigned bytes; the source reinterprets
// them before scaling.
//
// # Limitations
//
//   - decoding only, there is no AIFF encoder here
//   - compressed AIFF-C payloads (ima4, ulaw, alaw) are rejected
//   - markers, loops and comments are ignored
package aiff

// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio using github.com/jfreymuth/oggvorbis.
//
// # Decoding
//
// Decoder implements audio.Decoder:
//
//	src, err := vorbis.Decoder{}.Decode(bytes.NewReader(data))
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	buf, err := audio.ReadAll(src)
//
// Streams without a valid identification header fail with ErrNotVorbisFile.
//
// # Output Format
//
// Channel count and sample rate come from the stream headers. Samples are
// float32 in [-1, 1] and interleaved by frame:
//
//	[L0, R0, L1, R1, L2, R2, ...]
//
// Reads must be a multiple of the channel count, otherwise
// audio.ErrInvalidDstSize is returned.
//
// # Length
//
// The source implements audio.Sized using the granule position of the last
// page. The value comes straight from the file, so it is a hint only:
// audio.ReadAll caps what it preallocates and grows as data arrives.
//
// # Limitations
//
//   - decoding only
//   - comments and vendor strings are ignored
package vorbis

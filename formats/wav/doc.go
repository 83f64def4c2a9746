// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Decoding is built on github.com/go-audio/wav and accepts integer PCM at
// 8, 16, 24 and 32 bits as well as 32-bit IEEE float, any channel count and
// any sample rate.
//
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
// The decoder returns an audio.Source producing float32 samples in [-1,1].
//
// # Writing WAV Files
//
// Encode turns a decoded audio.Buffer into a complete file:
//
//	data, err := wav.Encode(buf, wav.Float32)
//
// Float32 keeps every sample bit for bit. PCM16 is smaller and reproduces
// audio that was decoded from 16-bit PCM exactly.
//
// WritePCM16 streams 16-bit PCM to any io.Writer without seeking, and
// WriteWAV16 is its mono shorthand:
//
//	samples := []int16{100, -100, 200, -200}
//	err := wav.WritePCM16(file, 8000, 2, samples)
//
// # Error Handling
//
//   - ErrNotWavFile: the input has no RIFF/WAVE header
//   - ErrUnsupportedEncoding, ErrUnsupportedBitDepth: the file is a WAV the
//     decoder cannot read; both match audio.ErrUnsupportedFormat
//   - ErrUnsupportedWavLayout, ErrUnsupportedWavChunks: malformed headers
package wav

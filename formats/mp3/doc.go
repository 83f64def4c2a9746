// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III audio using
// github.com/hajimehoshi/go-mp3.
//
// # Decoding
//
// Decoder implements audio.Decoder:
//
//	src, err := mp3.Decoder{}.Decode(bytes.NewReader(data))
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	buf, err := audio.ReadAll(src)
//
// Input without a decodable MPEG frame fails with ErrNotMP3File.
//
// # Output Format
//
// go-mp3 always produces 16-bit little-endian stereo, so the Source reports
// two channels regardless of the file's channel mode:
//   - samples are float32 in [-1, 1], scaled by 1/32768
//   - the sample rate is the one of the first frame, usually 44100 or 48000
//
// The scale matches the 16-bit WAV encoder, so a decoded MP3 can be exported
// as PCM16 without further loss. Mono material comes out as two identical
// channels; audio.Downmix folds it back.
//
// # Length
//
// When the input is seekable the source implements audio.Sized with the
// decoded length in frames. audio.ReadAll uses it to size its first
// allocation, capped so that a forged header cannot reserve more memory
// than the stream delivers.
//
// # Reads
//
// go-mp3 may return an odd number of bytes. The trailing byte is carried to
// the next read, so every returned sample is complete and reads never split
// a sample across calls.
//
// # Limitations
//
//   - decoding only
//   - the channel count is always 2
package mp3

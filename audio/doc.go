// SPDX-License-Identifier: EPL-2.0

// Package audio provides the in-memory audio model and the processing
// primitives built on it.
//
// # Sources and buffers
//
// Decoders produce a Source, a stream of interleaved float32 samples in
// [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadAll drains a Source into a Buffer, which keeps one slice per channel.
// BufferSource turns a Buffer back into a Source so it can be fed through
// a Resampler or MonoMixer.
//
// # Length hints
//
// Sources that know their length ahead of time implement Sized. ReadAll
// uses the value to size its first allocation, but never beyond a fixed
// cap: the value usually comes from a file header and a corrupt file can
// claim any length. The decoded Buffer always holds exactly what the
// source delivered.
//
// A Source that keeps returning (0, nil) is abandoned with io.ErrNoProgress
// after a bounded number of reads.
//
// # Selection and slicing
//
// A TimeRange is a start and end position in percent of a duration. Its
// setters clamp instead of failing, so Start <= End always holds:
//
//	r := audio.NewTimeRange()
//	r.SetStart(20)
//	r.SetEnd(50)
//	start, end := r.Seconds(buf.Seconds())
//	trimmed := audio.Slice(buf, start, end)
//
// Slice copies frames [round(start*rate), round(end*rate)) into a new Buffer
// with the same rate and channel count.
//
// # Registry
//
// A Registry maps format keys to Decoders and picks one for a File by MIME
// type or extension:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	buf, err := registry.DecodeFile(ctx, audio.File{Name: "take.wav", Data: data})
//
// Decoding errors wrap ErrUnsupportedFormat when no decoder applies and
// ErrCorruptData when the bytes could not be decoded.
//
// # Peaks
//
// Peaks reduces a Buffer to a fixed number of buckets holding the largest
// absolute sample of any channel, which is enough to draw a waveform:
//
//	for i, p := range audio.Peaks(buf, 200) {
//	    drawBar(i, p)
//	}
//
// # Errors
//
//   - ErrUnsupportedFormat: no decoder for the file, or a variant the
//     decoder refuses
//   - ErrCorruptData: the decoder matched but the bytes did not decode
//   - ErrInvalidDstSize: a read that does not hold whole frames
//
// A cancelled context passed to Registry.DecodeFile yields the context
// error, wrapped with the file name, and neither sentinel.
//
// # Conversion
//
// Resampler changes the sample rate with Catmull-Rom interpolation and
// MonoMixer averages channels. Both are Sources and can be chained.
// ResampleBuffer and Downmix apply them to a whole Buffer.
package audio

// SPDX-License-Identifier: EPL-2.0

// Package export serializes trimmed audio to WAV artifacts.
//
// The default sample format is 32-bit IEEE float, which stores decoded
// samples bit for bit. PCM16 is available for smaller files and is exact for
// audio that came from 16-bit sources.
//
//	svc := export.NewService(
//	    export.WithSink(export.DirSink{Dir: "out"}),
//	)
//	artifact, err := svc.Export(ctx, trimmed, "song.mp3")
//	// artifact.Filename == "trimmed-audio.wav"
package export

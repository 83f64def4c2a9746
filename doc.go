// SPDX-License-Identifier: EPL-2.0

// Package audtrim cuts a selected range out of an audio file and exports it
// as WAV.
//
// # Supported Formats
//
// NewRegistry returns a decoder registry with every bundled format:
//   - WAV (PCM 8/16/24/32-bit and 32-bit float) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 8/16/24/32-bit) via formats/aiff
//
// # Quick Start
//
// TrimFile runs the whole pipeline once:
//
//	rng := audio.NewTimeRange()
//	rng.SetStart(20)
//	rng.SetEnd(50)
//
//	artifact, err := audtrim.TrimFile(ctx, audtrim.NewRegistry(), file, rng, export.NewService())
//	if err != nil {
//	    return err
//	}
//	os.WriteFile(artifact.Filename, artifact.Data, 0o644)
//
// # Interactive use
//
// Programs that let a user pick a file, listen to it and move the range
// build a selection.Controller on top of a playback.Adapter:
//
//	adapter := playback.NewAdapter(backend, audtrim.NewRegistry(), log)
//	ctrl := selection.New(adapter, export.NewService())
//	go ctrl.Run(ctx)
//
//	ctrl.SelectFile(ctx, file)
//	// ... wait for selection.Ready
//	ctrl.SetStart(20)
//	ctrl.SetEnd(50)
//	artifact, err := ctrl.Trim(ctx)
//
// Playback devices live in playback/otobackend and playback/malgobackend.
// Settings for all of the above can be read from TOML with the config
// package.
package audtrim

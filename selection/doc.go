// SPDX-License-Identifier: EPL-2.0

// Package selection holds the state of one trimming session: the chosen
// file, its decoded audio, the selected range and the playback state.
//
// A Controller moves through these states:
//
//	NoFile -> Loading -> Ready <-> Playing <-> Paused
//	                       ^          |
//	                       +- Finished <+
//
// Selecting a new file or calling Reset returns to NoFile and discards the
// previous audio. Events from a replaced selection are ignored, so a slow
// decode can never overwrite a newer file.
//
// Trim slices the selected range out of the decoded audio and hands it to an
// Exporter without touching the playback state.
package selection

// SPDX-License-Identifier: EPL-2.0

// Package playback wraps an audio output device behind a small Handle
// interface and exposes load and transport controls with an event stream.
//
// An Adapter owns at most one Handle. Load tears the current one down
// (stop, then close) before decoding the next file, and completion is
// reported as Ready or Failed on Events, tagged with the Session returned by
// Load. Results of a superseded Load are dropped without ever opening a
// handle.
//
//	a := playback.NewAdapter(backend, registry, log)
//	defer a.Close()
//
//	session, _ := a.Load(ctx, file)
//	for ev := range a.Events() {
//	    if r, ok := ev.(playback.Ready); ok && r.Session == session {
//	        _ = a.Play()
//	    }
//	}
//
// When the device cannot open a handle the Ready event still carries the
// decoded buffer, with PlaybackErr set. Play and Pause then return
// ErrPlaybackUnavailable.
//
// Device backends live in the otobackend and malgobackend subpackages. Both
// use Render to convert a buffer to the device format.
package playback

// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	// ErrPlaybackDevice wraps failures of the underlying audio device.
	ErrPlaybackDevice = errors.New("playback device error")

	// ErrPlaybackUnavailable is returned by transport calls after the device
	// failed for the current session. Trimming still works in that case.
	ErrPlaybackUnavailable = errors.New("playback unavailable")

	// ErrNothingLoaded is returned by Play and Pause before a load completed.
	ErrNothingLoaded = errors.New("nothing loaded")

	// ErrClosed is returned by Load after Close.
	ErrClosed = errors.New("adapter closed")
)

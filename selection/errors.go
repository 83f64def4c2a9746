// SPDX-License-Identifier: EPL-2.0

package selection

import "errors"

var (
	// ErrNotReady is returned by transport calls before a file is ready.
	ErrNotReady = errors.New("no file ready")

	// ErrNoAudio is returned by Trim when no audio with a positive duration
	// is loaded.
	ErrNoAudio = errors.New("no audio to trim")

	// ErrStaleSession is returned by Trim when the file changed or was reset
	// while the export ran.
	ErrStaleSession = errors.New("selection changed during export")
)

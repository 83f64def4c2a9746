// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"time"

	"github.com/google/uuid"
	"github.com/ik5/audtrim/audio"
)

// Handle is one buffer opened on a playback device.
type Handle interface {
	// Play starts or resumes playback. After the end was reached it starts
	// again from the beginning.
	Play() error
	// Pause keeps the position.
	Pause() error
	// Stop halts playback and rewinds to the beginning.
	Stop() error
	// Playing reports whether audio is currently being produced.
	Playing() bool
	// Finished receives a value each time playback reaches the end.
	Finished() <-chan struct{}
	// Close destroys the handle. It must not be used afterwards.
	Close() error
}

// Backend creates handles on an audio device.
type Backend interface {
	Open(buf *audio.Buffer) (Handle, error)
	Close() error
}

// Session identifies one Load call. The zero value means no session.
type Session uuid.UUID

// NewSession returns a random session token.
func NewSession() Session { return Session(uuid.New()) }

// IsZero reports whether s is the empty session.
func (s Session) IsZero() bool { return s == Session{} }

func (s Session) String() string { return uuid.UUID(s).String() }

// Event is delivered on Adapter.Events.
type Event interface {
	SessionID() Session
}

// Ready reports a completed decode. Buffer is always set. PlaybackErr is
// non nil when no device handle could be created; transport calls then fail
// with ErrPlaybackUnavailable.
type Ready struct {
	Session     Session
	Duration    time.Duration
	Buffer      *audio.Buffer
	PlaybackErr error
}

// Seconds returns the decoded length in seconds.
func (e Ready) Seconds() float64 { return e.Buffer.Seconds() }

// Finished reports that playback reached the end of the buffer.
type Finished struct {
	Session Session
}

// Failed reports a decode failure. Err wraps audio.ErrUnsupportedFormat,
// audio.ErrCorruptData, or the context error when the load context was
// cancelled by its caller.
type Failed struct {
	Session Session
	Err     error
}

func (e Ready) SessionID() Session    { return e.Session }
func (e Finished) SessionID() Session { return e.Session }
func (e Failed) SessionID() Session   { return e.Session }

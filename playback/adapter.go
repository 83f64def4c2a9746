// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"context"
	"fmt"
	"sync"

	"github.com/ik5/audtrim/audio"
	"github.com/rs/zerolog"
)

// eventBuffer is the capacity of the Events channel.
const eventBuffer = 16

// Adapter owns at most one Handle and turns decode completion and end of
// playback into Events. Every Load replaces the previous handle; the old one
// is stopped and closed before the new decode starts.
type Adapter struct {
	backend Backend
	decoder audio.FileDecoder
	log     zerolog.Logger

	mtx         sync.Mutex
	session     Session
	cancel      context.CancelFunc
	handle      Handle
	unwatch     chan struct{}
	playbackErr error
	closed      bool

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewAdapter returns an Adapter decoding with dec and playing through
// backend. A nil backend disables playback; loads still decode.
func NewAdapter(backend Backend, dec audio.FileDecoder, log zerolog.Logger) *Adapter {
	return &Adapter{
		backend: backend,
		decoder: dec,
		log:     log.With().Str("component", "playback").Logger(),
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}
}

// Events returns the event stream. It is closed by Close.
func (a *Adapter) Events() <-chan Event { return a.events }

// Session returns the current session, zero when nothing is loading or
// loaded.
func (a *Adapter) Session() Session {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	return a.session
}

// Load releases the current handle and starts decoding f in the background.
// The outcome arrives on Events as Ready or Failed tagged with the returned
// session.
func (a *Adapter) Load(ctx context.Context, f audio.File) (Session, error) {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if a.closed {
		return Session{}, ErrClosed
	}

	a.teardownLocked()

	session := NewSession()
	loadCtx, cancel := context.WithCancel(ctx)
	a.session = session
	a.cancel = cancel

	a.log.Debug().
		Str("session", session.String()).
		Str("file", f.Name).
		Int("bytes", len(f.Data)).
		Msg("loading")

	a.wg.Add(1)
	go a.decode(loadCtx, session, f)

	return session, nil
}

func (a *Adapter) decode(ctx context.Context, session Session, f audio.File) {
	defer a.wg.Done()

	log := a.log.With().Str("session", session.String()).Logger()

	buf, err := a.decoder.DecodeFile(ctx, f)
	switch {
	case err != nil:
	case buf == nil:
		err = fmt.Errorf("%w: decoder returned no audio", audio.ErrCorruptData)
	default:
		if verr := buf.Validate(); verr != nil {
			err = fmt.Errorf("%w: %w", audio.ErrCorruptData, verr)
		}
	}

	a.mtx.Lock()
	if a.session != session || a.closed {
		a.mtx.Unlock()
		log.Debug().Err(err).Msg("dropping stale load")
		return
	}
	if err != nil {
		a.session = Session{}
		a.cancel = nil
		a.mtx.Unlock()

		log.Error().Err(err).Str("file", f.Name).Msg("decode failed")
		a.emit(Failed{Session: session, Err: err})
		return
	}

	// the handle is created under the lock so a concurrent Load can never
	// see two of them
	a.openLocked(session, buf)
	playbackErr := a.playbackErr
	a.cancel = nil
	a.mtx.Unlock()

	log.Debug().
		Int("sample_rate", buf.SampleRate).
		Int("channels", buf.NumChannels()).
		Int("frames", buf.Frames()).
		Bool("playable", playbackErr == nil).
		Msg("ready")

	a.emit(Ready{
		Session:     session,
		Duration:    buf.Duration(),
		Buffer:      buf,
		PlaybackErr: playbackErr,
	})
}

func (a *Adapter) openLocked(session Session, buf *audio.Buffer) {
	if a.backend == nil {
		a.playbackErr = fmt.Errorf("%w: no backend configured", ErrPlaybackDevice)
		return
	}

	h, err := a.backend.Open(buf)
	if err != nil {
		a.playbackErr = fmt.Errorf("%w: %w", ErrPlaybackDevice, err)
		a.log.Error().Err(err).Str("session", session.String()).Msg("cannot open playback handle")
		return
	}

	a.handle = h
	a.unwatch = make(chan struct{})
	a.wg.Add(1)
	go a.watch(session, h, a.unwatch)
}

func (a *Adapter) watch(session Session, h Handle, unwatch <-chan struct{}) {
	defer a.wg.Done()

	for {
		select {
		case <-unwatch:
			return
		case <-a.done:
			return
		case <-h.Finished():
			a.log.Debug().Str("session", session.String()).Msg("finished")
			a.emit(Finished{Session: session})
		}
	}
}

// emit delivers ev unless the adapter is closing.
func (a *Adapter) emit(ev Event) {
	select {
	case a.events <- ev:
	case <-a.done:
	}
}

// teardownLocked cancels a pending decode and destroys the handle.
func (a *Adapter) teardownLocked() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.unwatch != nil {
		close(a.unwatch)
		a.unwatch = nil
	}
	if a.handle != nil {
		if err := a.handle.Stop(); err != nil {
			a.log.Warn().Err(err).Msg("stop before release")
		}
		if err := a.handle.Close(); err != nil {
			a.log.Warn().Err(err).Msg("release handle")
		}
		a.handle = nil
	}
	a.playbackErr = nil
}

func (a *Adapter) handleLocked() (Handle, error) {
	if a.handle != nil {
		return a.handle, nil
	}
	if a.playbackErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlaybackUnavailable, a.playbackErr)
	}
	return nil, ErrNothingLoaded
}

// Play starts or resumes the loaded buffer.
func (a *Adapter) Play() error {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	h, err := a.handleLocked()
	if err != nil {
		return err
	}
	if err := h.Play(); err != nil {
		return fmt.Errorf("%w: %w", ErrPlaybackDevice, err)
	}
	return nil
}

// Pause pauses playback, keeping the position.
func (a *Adapter) Pause() error {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	h, err := a.handleLocked()
	if err != nil {
		return err
	}
	if err := h.Pause(); err != nil {
		return fmt.Errorf("%w: %w", ErrPlaybackDevice, err)
	}
	return nil
}

// PlayPause toggles playback and reports whether it is now playing.
func (a *Adapter) PlayPause() (bool, error) {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	h, err := a.handleLocked()
	if err != nil {
		return false, err
	}

	if h.Playing() {
		if err := h.Pause(); err != nil {
			return true, fmt.Errorf("%w: %w", ErrPlaybackDevice, err)
		}
		return false, nil
	}
	if err := h.Play(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrPlaybackDevice, err)
	}
	return true, nil
}

// Stop halts playback and rewinds. It is a no-op when nothing is loaded.
func (a *Adapter) Stop() error {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if a.handle == nil {
		return nil
	}
	if err := a.handle.Stop(); err != nil {
		return fmt.Errorf("%w: %w", ErrPlaybackDevice, err)
	}
	return nil
}

// Playing reports whether the current handle is producing audio.
func (a *Adapter) Playing() bool {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	return a.handle != nil && a.handle.Playing()
}

// Release stops and destroys the current handle and ends the session.
// Pending decodes are cancelled and their results dropped.
func (a *Adapter) Release() {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	a.teardownLocked()
	a.session = Session{}
}

// Close releases everything, closes the event stream and the backend.
func (a *Adapter) Close() error {
	a.mtx.Lock()
	if a.closed {
		a.mtx.Unlock()
		return nil
	}
	a.closed = true
	a.teardownLocked()
	a.session = Session{}
	close(a.done)
	a.mtx.Unlock()

	a.wg.Wait()
	close(a.events)
	a.log.Debug().Msg("closed")

	if a.backend == nil {
		return nil
	}
	if err := a.backend.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPlaybackDevice, err)
	}
	return nil
}

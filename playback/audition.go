// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"sync"

	"github.com/ik5/audtrim/audio"
	"github.com/rs/zerolog"
)

// Auditioner plays buffers on handles of their own, independent of any
// Adapter. Each handle is destroyed when it finishes or when the Auditioner
// is closed.
type Auditioner struct {
	backend Backend
	log     zerolog.Logger

	mtx    sync.Mutex
	active map[Session]Handle
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewAuditioner(backend Backend, log zerolog.Logger) *Auditioner {
	return &Auditioner{
		backend: backend,
		log:     log.With().Str("component", "audition").Logger(),
		active:  make(map[Session]Handle),
		done:    make(chan struct{}),
	}
}

// Audition starts playing buf and returns without waiting for it to end.
func (a *Auditioner) Audition(buf *audio.Buffer) error {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if a.closed {
		return ErrClosed
	}
	if a.backend == nil {
		return fmt.Errorf("%w: no backend configured", ErrPlaybackUnavailable)
	}

	h, err := a.backend.Open(buf)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPlaybackDevice, err)
	}
	if err := h.Play(); err != nil {
		_ = h.Close()
		return fmt.Errorf("%w: %w", ErrPlaybackDevice, err)
	}

	id := NewSession()
	a.active[id] = h
	a.wg.Add(1)
	go a.release(id, h)

	a.log.Debug().Str("id", id.String()).Int("frames", buf.Frames()).Msg("audition started")
	return nil
}

func (a *Auditioner) release(id Session, h Handle) {
	defer a.wg.Done()

	select {
	case <-h.Finished():
	case <-a.done:
		if err := h.Stop(); err != nil {
			a.log.Warn().Err(err).Msg("stop audition")
		}
	}

	a.mtx.Lock()
	delete(a.active, id)
	a.mtx.Unlock()

	if err := h.Close(); err != nil {
		a.log.Warn().Err(err).Msg("release audition")
	}
	a.log.Debug().Str("id", id.String()).Msg("audition released")
}

// Active returns the number of auditions still playing.
func (a *Auditioner) Active() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	return len(a.active)
}

// Close stops every running audition and waits for their handles to be
// destroyed. The backend is left open.
func (a *Auditioner) Close() error {
	a.mtx.Lock()
	if a.closed {
		a.mtx.Unlock()
		return nil
	}
	a.closed = true
	close(a.done)
	a.mtx.Unlock()

	a.wg.Wait()
	return nil
}

// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"sync"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/playback"
)

// ErrHandleClosed is returned by FakeHandle methods after Close.
var ErrHandleClosed = errors.New("handle closed")

// FakeBackend is an in-memory playback.Backend that counts live handles.
type FakeBackend struct {
	mtx     sync.Mutex
	openErr error
	opened  int
	live    int
	maxLive int
	closed  bool
	handles []*FakeHandle
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{}
}

// FailOpen makes every following Open return err. nil restores success.
func (b *FakeBackend) FailOpen(err error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.openErr = err
}

func (b *FakeBackend) Open(buf *audio.Buffer) (playback.Handle, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if b.openErr != nil {
		return nil, b.openErr
	}

	h := &FakeHandle{
		backend:  b,
		frames:   buf.Frames(),
		finished: make(chan struct{}, 1),
	}
	b.opened++
	b.live++
	b.maxLive = max(b.maxLive, b.live)
	b.handles = append(b.handles, h)
	return h, nil
}

func (b *FakeBackend) Close() error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.closed = true
	return nil
}

// Opened returns the number of handles created.
func (b *FakeBackend) Opened() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return b.opened
}

// Live returns the number of handles not yet closed.
func (b *FakeBackend) Live() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return b.live
}

// MaxLive returns the highest number of handles alive at the same time.
func (b *FakeBackend) MaxLive() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return b.maxLive
}

// Closed reports whether Close was called.
func (b *FakeBackend) Closed() bool {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return b.closed
}

// Last returns the most recently opened handle, nil if none.
func (b *FakeBackend) Last() *FakeHandle {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if len(b.handles) == 0 {
		return nil
	}
	return b.handles[len(b.handles)-1]
}

// FakeHandle records transport calls. Finish simulates the end of the
// buffer.
type FakeHandle struct {
	backend  *FakeBackend
	frames   int
	finished chan struct{}

	mtx     sync.Mutex
	playing bool
	closed  bool
	plays   int
	stops   int
}

func (h *FakeHandle) Play() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return ErrHandleClosed
	}
	h.playing = true
	h.plays++
	return nil
}

func (h *FakeHandle) Pause() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return ErrHandleClosed
	}
	h.playing = false
	return nil
}

func (h *FakeHandle) Stop() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return ErrHandleClosed
	}
	h.playing = false
	h.stops++
	return nil
}

func (h *FakeHandle) Playing() bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	return h.playing
}

func (h *FakeHandle) Finished() <-chan struct{} { return h.finished }

func (h *FakeHandle) Close() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	h.playing = false

	h.backend.mtx.Lock()
	h.backend.live--
	h.backend.mtx.Unlock()
	return nil
}

// Finish stops playback as if the end of the buffer was reached.
func (h *FakeHandle) Finish() {
	h.mtx.Lock()
	h.playing = false
	h.mtx.Unlock()

	select {
	case h.finished <- struct{}{}:
	default:
	}
}

// Frames returns the length of the buffer the handle was opened with.
func (h *FakeHandle) Frames() int { return h.frames }

// IsClosed reports whether Close was called.
func (h *FakeHandle) IsClosed() bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	return h.closed
}

// Plays returns the number of Play calls.
func (h *FakeHandle) Plays() int {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	return h.plays
}

// Stops returns the number of Stop calls.
func (h *FakeHandle) Stops() int {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	return h.stops
}

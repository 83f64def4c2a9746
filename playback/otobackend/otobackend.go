// SPDX-License-Identifier: EPL-2.0

// Package otobackend plays buffers through github.com/ebitengine/oto/v3.
//
// oto allows a single context per process, so the first New call fixes the
// device format. Later calls must ask for the same sample rate and channel
// count.
package otobackend

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/playback"
	"github.com/rs/zerolog"
)

// pollInterval is how often a playing handle checks for the end of data.
const pollInterval = 10 * time.Millisecond

// ErrFormatMismatch is returned when New asks for a format other than the
// one the process wide context was created with.
var ErrFormatMismatch = errors.New("oto context already initialized with another format")

var (
	otoCtx      *oto.Context
	once        sync.Once
	ctxErr      error
	ctxRate     int
	ctxChannels int
)

// initOtoContext creates the oto context singleton.
func initOtoContext(sampleRate, channels int) (*oto.Context, error) {
	once.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channels,
			Format:       oto.FormatFloat32LE,
		}

		var ready chan struct{}
		otoCtx, ready, ctxErr = oto.NewContext(op)
		if ctxErr == nil {
			<-ready
			ctxRate = sampleRate
			ctxChannels = channels
		}
	})
	if ctxErr != nil {
		return nil, ctxErr
	}
	if ctxRate != sampleRate || ctxChannels != channels {
		return nil, fmt.Errorf("%w: have %d Hz x %d, want %d Hz x %d",
			ErrFormatMismatch, ctxRate, ctxChannels, sampleRate, channels)
	}
	return otoCtx, nil
}

// Backend opens handles on the shared oto context.
type Backend struct {
	ctx        *oto.Context
	sampleRate int
	channels   int
	log        zerolog.Logger
}

// New returns a Backend for the given device format.
func New(sampleRate, channels int, log zerolog.Logger) (*Backend, error) {
	log = log.With().Str("backend", "oto").Logger()

	ctx, err := initOtoContext(sampleRate, channels)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Oto audio context")
		return nil, fmt.Errorf("%w: %w", playback.ErrPlaybackDevice, err)
	}
	log.Debug().Int("sample_rate", sampleRate).Int("channels", channels).Msg("Oto audio context ready")

	return &Backend{
		ctx:        ctx,
		sampleRate: sampleRate,
		channels:   channels,
		log:        log,
	}, nil
}

// Open renders buf to the device format and wraps it in an oto player.
func (b *Backend) Open(buf *audio.Buffer) (playback.Handle, error) {
	samples, err := playback.Render(buf, b.sampleRate, b.channels)
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(s))
	}

	h := &handle{
		player:   b.ctx.NewPlayer(bytes.NewReader(data)),
		log:      b.log,
		finished: make(chan struct{}, 1),
		quit:     make(chan struct{}),
	}
	go h.watch()

	b.log.Debug().Int("bytes", len(data)).Msg("player created")
	return h, nil
}

// Close is a no-op: the oto context lives for the whole process.
func (b *Backend) Close() error {
	b.log.Debug().Msg("backend closed")
	return nil
}

type handle struct {
	player   *oto.Player
	log      zerolog.Logger
	finished chan struct{}
	quit     chan struct{}

	mtx     sync.Mutex
	playing bool
	ended   bool
	closed  bool
}

func (h *handle) Play() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return io.ErrClosedPipe
	}
	if h.ended {
		if _, err := h.player.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind: %w", err)
		}
		h.ended = false
	}
	h.player.Play()
	h.playing = true
	return h.player.Err()
}

func (h *handle) Pause() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return io.ErrClosedPipe
	}
	h.player.Pause()
	h.playing = false
	return nil
}

func (h *handle) Stop() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return io.ErrClosedPipe
	}
	h.player.Pause()
	h.playing = false
	h.ended = false
	if _, err := h.player.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind: %w", err)
	}
	return nil
}

func (h *handle) Playing() bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	return h.playing
}

func (h *handle) Finished() <-chan struct{} { return h.finished }

// watch polls the player because oto has no completion callback.
func (h *handle) watch() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.quit:
			return
		case <-ticker.C:
		}

		h.mtx.Lock()
		done := h.playing && !h.player.IsPlaying()
		if done {
			h.playing = false
			h.ended = true
		}
		h.mtx.Unlock()

		if done {
			if err := h.player.Err(); err != nil {
				h.log.Error().Err(err).Msg("oto player error")
			}
			select {
			case h.finished <- struct{}{}:
			default:
			}
		}
	}
}

func (h *handle) Close() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	h.playing = false
	close(h.quit)

	if err := h.player.Close(); err != nil {
		return fmt.Errorf("oto player: %w", err)
	}
	return nil
}

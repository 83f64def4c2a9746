// SPDX-License-Identifier: EPL-2.0

// Package malgobackend plays buffers through miniaudio via
// github.com/gen2brain/malgo. Each handle owns one playback device fed from
// the data callback.
package malgobackend

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/playback"
	"github.com/rs/zerolog"
)

const bytesPerSample = 4

// Backend owns a miniaudio context.
type Backend struct {
	ctx        *malgo.AllocatedContext
	sampleRate int
	channels   int
	log        zerolog.Logger

	mtx    sync.Mutex
	closed bool
}

// New initializes a miniaudio context for float32 output at the given format.
func New(sampleRate, channels int, log zerolog.Logger) (*Backend, error) {
	log = log.With().Str("backend", "malgo").Logger()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debug().Msg(strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", playback.ErrPlaybackDevice, err)
	}

	return &Backend{
		ctx:        ctx,
		sampleRate: sampleRate,
		channels:   channels,
		log:        log,
	}, nil
}

// Open renders buf and initializes a stopped device for it.
func (b *Backend) Open(buf *audio.Buffer) (playback.Handle, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if b.closed {
		return nil, io.ErrClosedPipe
	}

	samples, err := playback.Render(buf, b.sampleRate, b.channels)
	if err != nil {
		return nil, err
	}

	h := &handle{
		samples:  samples,
		channels: b.channels,
		finished: make(chan struct{}, 1),
	}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatF32
	config.Playback.Channels = uint32(b.channels)
	config.SampleRate = uint32(b.sampleRate)
	config.PerformanceProfile = malgo.LowLatency

	device, err := malgo.InitDevice(b.ctx.Context, config, malgo.DeviceCallbacks{
		Data: h.onData,
	})
	if err != nil {
		return nil, err
	}
	h.device = device

	b.log.Debug().Int("frames", len(samples)/b.channels).Msg("device initialized")
	return h, nil
}

// Close tears the context down. Handles must be closed first.
func (b *Backend) Close() error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	err := b.ctx.Uninit()
	b.ctx.Free()
	if err != nil {
		return fmt.Errorf("malgo context: %w", err)
	}
	return nil
}

type handle struct {
	device   *malgo.Device
	samples  []float32
	channels int
	finished chan struct{}

	mtx     sync.Mutex
	pos     int // next sample
	playing bool
	closed  bool
}

// onData runs on the audio thread. Anything past the end is silence.
func (h *handle) onData(out, _ []byte, frames uint32) {
	h.mtx.Lock()
	written := 0
	if h.playing {
		written = min(int(frames)*h.channels, len(h.samples)-h.pos, len(out)/bytesPerSample)
		for i := range written {
			binary.NativeEndian.PutUint32(out[i*bytesPerSample:], math.Float32bits(h.samples[h.pos+i]))
		}
		h.pos += written
	}
	ended := h.playing && h.pos >= len(h.samples)
	if ended {
		h.playing = false
	}
	h.mtx.Unlock()

	clear(out[written*bytesPerSample:])

	if ended {
		select {
		case h.finished <- struct{}{}:
		default:
		}
	}
}

func (h *handle) Play() error {
	h.mtx.Lock()
	if h.closed {
		h.mtx.Unlock()
		return io.ErrClosedPipe
	}
	if h.pos >= len(h.samples) {
		h.pos = 0
	}
	h.playing = true
	h.mtx.Unlock()

	// Start waits for the callback thread, so it runs without the lock
	if !h.device.IsStarted() {
		if err := h.device.Start(); err != nil {
			return fmt.Errorf("start device: %w", err)
		}
	}
	return nil
}

func (h *handle) Pause() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return io.ErrClosedPipe
	}
	h.playing = false
	return nil
}

func (h *handle) Stop() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return io.ErrClosedPipe
	}
	h.playing = false
	h.pos = 0
	return nil
}

func (h *handle) Playing() bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	return h.playing
}

func (h *handle) Finished() <-chan struct{} { return h.finished }

func (h *handle) Close() error {
	h.mtx.Lock()
	if h.closed {
		h.mtx.Unlock()
		return nil
	}
	h.closed = true
	h.playing = false
	h.mtx.Unlock()

	// Uninit stops the device and waits for the last callback
	h.device.Uninit()
	return nil
}

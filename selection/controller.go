// SPDX-License-Identifier: EPL-2.0

package selection

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/export"
	"github.com/ik5/audtrim/playback"
	"github.com/rs/zerolog"
)

// Player is the part of playback.Adapter the controller drives.
type Player interface {
	Load(ctx context.Context, f audio.File) (playback.Session, error)
	PlayPause() (bool, error)
	Play() error
	Stop() error
	Release()
	Events() <-chan playback.Event
}

// Exporter is the part of export.Service the controller drives.
type Exporter interface {
	Export(ctx context.Context, buf *audio.Buffer, source string) (*export.Artifact, error)
}

// Controller ties file selection, decoded audio, the selected range and
// playback state together. All methods are safe for concurrent use.
type Controller struct {
	player   Player
	exporter Exporter
	autoplay bool
	log      zerolog.Logger

	mtx         sync.Mutex
	state       State
	file        *audio.File
	session     playback.Session
	buf         *audio.Buffer
	rng         audio.TimeRange
	playbackErr error
	lastErr     error

	// trims is cancelled when the selection is replaced or reset so that
	// in-flight exports stop before delivery.
	trims     context.Context
	stopTrims context.CancelFunc
}

type Option func(*Controller)

// WithAutoplay starts playback as soon as a file is ready.
func WithAutoplay(on bool) Option {
	return func(c *Controller) { c.autoplay = on }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

func New(player Player, exporter Exporter, opts ...Option) *Controller {
	c := &Controller{
		player:   player,
		exporter: exporter,
		log:      zerolog.Nop(),
		rng:      audio.NewTimeRange(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "selection").Logger()
	return c
}

// SelectFile replaces the current file and starts loading f. The previous
// selection, decoded audio and range are discarded.
func (c *Controller) SelectFile(ctx context.Context, f audio.File) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	f.Data = bytes.Clone(f.Data)
	c.clearLocked()

	session, err := c.player.Load(ctx, f)
	if err != nil {
		c.lastErr = err
		c.log.Error().Err(err).Str("file", f.Name).Msg("load failed")
		return fmt.Errorf("load %s: %w", f.Name, err)
	}

	c.file = &f
	c.session = session
	c.state = Loading
	c.log.Debug().Str("file", f.Name).Str("session", session.String()).Msg("file selected")
	return nil
}

func (c *Controller) clearLocked() {
	if c.stopTrims != nil {
		c.stopTrims()
		c.trims, c.stopTrims = nil, nil
	}
	c.state = NoFile
	c.file = nil
	c.session = playback.Session{}
	c.buf = nil
	c.rng = audio.NewTimeRange()
	c.playbackErr = nil
	c.lastErr = nil
}

// HandleEvent applies a player event. Events of any session other than the
// current one are ignored.
func (c *Controller) HandleEvent(ev playback.Event) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.session.IsZero() || ev.SessionID() != c.session {
		c.log.Debug().Str("session", ev.SessionID().String()).Msgf("ignoring stale %T", ev)
		return
	}

	switch ev := ev.(type) {
	case playback.Ready:
		c.buf = ev.Buffer
		c.rng = audio.NewTimeRange()
		c.playbackErr = ev.PlaybackErr
		c.state = Ready
		c.log.Debug().Dur("duration", ev.Duration).Bool("playable", ev.PlaybackErr == nil).Msg("ready")

		if c.autoplay && ev.PlaybackErr == nil {
			if err := c.player.Play(); err != nil {
				c.log.Warn().Err(err).Msg("autoplay failed")
				return
			}
			c.state = Playing
		}

	case playback.Failed:
		name := ""
		if c.file != nil {
			name = c.file.Name
		}
		c.clearLocked()
		c.lastErr = ev.Err
		c.log.Error().Err(ev.Err).Str("file", name).Msg("decode failed")

	case playback.Finished:
		if c.state == Playing || c.state == Paused {
			c.state = Finished
		}
	}
}

// Run feeds player events into HandleEvent until ctx is done or the event
// stream is closed.
func (c *Controller) Run(ctx context.Context) error {
	events := c.player.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.HandleEvent(ev)
		}
	}
}

// TogglePlayPause toggles playback and returns the new state. Finished
// playback starts again from the beginning.
func (c *Controller) TogglePlayPause() (State, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if !c.state.Loaded() {
		return c.state, ErrNotReady
	}

	playing, err := c.player.PlayPause()
	if err != nil {
		return c.state, err
	}
	if playing {
		c.state = Playing
	} else {
		c.state = Paused
	}
	return c.state, nil
}

// Stop halts playback and returns to Ready. It does nothing unless playback
// was started.
func (c *Controller) Stop() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	switch c.state {
	case Playing, Paused, Finished:
	default:
		return nil
	}

	if err := c.player.Stop(); err != nil {
		return err
	}
	c.state = Ready
	return nil
}

// SetStart moves the start of the range and returns the result. It is
// ignored while no duration is known.
func (c *Controller) SetStart(v float64) audio.TimeRange {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.durationLocked() > 0 {
		c.rng.SetStart(v)
	}
	return c.rng
}

// SetEnd moves the end of the range and returns the result. It is ignored
// while no duration is known.
func (c *Controller) SetEnd(v float64) audio.TimeRange {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.durationLocked() > 0 {
		c.rng.SetEnd(v)
	}
	return c.rng
}

// Reset releases the player and returns to NoFile with the full range. It
// is safe in any state.
func (c *Controller) Reset() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.player.Release()
	c.clearLocked()
	c.log.Debug().Msg("reset")
}

// Trim cuts the selected range out of the decoded audio and exports it. The
// playback state is not changed. Reset or a new SelectFile cancels the
// context handed to the exporter; a delivery that already completed is not
// rolled back.
func (c *Controller) Trim(ctx context.Context) (*export.Artifact, error) {
	c.mtx.Lock()
	if c.durationLocked() <= 0 {
		c.mtx.Unlock()
		return nil, ErrNoAudio
	}
	if c.trims == nil {
		c.trims, c.stopTrims = context.WithCancel(context.Background())
	}
	buf := c.buf
	rng := c.rng
	session := c.session
	source := c.file.Name
	trims := c.trims
	c.mtx.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(trims, cancel)
	defer stop()

	start, end := rng.Seconds(buf.Seconds())
	trimmed := audio.Slice(buf, start, end)

	artifact, err := c.exporter.Export(ctx, trimmed, source)

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.session != session {
		c.log.Debug().Msg("dropping export of a replaced selection")
		return nil, ErrStaleSession
	}
	if err != nil {
		c.lastErr = err
		c.log.Error().Err(err).Msg("trim failed")
		return nil, err
	}

	c.log.Debug().
		Str("range", rng.String()).
		Int("frames", trimmed.Frames()).
		Str("filename", artifact.Filename).
		Msg("trimmed")
	return artifact, nil
}

func (c *Controller) durationLocked() float64 {
	if c.buf == nil {
		return 0
	}
	return c.buf.Seconds()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.state
}

// Duration returns the length of the decoded audio, 0 before Ready.
func (c *Controller) Duration() time.Duration {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.buf == nil {
		return 0
	}
	return c.buf.Duration()
}

// Range returns the selected range in percent.
func (c *Controller) Range() audio.TimeRange {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.rng
}

// RangeSeconds returns the selected range in seconds.
func (c *Controller) RangeSeconds() (start, end float64) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.rng.Seconds(c.durationLocked())
}

// File returns the selected file.
func (c *Controller) File() (audio.File, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.file == nil {
		return audio.File{}, false
	}
	return *c.file, true
}

// Buffer returns the decoded audio, nil before Ready. It must not be
// modified.
func (c *Controller) Buffer() *audio.Buffer {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.buf
}

// Peaks returns waveform peaks of the decoded audio.
func (c *Controller) Peaks(resolution int) []float32 {
	return audio.Peaks(c.Buffer(), resolution)
}

// PlaybackErr returns why playback is unavailable for the current file.
func (c *Controller) PlaybackErr() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.playbackErr
}

// LastErr returns the last load, decode or export error.
func (c *Controller) LastErr() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.lastErr
}

// Snapshot is a consistent view of the controller.
type Snapshot struct {
	State    State
	File     string
	Duration time.Duration
	Range    audio.TimeRange
	Playable bool
	Err      error
}

func (c *Controller) Snapshot() Snapshot {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	s := Snapshot{
		State:    c.state,
		Range:    c.rng,
		Playable: c.buf != nil && c.playbackErr == nil,
		Err:      c.lastErr,
	}
	if c.file != nil {
		s.File = c.file.Name
	}
	if c.buf != nil {
		s.Duration = c.buf.Duration()
	}
	return s
}

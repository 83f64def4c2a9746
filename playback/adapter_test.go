// SPDX-License-Identifier: EPL-2.0

package playback_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/internal/audiotest"
	"github.com/ik5/audtrim/playback"
	"github.com/rs/zerolog"
)

const eventTimeout = 2 * time.Second

func nextEvent(t *testing.T, a *playback.Adapter) playback.Event {
	t.Helper()

	select {
	case ev, ok := <-a.Events():
		if !ok {
			t.Fatal("event stream closed")
		}
		return ev
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for event")
	}
	return nil
}

func waitReady(t *testing.T, a *playback.Adapter, session playback.Session) playback.Ready {
	t.Helper()

	ev := nextEvent(t, a)
	ready, ok := ev.(playback.Ready)
	if !ok {
		t.Fatalf("event = %#v, want Ready", ev)
	}
	if ready.Session != session {
		t.Fatalf("Ready.Session = %v, want %v", ready.Session, session)
	}
	return ready
}

func setup(t *testing.T) (*playback.Adapter, *audiotest.FakeDecoder, *audiotest.FakeBackend) {
	t.Helper()

	dec := audiotest.NewFakeDecoder()
	backend := audiotest.NewFakeBackend()
	a := playback.NewAdapter(backend, dec, zerolog.Nop())
	t.Cleanup(func() { _ = a.Close() })
	return a, dec, backend
}

func TestAdapter_LoadReady(t *testing.T) {
	t.Parallel()

	a, dec, backend := setup(t)
	buf := audiotest.RampBuffer(8000, 2, 1.5)
	dec.Set("a.wav", buf)

	session, err := a.Load(context.Background(), audio.File{Name: "a.wav", Data: []byte{1}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if session.IsZero() {
		t.Fatal("Load() returned zero session")
	}

	ready := waitReady(t, a, session)
	if !ready.Buffer.Equal(buf) {
		t.Error("Ready.Buffer differs from decoded audio")
	}
	if ready.Duration != 1500*time.Millisecond {
		t.Errorf("Ready.Duration = %v, want 1.5s", ready.Duration)
	}
	if ready.Seconds() != 1.5 {
		t.Errorf("Ready.Seconds() = %v, want 1.5", ready.Seconds())
	}
	if ready.PlaybackErr != nil {
		t.Errorf("Ready.PlaybackErr = %v, want nil", ready.PlaybackErr)
	}
	if got := backend.Opened(); got != 1 {
		t.Errorf("backend opened %d handles, want 1", got)
	}
	if got := a.Session(); got != session {
		t.Errorf("Session() = %v, want %v", got, session)
	}
}

func TestAdapter_Transport(t *testing.T) {
	t.Parallel()

	a, dec, backend := setup(t)
	dec.Set("a.wav", audiotest.RampBuffer(8000, 1, 1))

	session, _ := a.Load(context.Background(), audio.File{Name: "a.wav"})
	waitReady(t, a, session)
	h := backend.Last()

	if err := a.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if !a.Playing() || !h.Playing() {
		t.Error("Playing() = false after Play")
	}

	playing, err := a.PlayPause()
	if err != nil || playing {
		t.Errorf("PlayPause() = %v, %v, want false, nil", playing, err)
	}
	playing, err = a.PlayPause()
	if err != nil || !playing {
		t.Errorf("PlayPause() = %v, %v, want true, nil", playing, err)
	}

	if err := a.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if a.Playing() {
		t.Error("Playing() = true after Pause")
	}

	for range 3 {
		if err := a.Stop(); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}
	}
	if got := h.Stops(); got != 3 {
		t.Errorf("handle stops = %d, want 3", got)
	}
}

func TestAdapter_NothingLoaded(t *testing.T) {
	t.Parallel()

	a, _, _ := setup(t)

	if err := a.Stop(); err != nil {
		t.Errorf("Stop() error = %v, want nil", err)
	}
	if err := a.Play(); !errors.Is(err, playback.ErrNothingLoaded) {
		t.Errorf("Play() error = %v, want ErrNothingLoaded", err)
	}
	if err := a.Pause(); !errors.Is(err, playback.ErrNothingLoaded) {
		t.Errorf("Pause() error = %v, want ErrNothingLoaded", err)
	}
	if _, err := a.PlayPause(); !errors.Is(err, playback.ErrNothingLoaded) {
		t.Errorf("PlayPause() error = %v, want ErrNothingLoaded", err)
	}
	if a.Playing() {
		t.Error("Playing() = true with nothing loaded")
	}
	a.Release()
}

func TestAdapter_SingleHandleAcrossLoads(t *testing.T) {
	t.Parallel()

	a, dec, backend := setup(t)
	for _, name := range []string{"a.wav", "b.wav", "c.wav"} {
		dec.Set(name, audiotest.RampBuffer(8000, 2, 0.5))
	}

	var handles []*audiotest.FakeHandle
	for _, name := range []string{"a.wav", "b.wav", "c.wav"} {
		session, err := a.Load(context.Background(), audio.File{Name: name})
		if err != nil {
			t.Fatalf("Load(%s) error = %v", name, err)
		}
		waitReady(t, a, session)
		if err := a.Play(); err != nil {
			t.Fatalf("Play() error = %v", err)
		}
		handles = append(handles, backend.Last())
	}

	if got := backend.MaxLive(); got != 1 {
		t.Errorf("max live handles = %d, want 1", got)
	}
	for i, h := range handles[:2] {
		if !h.IsClosed() {
			t.Errorf("handle %d still open after a new load", i)
		}
		if h.Stops() == 0 {
			t.Errorf("handle %d was not stopped before release", i)
		}
	}
	if handles[2].IsClosed() {
		t.Error("current handle closed")
	}
}

func TestAdapter_StaleLoadDropped(t *testing.T) {
	t.Parallel()

	dec := audiotest.NewFakeDecoder()
	backend := audiotest.NewFakeBackend()
	a := playback.NewAdapter(backend, dec, zerolog.Nop())

	dec.Set("a.wav", audiotest.RampBuffer(8000, 1, 1))
	dec.Set("b.wav", audiotest.RampBuffer(8000, 1, 2))
	release := dec.Hold("a.wav")
	defer release()

	sessionA, _ := a.Load(context.Background(), audio.File{Name: "a.wav"})
	sessionB, _ := a.Load(context.Background(), audio.File{Name: "b.wav"})

	ready := waitReady(t, a, sessionB)
	if ready.Seconds() != 2 {
		t.Errorf("Ready.Seconds() = %v, want 2", ready.Seconds())
	}

	release()
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	for ev := range a.Events() {
		if ev.SessionID() == sessionA {
			t.Errorf("stale event delivered: %#v", ev)
		}
	}
	if got := backend.Opened(); got != 1 {
		t.Errorf("backend opened %d handles, want 1", got)
	}
	if got := backend.Live(); got != 0 {
		t.Errorf("live handles after Close = %d, want 0", got)
	}
}

func TestAdapter_DecodeFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		prepare func(d *audiotest.FakeDecoder)
		want    error
	}{
		{"unsupported", func(*audiotest.FakeDecoder) {}, audio.ErrUnsupportedFormat},
		{"corrupt", func(d *audiotest.FakeDecoder) {
			d.Fail("x.bin", audio.ErrCorruptData)
		}, audio.ErrCorruptData},
		{"ragged buffer", func(d *audiotest.FakeDecoder) {
			d.Set("x.bin", &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0, 0}, {0}}})
		}, audio.ErrCorruptData},
		{"nil buffer", func(d *audiotest.FakeDecoder) {
			d.Set("x.bin", nil)
		}, audio.ErrCorruptData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, dec, backend := setup(t)
			tt.prepare(dec)

			session, _ := a.Load(context.Background(), audio.File{Name: "x.bin"})
			ev := nextEvent(t, a)
			failed, ok := ev.(playback.Failed)
			if !ok {
				t.Fatalf("event = %#v, want Failed", ev)
			}
			if failed.Session != session {
				t.Errorf("Failed.Session = %v, want %v", failed.Session, session)
			}
			if !errors.Is(failed.Err, tt.want) {
				t.Errorf("Failed.Err = %v, want %v", failed.Err, tt.want)
			}
			if backend.Opened() != 0 {
				t.Error("handle opened for a failed decode")
			}
			if !a.Session().IsZero() {
				t.Error("Session() not cleared after failure")
			}
		})
	}
}

func TestAdapter_DeviceFailureKeepsBuffer(t *testing.T) {
	t.Parallel()

	a, dec, backend := setup(t)
	backend.FailOpen(errors.New("no device"))
	buf := audiotest.RampBuffer(8000, 2, 1)
	dec.Set("a.wav", buf)

	session, _ := a.Load(context.Background(), audio.File{Name: "a.wav"})
	ready := waitReady(t, a, session)

	if !errors.Is(ready.PlaybackErr, playback.ErrPlaybackDevice) {
		t.Errorf("Ready.PlaybackErr = %v, want ErrPlaybackDevice", ready.PlaybackErr)
	}
	if !ready.Buffer.Equal(buf) {
		t.Error("Ready.Buffer missing after device failure")
	}

	err := a.Play()
	if !errors.Is(err, playback.ErrPlaybackUnavailable) || !errors.Is(err, playback.ErrPlaybackDevice) {
		t.Errorf("Play() error = %v, want ErrPlaybackUnavailable wrapping ErrPlaybackDevice", err)
	}
	if err := a.Stop(); err != nil {
		t.Errorf("Stop() error = %v, want nil", err)
	}
}

func TestAdapter_NoBackend(t *testing.T) {
	t.Parallel()

	dec := audiotest.NewFakeDecoder()
	dec.Set("a.wav", audiotest.RampBuffer(8000, 1, 1))
	a := playback.NewAdapter(nil, dec, zerolog.Nop())
	defer a.Close()

	session, _ := a.Load(context.Background(), audio.File{Name: "a.wav"})
	ready := waitReady(t, a, session)
	if !errors.Is(ready.PlaybackErr, playback.ErrPlaybackDevice) {
		t.Errorf("Ready.PlaybackErr = %v, want ErrPlaybackDevice", ready.PlaybackErr)
	}
	if err := a.Play(); !errors.Is(err, playback.ErrPlaybackUnavailable) {
		t.Errorf("Play() error = %v, want ErrPlaybackUnavailable", err)
	}
}

func TestAdapter_Finished(t *testing.T) {
	t.Parallel()

	a, dec, backend := setup(t)
	dec.Set("a.wav", audiotest.RampBuffer(8000, 1, 1))

	session, _ := a.Load(context.Background(), audio.File{Name: "a.wav"})
	waitReady(t, a, session)
	_ = a.Play()

	for range 2 {
		backend.Last().Finish()
		ev := nextEvent(t, a)
		if fin, ok := ev.(playback.Finished); !ok || fin.Session != session {
			t.Fatalf("event = %#v, want Finished for %v", ev, session)
		}
		if a.Playing() {
			t.Error("Playing() = true after finish")
		}
		_ = a.Play()
	}
}

func TestAdapter_Release(t *testing.T) {
	t.Parallel()

	a, dec, backend := setup(t)
	dec.Set("a.wav", audiotest.RampBuffer(8000, 1, 1))

	session, _ := a.Load(context.Background(), audio.File{Name: "a.wav"})
	waitReady(t, a, session)
	h := backend.Last()

	a.Release()
	a.Release()

	if !h.IsClosed() {
		t.Error("handle open after Release")
	}
	if !a.Session().IsZero() {
		t.Error("Session() not cleared by Release")
	}
	if err := a.Play(); !errors.Is(err, playback.ErrNothingLoaded) {
		t.Errorf("Play() error = %v, want ErrNothingLoaded", err)
	}
}

func TestAdapter_Close(t *testing.T) {
	t.Parallel()

	dec := audiotest.NewFakeDecoder()
	backend := audiotest.NewFakeBackend()
	dec.Set("a.wav", audiotest.RampBuffer(8000, 1, 1))
	a := playback.NewAdapter(backend, dec, zerolog.Nop())

	session, _ := a.Load(context.Background(), audio.File{Name: "a.wav"})
	waitReady(t, a, session)

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if _, ok := <-a.Events(); ok {
		t.Error("event stream still open after Close")
	}
	if !backend.Closed() {
		t.Error("backend not closed")
	}
	if backend.Live() != 0 {
		t.Error("handle left alive after Close")
	}
	if _, err := a.Load(context.Background(), audio.File{Name: "a.wav"}); !errors.Is(err, playback.ErrClosed) {
		t.Errorf("Load() after Close error = %v, want ErrClosed", err)
	}
}

func TestAdapter_CancelledLoad(t *testing.T) {
	t.Parallel()

	a := playback.NewAdapter(audiotest.NewFakeBackend(), audio.NewRegistry(), zerolog.Nop())
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session, err := a.Load(ctx, audio.File{Name: "a.wav", Data: []byte{1}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ev := nextEvent(t, a)
	failed, ok := ev.(playback.Failed)
	if !ok {
		t.Fatalf("event = %#v, want Failed", ev)
	}
	if failed.Session != session {
		t.Errorf("Failed.Session = %v, want %v", failed.Session, session)
	}
	if !errors.Is(failed.Err, context.Canceled) {
		t.Errorf("Failed.Err = %v, want context.Canceled", failed.Err)
	}
}

// SPDX-License-Identifier: EPL-2.0

package playback_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ik5/audtrim/internal/audiotest"
	"github.com/ik5/audtrim/playback"
	"github.com/rs/zerolog"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(eventTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before timeout")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAuditioner_ReleasesOnFinish(t *testing.T) {
	t.Parallel()

	backend := audiotest.NewFakeBackend()
	au := playback.NewAuditioner(backend, zerolog.Nop())
	defer au.Close()

	if err := au.Audition(audiotest.RampBuffer(8000, 1, 0.25)); err != nil {
		t.Fatalf("Audition() error = %v", err)
	}

	h := backend.Last()
	if !h.Playing() {
		t.Error("audition handle not playing")
	}
	if got := au.Active(); got != 1 {
		t.Errorf("Active() = %d, want 1", got)
	}

	h.Finish()
	waitFor(t, h.IsClosed)
	waitFor(t, func() bool { return au.Active() == 0 })
}

func TestAuditioner_CloseStopsAll(t *testing.T) {
	t.Parallel()

	backend := audiotest.NewFakeBackend()
	au := playback.NewAuditioner(backend, zerolog.Nop())

	for range 3 {
		if err := au.Audition(audiotest.RampBuffer(8000, 2, 0.25)); err != nil {
			t.Fatalf("Audition() error = %v", err)
		}
	}
	if err := au.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if got := backend.Live(); got != 0 {
		t.Errorf("live handles after Close = %d, want 0", got)
	}
	if backend.Closed() {
		t.Error("Auditioner closed the shared backend")
	}
	if err := au.Audition(audiotest.RampBuffer(8000, 1, 0.1)); !errors.Is(err, playback.ErrClosed) {
		t.Errorf("Audition() after Close error = %v, want ErrClosed", err)
	}
}

func TestAuditioner_Errors(t *testing.T) {
	t.Parallel()

	au := playback.NewAuditioner(nil, zerolog.Nop())
	if err := au.Audition(audiotest.RampBuffer(8000, 1, 0.1)); !errors.Is(err, playback.ErrPlaybackUnavailable) {
		t.Errorf("Audition() without backend error = %v, want ErrPlaybackUnavailable", err)
	}

	backend := audiotest.NewFakeBackend()
	backend.FailOpen(errors.New("busy"))
	au = playback.NewAuditioner(backend, zerolog.Nop())
	defer au.Close()
	if err := au.Audition(audiotest.RampBuffer(8000, 1, 0.1)); !errors.Is(err, playback.ErrPlaybackDevice) {
		t.Errorf("Audition() error = %v, want ErrPlaybackDevice", err)
	}
}

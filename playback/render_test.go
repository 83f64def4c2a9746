// SPDX-License-Identifier: EPL-2.0

package playback_test

import (
	"errors"
	"testing"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/internal/audiotest"
	"github.com/ik5/audtrim/playback"
)

func TestRender_SameFormat(t *testing.T) {
	t.Parallel()

	buf := audiotest.RampBuffer(44100, 2, 0.1)
	got, err := playback.Render(buf, 44100, 2)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := buf.Interleaved()
	if len(got) != len(want) {
		t.Fatalf("Render() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Render()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRender_MonoToStereo(t *testing.T) {
	t.Parallel()

	buf := &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0.1, 0.2, 0.3}}}
	got, err := playback.Render(buf, 8000, 2)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := []float32{0.1, 0.1, 0.2, 0.2, 0.3, 0.3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Render()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRender_StereoToMono(t *testing.T) {
	t.Parallel()

	buf := &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0.5, 1}, {0.5, 0}}}
	got, err := playback.Render(buf, 8000, 1)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := []float32{0.5, 0.5}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Render() = %v, want %v", got, want)
	}
}

func TestRender_Resamples(t *testing.T) {
	t.Parallel()

	buf := audiotest.NewBuffer(22050, 1, 22050, audiotest.Sine(22050, 440))
	got, err := playback.Render(buf, 44100, 2)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	frames := len(got) / 2
	if frames < 44096 || frames > 44100 {
		t.Errorf("Render() frames = %d, want about 44100", frames)
	}
}

func TestRender_Invalid(t *testing.T) {
	t.Parallel()

	ragged := &audio.Buffer{SampleRate: 8000, Data: [][]float32{{1}, {}}}
	if _, err := playback.Render(ragged, 8000, 2); !errors.Is(err, audio.ErrChannelMismatch) {
		t.Errorf("Render(ragged) error = %v, want ErrChannelMismatch", err)
	}
	if _, err := playback.Render(audio.NewBuffer(8000, 1, 4), 0, 2); err == nil {
		t.Error("Render(rate 0) error = nil, want error")
	}
}

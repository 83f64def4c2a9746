// SPDX-License-Identifier: EPL-2.0

package audtrim_test

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/ik5/audtrim"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/export"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/internal/audiotest"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	r := audtrim.NewRegistry()
	formats := r.Formats()
	slices.Sort(formats)
	if want := []string{"aiff", "mp3", "ogg", "wav"}; !slices.Equal(formats, want) {
		t.Errorf("Formats() = %v, want %v", formats, want)
	}

	tests := []struct {
		name, mimeType, want string
	}{
		{"take.wav", "", "wav"},
		{"take.mp3", "", "mp3"},
		{"take.ogg", "", "ogg"},
		{"take.aif", "", "aiff"},
		{"upload", "audio/mpeg", "mp3"},
	}
	for _, tt := range tests {
		if _, got, ok := r.Lookup(tt.name, tt.mimeType); !ok || got != tt.want {
			t.Errorf("Lookup(%q, %q) = %q, %v, want %q", tt.name, tt.mimeType, got, ok, tt.want)
		}
	}
}

func TestTrim(t *testing.T) {
	t.Parallel()

	buf := audiotest.RampBuffer(44100, 2, 10)
	rng := audio.NewTimeRange()
	rng.SetStart(20)
	rng.SetEnd(50)

	got := audtrim.Trim(buf, rng)
	if got.Frames() != 132300 {
		t.Errorf("Trim().Frames() = %d, want 132300", got.Frames())
	}
	if !got.Equal(audio.SliceFrames(buf, 88200, 220500)) {
		t.Error("Trim() samples differ from frames [88200, 220500)")
	}

	if full := audtrim.Trim(buf, audio.NewTimeRange()); !full.Equal(buf) {
		t.Error("Trim() with the full range differs from the input")
	}
	if audtrim.Trim(nil, rng) != nil {
		t.Error("Trim(nil) != nil")
	}
}

func wavFile(t *testing.T, name string, buf *audio.Buffer) audio.File {
	t.Helper()

	data, err := wav.Encode(buf, wav.Float32)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return audio.File{Name: name, MIMEType: "audio/wav", Data: data}
}

func TestTrimFile(t *testing.T) {
	t.Parallel()

	src := audiotest.RampBuffer(8000, 2, 2)
	rng := audio.NewTimeRange()
	rng.SetStart(25)
	rng.SetEnd(75)

	artifact, err := audtrim.TrimFile(context.Background(), audtrim.NewRegistry(), wavFile(t, "take.wav", src), rng, nil)
	if err != nil {
		t.Fatalf("TrimFile() error = %v", err)
	}
	if artifact.Frames != 8000 || artifact.Channels != 2 || artifact.SampleRate != 8000 {
		t.Errorf("Artifact = %d frames x %d @ %d Hz, want 8000 x 2 @ 8000 Hz",
			artifact.Frames, artifact.Channels, artifact.SampleRate)
	}

	decoded, err := wav.Decoder{}.Decode(bytes.NewReader(artifact.Data))
	if err != nil {
		t.Fatalf("Decode(artifact) error = %v", err)
	}
	got, err := audio.ReadAll(decoded)
	if err != nil {
		t.Fatalf("ReadAll(artifact) error = %v", err)
	}
	if !got.Equal(audio.SliceFrames(src, 4000, 12000)) {
		t.Error("artifact samples differ from source frames [4000, 12000)")
	}
}

func TestTrimFile_Errors(t *testing.T) {
	t.Parallel()

	dec := audiotest.NewFakeDecoder()
	dec.Set("nil.wav", nil)
	dec.Set("ragged.wav", &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0, 0}, {0}}})

	tests := []struct {
		name string
		dec  audio.FileDecoder
		file audio.File
		want error
	}{
		{"unsupported", audtrim.NewRegistry(), audio.File{Name: "notes.txt", Data: []byte("x")}, audio.ErrUnsupportedFormat},
		{"corrupt", audtrim.NewRegistry(), audio.File{Name: "take.wav", Data: []byte("garbage")}, audio.ErrCorruptData},
		{"no audio", dec, audio.File{Name: "nil.wav"}, audio.ErrCorruptData},
		{"ragged", dec, audio.File{Name: "ragged.wav"}, audio.ErrChannelMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := audtrim.TrimFile(context.Background(), tt.dec, tt.file, audio.NewTimeRange(), export.NewService())
			if !errors.Is(err, tt.want) {
				t.Errorf("TrimFile() error = %v, want %v", err, tt.want)
			}
		})
	}
}

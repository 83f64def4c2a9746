// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"testing"

	"github.com/ik5/audtrim/audio"
)

func TestPeaks(t *testing.T) {
	t.Parallel()

	mono := &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0.1, -0.9, 0.2, 0.3}}}
	stereo := &audio.Buffer{SampleRate: 8000, Data: [][]float32{{0.1, 0.2}, {-0.5, 0.1}}}

	tests := []struct {
		name       string
		buf        *audio.Buffer
		resolution int
		want       []float32
	}{
		{"buckets", mono, 2, []float32{0.9, 0.3}},
		{"one per frame", mono, 4, []float32{0.1, 0.9, 0.2, 0.3}},
		{"more buckets than frames", mono, 8, []float32{0.1, 0.1, 0.9, 0.9, 0.2, 0.2, 0.3, 0.3}},
		{"loudest channel", stereo, 2, []float32{0.5, 0.2}},
		{"single bucket", stereo, 1, []float32{0.5}},
		{"silence", audio.NewBuffer(8000, 1, 0), 3, []float32{0, 0, 0}},
		{"nil buffer", nil, 3, nil},
		{"no resolution", mono, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := audio.Peaks(tt.buf, tt.resolution)
			if len(got) != len(tt.want) {
				t.Fatalf("Peaks() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Peaks()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"

	"github.com/ik5/audtrim/audio"
)

// Render converts buf to interleaved float32 at the device sample rate and
// channel count. Mono input is copied to every device channel. Input with
// more channels than the device is mixed down to mono first.
func Render(buf *audio.Buffer, sampleRate, channels int) ([]float32, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid device format %d Hz x %d", sampleRate, channels)
	}

	out := buf
	if out.SampleRate != sampleRate {
		resampled, err := audio.ResampleBuffer(out, sampleRate)
		if err != nil {
			return nil, err
		}
		out = resampled
	}

	if out.NumChannels() == channels {
		return out.Interleaved(), nil
	}
	if out.NumChannels() > channels {
		mixed, err := audio.Downmix(out)
		if err != nil {
			return nil, err
		}
		out = mixed
	}

	src := out.NumChannels()
	frames := out.Frames()
	samples := make([]float32, frames*channels)
	for f := range frames {
		for c := range channels {
			samples[f*channels+c] = out.Data[c%src][f]
		}
	}
	return samples, nil
}

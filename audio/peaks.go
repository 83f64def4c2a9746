// SPDX-License-Identifier: EPL-2.0

package audio

// Peaks reduces buf to resolution buckets, each holding the largest absolute
// sample of any channel in that span. Waveform renderers draw from it.
func Peaks(buf *Buffer, resolution int) []float32 {
	if buf == nil || resolution <= 0 {
		return nil
	}
	frames := buf.Frames()
	if frames == 0 {
		return make([]float32, resolution)
	}

	peaks := make([]float32, resolution)
	for i := range resolution {
		from := i * frames / resolution
		to := (i + 1) * frames / resolution
		if to == from && from < frames {
			to = from + 1
		}

		var peak float32
		for _, ch := range buf.Data {
			for _, s := range ch[from:to] {
				if s < 0 {
					s = -s
				}
				if s > peak {
					peak = s
				}
			}
		}
		peaks[i] = peak
	}
	return peaks
}

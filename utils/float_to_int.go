// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// pcm16Scale maps [-1,1) onto the full int16 range. Decoders divide by the
// same value, so a decode/encode cycle returns the original integers.
const pcm16Scale = 32768.0

// Float32ToInt16 quantizes x to 16-bit PCM, rounding to the nearest step and
// clamping to [math.MinInt16, math.MaxInt16].
func Float32ToInt16(x float32) int16 {
	v := math.Round(float64(x) * pcm16Scale)
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}

// Int16ToFloat32 is the inverse of Float32ToInt16 for in-range values.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / pcm16Scale
}

// IntToFloat32 normalizes a signed PCM sample of the given bit depth.
// Unknown depths are treated as 16-bit.
func IntToFloat32(v int, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return float32(v) / 128.0
	case 24:
		return float32(v) / 8388608.0
	case 32:
		return float32(float64(v) / 2147483648.0)
	default:
		return float32(v) / pcm16Scale
	}
}

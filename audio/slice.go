// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// FrameIndex converts a position in seconds into a frame index, rounding to
// the nearest frame (halves away from zero).
func FrameIndex(sec float64, sampleRate int) int {
	return int(math.Round(sec * float64(sampleRate)))
}

// Slice copies the frames between startSec and endSec into a new Buffer.
//
// Positions are clamped to [0, duration] and endSec is never allowed before
// startSec, so any input yields a valid result. Frame boundaries are
// round(sec*rate). The result shares no memory with buf and keeps its sample
// rate and channel count. Equal positions give a zero frame buffer.
func Slice(buf *Buffer, startSec, endSec float64) *Buffer {
	if buf == nil {
		return nil
	}

	duration := buf.Seconds()
	startSec = clamp(startSec, 0, duration)
	endSec = clamp(endSec, startSec, duration)

	return SliceFrames(buf, FrameIndex(startSec, buf.SampleRate), FrameIndex(endSec, buf.SampleRate))
}

// SliceFrames copies frames [startFrame, endFrame) into a new Buffer.
// Indices are clamped to the buffer.
func SliceFrames(buf *Buffer, startFrame, endFrame int) *Buffer {
	if buf == nil {
		return nil
	}

	frames := buf.Frames()
	endFrame = max(0, min(endFrame, frames))
	startFrame = max(0, min(startFrame, endFrame))

	out := NewBuffer(buf.SampleRate, buf.NumChannels(), endFrame-startFrame)
	for c := range buf.Data {
		copy(out.Data[c], buf.Data[c][startFrame:endFrame])
	}
	return out
}

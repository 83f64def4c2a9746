// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
)

const (
	// RangeMin is the lowest position of a range control, in percent.
	RangeMin = 0.0
	// RangeMax is the highest position of a range control, in percent.
	RangeMax = 100.0
)

// TimeRange is a selection expressed as percentages of a total duration.
//
// The two ends are linked: SetStart clamps into [0, End] and SetEnd clamps
// into [Start, 100], so Start <= End holds after every call. Out of order
// writes are clamped, never rejected. The zero value is the empty range at 0;
// use NewTimeRange for the full range.
type TimeRange struct {
	start float64
	end   float64
}

// NewTimeRange returns the full range {0, 100}.
func NewTimeRange() TimeRange {
	return TimeRange{start: RangeMin, end: RangeMax}
}

// Start returns the start position in percent.
func (r TimeRange) Start() float64 { return r.start }

// End returns the end position in percent.
func (r TimeRange) End() float64 { return r.end }

// SetStart moves the start control. v is clamped into [0, End].
func (r *TimeRange) SetStart(v float64) {
	r.start = clamp(v, RangeMin, r.end)
}

// SetEnd moves the end control. v is clamped into [Start, 100].
func (r *TimeRange) SetEnd(v float64) {
	r.end = clamp(v, r.start, RangeMax)
}

// Reset restores the full range.
func (r *TimeRange) Reset() {
	r.start = RangeMin
	r.end = RangeMax
}

// IsFull reports whether the range covers the whole duration.
func (r TimeRange) IsFull() bool {
	return r.start == RangeMin && r.end == RangeMax
}

// Seconds maps the range onto a duration given in seconds.
func (r TimeRange) Seconds(duration float64) (start, end float64) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, 0
	}
	return r.start / RangeMax * duration, r.end / RangeMax * duration
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%.2f%%, %.2f%%]", r.start, r.end)
}

// clamp limits v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrUnsupportedFormat indicates no decoder can handle the input.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrCorruptData indicates the input matched a format but could not be decoded.
	ErrCorruptData = errors.New("corrupt audio data")

	// ErrChannelMismatch indicates channels of a Buffer differ in length.
	ErrChannelMismatch = errors.New("channels have different frame counts")
)

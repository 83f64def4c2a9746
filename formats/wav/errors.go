// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"

	"github.com/ik5/audtrim/audio"
)

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrUnsupportedWavChunks = errors.New("unsupported WAV chunks")

	// ErrUnsupportedEncoding is returned for compressed WAV payloads.
	ErrUnsupportedEncoding = fmt.Errorf("WAV encoding: %w", audio.ErrUnsupportedFormat)

	// ErrUnsupportedBitDepth is returned for sample sizes other than 8/16/24/32 bit.
	ErrUnsupportedBitDepth = fmt.Errorf("WAV bit depth: %w", audio.ErrUnsupportedFormat)

	// ErrUnknownSampleFormat is returned by Encode for an invalid SampleFormat.
	ErrUnknownSampleFormat = errors.New("unknown sample format")
)

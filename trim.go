// SPDX-License-Identifier: EPL-2.0

package audtrim

import (
	"context"
	"fmt"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/export"
)

// Trim returns a copy of the part of buf covered by rng.
func Trim(buf *audio.Buffer, rng audio.TimeRange) *audio.Buffer {
	if buf == nil {
		return nil
	}
	start, end := rng.Seconds(buf.Seconds())
	return audio.Slice(buf, start, end)
}

// TrimFile decodes f with dec, cuts rng out of it and exports the result.
// A nil svc exports with the default settings.
//
// This is the non-interactive pipeline: no playback and no state is kept
// between calls. Use selection.Controller when a user moves the range
// while listening.
func TrimFile(ctx context.Context, dec audio.FileDecoder, f audio.File, rng audio.TimeRange, svc *export.Service) (*export.Artifact, error) {
	if svc == nil {
		svc = export.NewService()
	}

	buf, err := dec.DecodeFile(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	if buf == nil {
		return nil, fmt.Errorf("decode %s: %w: no audio", f.Name, audio.ErrCorruptData)
	}
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", f.Name, audio.ErrCorruptData, err)
	}

	return svc.Export(ctx, Trim(buf, rng), f.Name)
}

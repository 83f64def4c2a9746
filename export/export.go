// SPDX-License-Identifier: EPL-2.0

package export

import (
	"context"
	"fmt"
	"time"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/rs/zerolog"
)

const (
	// DefaultFilename is used when no NamingFunc is configured.
	DefaultFilename = "trimmed-audio.wav"
	// MIMEType of every artifact.
	MIMEType = "audio/wav"
)

// Artifact is an exported file ready for download.
type Artifact struct {
	Data       []byte
	Filename   string
	MIMEType   string
	Format     wav.SampleFormat
	SampleRate int
	Channels   int
	Frames     int
	Duration   time.Duration
}

// NamingFunc picks the artifact file name from the source file name.
type NamingFunc func(source string) string

// Sink delivers an artifact, for example by writing it to disk.
type Sink interface {
	Deliver(ctx context.Context, a *Artifact) error
}

// Auditioner plays an exported buffer. playback.Auditioner implements it.
type Auditioner interface {
	Audition(buf *audio.Buffer) error
}

// Service turns buffers into WAV artifacts.
type Service struct {
	format   wav.SampleFormat
	naming   NamingFunc
	mono     bool
	sink     Sink
	audition Auditioner
	log      zerolog.Logger
}

type Option func(*Service)

// WithFormat selects the WAV sample format. The default is wav.Float32.
func WithFormat(f wav.SampleFormat) Option {
	return func(s *Service) { s.format = f }
}

// WithNaming sets the naming policy.
func WithNaming(fn NamingFunc) Option {
	return func(s *Service) { s.naming = fn }
}

// WithFilename always names artifacts name.
func WithFilename(name string) Option {
	return WithNaming(func(string) string { return name })
}

// WithMono mixes every export down to one channel.
func WithMono(mono bool) Option {
	return func(s *Service) { s.mono = mono }
}

// WithSink delivers every artifact to sink.
func WithSink(sink Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithAuditioner plays every export after it was produced.
func WithAuditioner(a Auditioner) Option {
	return func(s *Service) { s.audition = a }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(opts ...Option) *Service {
	s := &Service{
		format: wav.Float32,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "export").Logger()
	return s
}

// Filename returns the artifact name for a source file.
func (s *Service) Filename(source string) string {
	if s.naming == nil {
		return DefaultFilename
	}
	if name := s.naming(source); name != "" {
		return name
	}
	return DefaultFilename
}

// Export encodes buf, delivers it to the sink and starts an audition when
// configured. source is the name of the file buf was cut from. Audition
// failures are logged and never fail the export.
func (s *Service) Export(ctx context.Context, buf *audio.Buffer, source string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailure, err)
	}
	if buf == nil {
		return nil, fmt.Errorf("%w: no audio", ErrExportFailure)
	}

	out := buf
	if s.mono && buf.NumChannels() > 1 {
		mixed, err := audio.Downmix(buf)
		if err != nil {
			return nil, fmt.Errorf("%w: downmix: %w", ErrExportFailure, err)
		}
		out = mixed
	}

	data, err := wav.Encode(out, s.format)
	if err != nil {
		s.log.Error().Err(err).Msg("encode failed")
		return nil, fmt.Errorf("%w: %w", ErrExportFailure, err)
	}

	artifact := &Artifact{
		Data:       data,
		Filename:   s.Filename(source),
		MIMEType:   MIMEType,
		Format:     s.format,
		SampleRate: out.SampleRate,
		Channels:   out.NumChannels(),
		Frames:     out.Frames(),
		Duration:   out.Duration(),
	}

	if s.sink != nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExportFailure, err)
		}
		if err := s.sink.Deliver(ctx, artifact); err != nil {
			s.log.Error().Err(err).Str("filename", artifact.Filename).Msg("delivery failed")
			return nil, fmt.Errorf("%w: deliver %s: %w", ErrExportFailure, artifact.Filename, err)
		}
	}

	s.log.Debug().
		Str("filename", artifact.Filename).
		Str("format", s.format.String()).
		Int("frames", artifact.Frames).
		Int("bytes", len(data)).
		Msg("exported")

	// a cancelled export keeps what was delivered but stays silent
	if s.audition != nil && ctx.Err() == nil {
		if err := s.audition.Audition(out); err != nil {
			s.log.Warn().Err(err).Msg("audition failed")
		}
	}

	return artifact, nil
}

// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ik5/audtrim/export"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/selection"
	"github.com/rs/zerolog"
)

// Playback backends.
const (
	BackendOto   = "oto"
	BackendMalgo = "malgo"
	BackendNone  = "none"
)

// Environment overrides, applied after the file is read.
const (
	EnvLogLevel = "AUDTRIM_LOG_LEVEL"
	EnvBackend  = "AUDTRIM_BACKEND"
	EnvOutput   = "AUDTRIM_OUTPUT_DIR"
)

// Export configures how trimmed audio is written.
type Export struct {
	Format    string `toml:"format"`     // float32 or pcm16
	Filename  string `toml:"filename"`   // template, see export.TemplateNaming
	OutputDir string `toml:"output_dir"` // empty keeps artifacts in memory
	Mono      bool   `toml:"mono"`
	Audition  bool   `toml:"audition"` // play every export after writing it
}

// Validate checks the export section.
func (e *Export) Validate() error {
	if _, err := wav.ParseSampleFormat(e.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if strings.ContainsAny(e.Filename, `/\`) {
		return fmt.Errorf("export.filename %q must not contain a path", e.Filename)
	}
	return nil
}

// Playback configures the audio device.
type Playback struct {
	Backend    string `toml:"backend"`
	SampleRate int    `toml:"sample_rate"`
	Channels   int    `toml:"channels"`
}

// Validate checks the playback section.
func (p *Playback) Validate() error {
	switch p.Backend {
	case BackendOto, BackendMalgo, BackendNone:
	default:
		return fmt.Errorf("playback.backend %q must be one of oto, malgo, none", p.Backend)
	}
	if p.SampleRate < 8000 || p.SampleRate > 192000 {
		return fmt.Errorf("playback.sample_rate %d out of range [8000, 192000]", p.SampleRate)
	}
	if p.Channels < 1 || p.Channels > 8 {
		return fmt.Errorf("playback.channels %d out of range [1, 8]", p.Channels)
	}
	return nil
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Config holds the complete audtrim configuration.
type Config struct {
	Autoplay bool     `toml:"autoplay"`
	Export   Export   `toml:"export"`
	Playback Playback `toml:"playback"`
	Log      Log      `toml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Export: Export{
			Format: wav.Float32.String(),
		},
		Playback: Playback{
			Backend:    BackendOto,
			SampleRate: 44100,
			Channels:   2,
		},
		Log: Log{
			Level: zerolog.InfoLevel.String(),
		},
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Playback.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvBackend); v != "" {
		c.Playback.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Export.OutputDir = v
	}
}

// Parse decodes TOML on top of the defaults, applies the environment and
// validates the result.
func Parse(data string, log zerolog.Logger) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse TOML: %w", ErrInvalidConfig, err)
	}
	for _, key := range md.Undecoded() {
		log.Warn().Str("key", key.String()).Msg("unknown configuration key")
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and validates configuration from a TOML file.
func Load(path string, log zerolog.Logger) (*Config, error) {
	log.Debug().Str("path", path).Msg("loading configuration file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(string(data), log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().
		Str("backend", cfg.Playback.Backend).
		Str("format", cfg.Export.Format).
		Msg("configuration loaded")
	return cfg, nil
}

// Level returns the configured log level, Info when it does not parse.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// SampleFormat returns the export sample format.
func (e Export) SampleFormat() wav.SampleFormat {
	f, err := wav.ParseSampleFormat(e.Format)
	if err != nil {
		return wav.Float32
	}
	return f
}

// Options returns the export.Service options for this section. Auditioning
// needs a playback device and is wired by the caller.
func (e Export) Options(log zerolog.Logger) []export.Option {
	opts := []export.Option{
		export.WithFormat(e.SampleFormat()),
		export.WithMono(e.Mono),
		export.WithLogger(log),
	}
	if e.Filename != "" {
		opts = append(opts, export.WithNaming(export.TemplateNaming(e.Filename)))
	}
	if e.OutputDir != "" {
		opts = append(opts, export.WithSink(export.DirSink{Dir: filepath.Clean(e.OutputDir)}))
	}
	return opts
}

// ControllerOptions returns the selection.Controller options.
func (c *Config) ControllerOptions(log zerolog.Logger) []selection.Option {
	return []selection.Option{
		selection.WithAutoplay(c.Autoplay),
		selection.WithLogger(log),
	}
}

// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Sized is implemented by sources that know their length in frames before
// they are read. The value is a hint; zero means unknown.
type Sized interface {
	Frames() int
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// File is a user supplied audio file. The bytes are its identity and are
// never modified once a File has been handed to the library.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Ext returns the lower cased file extension without the leading dot.
func (f File) Ext() string {
	ext := strings.ToLower(filepath.Ext(f.Name))
	return strings.TrimPrefix(ext, ".")
}

// FileDecoder turns a whole File into decoded audio.
type FileDecoder interface {
	DecodeFile(ctx context.Context, f File) (*Buffer, error)
}

// mimeFormats maps the MIME types browsers and file pickers report to the
// registry format keys.
var mimeFormats = map[string]string{
	"audio/wav":      "wav",
	"audio/wave":     "wav",
	"audio/x-wav":    "wav",
	"audio/vnd.wave": "wav",
	"audio/mpeg":     "mp3",
	"audio/mp3":      "mp3",
	"audio/ogg":      "ogg",
	"audio/vorbis":   "ogg",
	"audio/aiff":     "aiff",
	"audio/x-aiff":   "aiff",
}

// extFormats maps file extensions to registry format keys when they differ.
var extFormats = map[string]string{
	"wave": "wav",
	"oga":  "ogg",
	"aif":  "aiff",
	"aifc": "aiff",
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats returns the registered format keys.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	formats := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		formats = append(formats, k)
	}
	return formats
}

// Lookup finds a decoder for a file, trying the MIME type first and then
// the file name extension.
func (r *Registry) Lookup(name, mimeType string) (Decoder, string, bool) {
	if mimeType != "" {
		mt := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
		if format, ok := mimeFormats[mt]; ok {
			if d, ok := r.Get(format); ok {
				return d, format, true
			}
		}
	}

	ext := File{Name: name}.Ext()
	if ext == "" {
		return nil, "", false
	}
	if format, ok := extFormats[ext]; ok {
		ext = format
	}
	d, ok := r.Get(ext)
	if !ok {
		return nil, "", false
	}
	return d, ext, true
}

// DecodeFile decodes the whole file into memory. A cancelled ctx yields its
// error wrapped with the file name.
func (r *Registry) DecodeFile(ctx context.Context, f File) (*Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("decode %q: %w", f.Name, err)
	}

	dec, format, ok := r.Lookup(f.Name, f.MIMEType)
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, f.Name, f.MIMEType)
	}
	if len(f.Data) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrCorruptData, f.Name)
	}

	src, err := dec.Decode(bytes.NewReader(f.Data))
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptData, format, err)
	}
	defer src.Close()

	buf, err := ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptData, format, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("decode %q: %w", f.Name, err)
	}
	return buf, nil
}

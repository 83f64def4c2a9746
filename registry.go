// SPDX-License-Identifier: EPL-2.0

package audtrim

import (
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/formats/aiff"
	"github.com/ik5/audtrim/formats/mp3"
	"github.com/ik5/audtrim/formats/vorbis"
	"github.com/ik5/audtrim/formats/wav"
)

// NewRegistry returns a registry with the wav, mp3, ogg and aiff decoders.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	return r
}

// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"log"

	"github.com/ik5/audtrim/audio"
)

// ExampleDecoder_Decode decodes four signed 8-bit samples.
func ExampleDecoder_Decode() {
	data := buildAIFF(8000, 1, 8, []byte{0x40, 0xC0, 0xFF, 0x00})

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	buf, err := audio.ReadAll(src)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(src.SampleRate(), src.Channels(), buf.Data[0])
	// Output: 8000 1 [0.5 -0.5 -0.0078125 0]
}

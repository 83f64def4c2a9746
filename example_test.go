// SPDX-License-Identifier: EPL-2.0

package audtrim_test

import (
	"context"
	"fmt"

	"github.com/ik5/audtrim"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/export"
	"github.com/ik5/audtrim/formats/wav"
)

func ExampleTrimFile() {
	// ten seconds of silence as a 16-bit WAV file
	data, err := wav.Encode(audio.NewBuffer(8000, 2, 80000), wav.PCM16)
	if err != nil {
		fmt.Println("encode error:", err)
		return
	}
	file := audio.File{Name: "take.wav", Data: data}

	rng := audio.NewTimeRange()
	rng.SetStart(20)
	rng.SetEnd(50)

	svc := export.NewService(export.WithFormat(wav.PCM16))
	artifact, err := audtrim.TrimFile(context.Background(), audtrim.NewRegistry(), file, rng, svc)
	if err != nil {
		fmt.Println("trim error:", err)
		return
	}

	fmt.Printf("%s: %d frames, %v, %d bytes\n", artifact.Filename, artifact.Frames, artifact.Duration, len(artifact.Data))
	// Output:
	// trimmed-audio.wav: 24000 frames, 3s, 96044 bytes
}

func ExampleTrim() {
	buf := audio.NewBuffer(44100, 2, 10*44100)

	rng := audio.NewTimeRange()
	rng.SetStart(20)
	rng.SetEnd(50)

	fmt.Println(audtrim.Trim(buf, rng).Frames())
	// Output:
	// 132300
}

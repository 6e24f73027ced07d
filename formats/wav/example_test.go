// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/vorbisfile"
	"github.com/ik5/vorbisfile/formats/vorbis"
	"github.com/ik5/vorbisfile/formats/wav"
	"github.com/ik5/vorbisfile/internal/codectest"
)

// Example converts an Ogg stream to a WAV file.
func Example() {
	data := codectest.Build(codectest.Link{Serial: 1, Samples: 4000, Channels: 2})
	dec := vorbis.Decoder{Options: []vorbisfile.Option{vorbisfile.WithCodec(codectest.Codec)}}
	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	dir, err := os.MkdirTemp("", "wav-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	out, err := os.Create(filepath.Join(dir, "out.wav"))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer out.Close()

	frames, err := wav.Encode(out, src)
	if err != nil {
		fmt.Println(err)
		return
	}
	info, _ := out.Stat()
	fmt.Println("frames:", frames, "bytes:", info.Size())

	// Output:
	// frames: 4000 bytes: 16044
}

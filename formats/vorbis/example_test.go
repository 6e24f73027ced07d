// SPDX-License-Identifier: EPL-2.0

package vorbis_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/vorbisfile"
	"github.com/ik5/vorbisfile/audio"
	"github.com/ik5/vorbisfile/formats/vorbis"
	"github.com/ik5/vorbisfile/internal/codectest"
)

// Example decodes a chained stream whose second link changes format.
func Example() {
	data := codectest.Build(
		codectest.Link{Serial: 1, Samples: 800},
		codectest.Link{Serial: 2, Samples: 1600, Channels: 2, SampleRate: 16000},
	)

	dec := vorbis.Decoder{Options: []vorbisfile.Option{vorbisfile.WithCodec(codectest.Codec)}}
	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	fmt.Printf("%d Hz, %d channels\n", src.SampleRate(), src.Channels())

	buf := make([]float32, src.BufSize())
	var values int
	for {
		n, err := src.ReadSamples(buf)
		values += n
		if errors.Is(err, audio.ErrFormatChanged) {
			fmt.Printf("%d values, then %d Hz, %d channels\n", values, src.SampleRate(), src.Channels())
			values = 0
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Println(err)
			return
		}
	}
	fmt.Printf("%d values\n", values)

	// Output:
	// 8000 Hz, 1 channels
	// 800 values, then 16000 Hz, 2 channels
	// 3200 values
}

// ExampleNewSource starts decoding ten milliseconds into a stream.
func ExampleNewSource() {
	data := codectest.Build(codectest.Link{Serial: 1, Samples: 8000})
	f, err := vorbisfile.OpenMemory(data, vorbisfile.WithCodec(codectest.Codec))
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := f.SeekTime(0.01); err != nil {
		fmt.Println(err)
		return
	}

	src := vorbis.NewSource(f)
	defer src.Close()

	buf := make([]float32, 4)
	n, _ := src.ReadSamples(buf)
	fmt.Println(n, buf[0] == codectest.Value(80, 0))

	// Output:
	// 4 true
}

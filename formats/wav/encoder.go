// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/vorbisfile/audio"
	"github.com/ik5/vorbisfile/utils"
)

const (
	bitDepth  = 16
	formatPCM = 1

	defaultBufSize = 4096
)

// Encoder writes interleaved float samples as 16-bit PCM WAV.
type Encoder struct {
	enc      *gowav.Encoder
	buf      *goaudio.IntBuffer
	channels int
	frames   int64
}

// NewEncoder starts a WAV file on w. The header is completed by Close.
func NewEncoder(w io.WriteSeeker, sampleRate, channels int) (*Encoder, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrInvalidFormat, sampleRate, channels)
	}
	return &Encoder{
		enc: gowav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM),
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: bitDepth,
		},
		channels: channels,
	}, nil
}

// Write encodes samples in [-1, 1]; values outside are saturated.
func (e *Encoder) Write(samples []float32) error {
	if len(samples)%e.channels != 0 {
		return fmt.Errorf("%w: %d samples, %d channels", ErrPartialFrame, len(samples), e.channels)
	}
	if len(samples) == 0 {
		return nil
	}
	e.buf.Data = e.buf.Data[:0]
	for _, v := range samples {
		e.buf.Data = append(e.buf.Data, int(utils.Float32ToInt16(v)))
	}
	if err := e.enc.Write(e.buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	e.frames += int64(len(samples) / e.channels)
	return nil
}

// Frames returns the number of frames written so far.
func (e *Encoder) Frames() int64 { return e.frames }

// Close writes the final chunk sizes. It does not close the underlying
// writer.
func (e *Encoder) Close() error {
	if e.frames == 0 {
		// headers are written with the first buffer
		e.buf.Data = e.buf.Data[:0]
		if err := e.enc.Write(e.buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// Encode writes src to w until io.EOF and returns the number of frames
// written. If src changes format, the samples before the change are kept
// and ErrMixedFormat is returned.
func Encode(w io.WriteSeeker, src audio.Source) (int64, error) {
	enc, err := NewEncoder(w, src.SampleRate(), src.Channels())
	if err != nil {
		return 0, err
	}

	size := src.BufSize()
	if size <= 0 {
		size = defaultBufSize
	}
	buf := make([]float32, max(size/enc.channels, 1)*enc.channels)

	err = copySamples(enc, src, buf)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	return enc.frames, err
}

func copySamples(enc *Encoder, src audio.Source, buf []float32) error {
	for {
		n, err := src.ReadSamples(buf)
		if werr := enc.Write(buf[:n]); werr != nil {
			return werr
		}
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, audio.ErrFormatChanged):
			return fmt.Errorf("%w: %d Hz, %d channels after %d frames",
				ErrMixedFormat, src.SampleRate(), src.Channels(), enc.frames)
		case err != nil:
			return err
		}
	}
}

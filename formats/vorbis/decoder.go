// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/vorbisfile"
	"github.com/ik5/vorbisfile/audio"
	"github.com/ik5/vorbisfile/source"
)

const defaultBufSize = 4096

// reader adapts a vorbisfile.File to audio.Source.
type reader struct {
	f          *vorbisfile.File
	link       int
	sampleRate int
	channels   int
	// interleaved samples of a link whose format differs from the previous one
	pending []float32
}

// NewSource returns an audio.Source reading f from its current position.
// Closing the source closes f.
func NewSource(f *vorbisfile.File) audio.Source {
	return &reader{
		f:          f,
		link:       -1,
		sampleRate: f.SampleRate(),
		channels:   f.Channels(),
	}
}

func (s *reader) SampleRate() int { return s.sampleRate }
func (s *reader) Channels() int   { return s.channels }
func (s *reader) BufSize() int    { return defaultBufSize / max(s.channels, 1) * max(s.channels, 1) }
func (s *reader) Close() error    { return s.f.Close() }

func (s *reader) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	ch := max(s.channels, 1)
	if len(dst) < ch {
		return 0, fmt.Errorf("%w: %d values for %d channels", audio.ErrInvalidDstSize, len(dst), ch)
	}

	if len(s.pending) > 0 {
		n := copy(dst[:len(dst)/ch*ch], s.pending)
		s.pending = s.pending[n:]
		return n, nil
	}

	for {
		pcm, link, err := s.f.ReadFloat(len(dst) / ch)
		if errors.Is(err, vorbisfile.ErrHole) {
			continue
		}
		if err != nil {
			return 0, err
		}

		if link != s.link {
			s.link = link
			rate := s.f.SampleRate()
			if len(pcm) != s.channels || rate != s.sampleRate {
				s.channels = len(pcm)
				s.sampleRate = rate
				s.pending = interleave(s.pending[:0], pcm)
				return 0, audio.ErrFormatChanged
			}
		}
		return len(interleave(dst[:0], pcm)), nil
	}
}

func interleave(dst []float32, pcm [][]float32) []float32 {
	if len(pcm) == 0 {
		return dst
	}
	for i := range pcm[0] {
		for _, c := range pcm {
			dst = append(dst, c[i])
		}
	}
	return dst
}

// Decoder decodes Ogg Vorbis streams, including chained streams whose links
// differ in format. Seekable readers are indexed up front; other readers are
// decoded in streaming mode.
type Decoder struct {
	Options []vorbisfile.Option
}

func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	var src source.Source
	if rs, ok := r.(io.ReadSeeker); ok {
		// the caller owns r
		src = source.NewReadSeeker(struct{ io.ReadSeeker }{rs})
	} else {
		src = source.NewStream(struct{ io.Reader }{r})
	}

	f, err := vorbisfile.Open(src, d.Options...)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return NewSource(f), nil
}

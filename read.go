// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import (
	"fmt"

	"github.com/ik5/vorbisfile/utils"
)

// fill decodes until samples are pending.
func (f *File) fill() error {
	if err := f.checkOpened(); err != nil {
		return err
	}
	for f.pending() == 0 {
		if err := f.fetchAndProcess(true); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) consume(n int) {
	f.session.Consume(n)
	if f.pcm >= 0 {
		f.pcm += int64(n)
	}
}

// ReadPacked decodes interleaved little-endian 16-bit PCM into dst and
// returns the number of bytes written and the index of the link the
// samples belong to. Samples are rounded to nearest and saturated; unsigned
// samples are offset by 32768. At the end of the stream it returns io.EOF.
// ErrHole reports lost data; reading may continue.
func (f *File) ReadPacked(dst []byte, signed bool) (n, link int, err error) {
	if len(dst) < 2 {
		return 0, f.cur, fmt.Errorf("%w: buffer of %d bytes", ErrInvalidArgument, len(dst))
	}
	if err := f.fill(); err != nil {
		return 0, f.cur, err
	}
	ch := f.session.Channels()
	frames := len(dst) / (2 * ch)
	if frames == 0 {
		return 0, f.cur, fmt.Errorf("%w: buffer of %d bytes holds no frame of %d channels", ErrInvalidArgument, len(dst), ch)
	}
	pcm := f.session.PCM(frames)
	n = utils.PackInt16(dst, pcm, signed)
	f.consume(len(pcm) / ch)
	return n, f.cur, nil
}

// ReadFloat decodes at most count samples per channel and returns them as
// one slice per channel, valid until the next call, with the index of the
// link they belong to.
func (f *File) ReadFloat(count int) (pcm [][]float32, link int, err error) {
	if count <= 0 {
		return nil, f.cur, fmt.Errorf("%w: %d samples", ErrInvalidArgument, count)
	}
	if err := f.fill(); err != nil {
		return nil, f.cur, err
	}
	ch := f.session.Channels()
	src := f.session.PCM(count)
	frames := len(src) / ch

	if cap(f.planar) < ch {
		f.planar = make([][]float32, ch)
	}
	f.planar = f.planar[:ch]
	for c := range f.planar {
		f.planar[c] = f.planar[c][:0]
		for i := range frames {
			f.planar[c] = append(f.planar[c], src[i*ch+c])
		}
	}
	f.consume(frames)
	return f.planar, f.cur, nil
}

// ReadSamples fills dst with interleaved samples of the current link and
// returns the number of values written, a multiple of Channels.
func (f *File) ReadSamples(dst []float32) (int, error) {
	if err := f.fill(); err != nil {
		return 0, err
	}
	ch := f.session.Channels()
	if len(dst) < ch {
		return 0, fmt.Errorf("%w: buffer of %d values holds no frame of %d channels", ErrInvalidArgument, len(dst), ch)
	}
	n := copy(dst, f.session.PCM(len(dst)/ch))
	f.consume(n / ch)
	return n, nil
}

// Channels returns the channel count of the current link.
func (f *File) Channels() int {
	if len(f.links) == 0 {
		return 0
	}
	if prof := f.links[f.cur].Profile; prof != nil {
		return prof.Channels
	}
	return 0
}

// SampleRate returns the sample rate of the current link.
func (f *File) SampleRate() int {
	if len(f.links) == 0 {
		return 0
	}
	if prof := f.links[f.cur].Profile; prof != nil {
		return prof.SampleRate
	}
	return 0
}

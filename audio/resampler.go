// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/vorbisfile/utils"
)

// Resampler converts a source to a fixed sample rate with cubic
// interpolation, keeping the channel count. When the source's sample rate
// changes the Resampler restarts at the new ratio without reporting it; a
// change of channel count is passed on as ErrFormatChanged.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// frames[1] and frames[2] bracket the output position pos in [0, 1).
	// has is false for frames repeated past the end of a segment.
	frames [4][]float32
	has    [4]bool
	pos    float64
	primed bool

	raw []float32
	buf []float32 // unread source samples start at buf[in]
	in  int
	end error // io.EOF, ErrFormatChanged or a read error, once buf drains

	// one-pole low-pass applied to the source when downsampling
	filter bool
	state  []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	r := &Resampler{
		src:     src,
		dstRate: dstRate,
		raw:     make([]float32, 4096),
	}
	r.reset()
	return r
}

// reset starts a segment in the source's current format.
func (r *Resampler) reset() {
	r.channels = r.src.Channels()
	r.ratio = float64(r.src.SampleRate()) / float64(r.dstRate)
	r.filter = r.ratio > 1
	for i := range r.frames {
		r.frames[i] = make([]float32, r.channels)
		r.has[i] = false
	}
	r.state = make([]float32, r.channels)
	r.pos = 0
	r.primed = false
	r.buf, r.in, r.end = nil, 0, nil
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func segmentEnd(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, ErrFormatChanged)
}

// next returns the next source frame.
func (r *Resampler) next() ([]float32, error) {
	for r.in+r.channels > len(r.buf) {
		if r.end != nil {
			return nil, r.end
		}
		n, err := r.src.ReadSamples(r.raw[:len(r.raw)/r.channels*r.channels])
		r.buf, r.in = r.raw[:n], 0
		if err != nil {
			r.end = err
		}
	}
	f := r.buf[r.in : r.in+r.channels]
	r.in += r.channels
	return f, nil
}

func (r *Resampler) load(i int, f []float32) {
	copy(r.frames[i], f)
	r.has[i] = true
	if !r.filter {
		return
	}
	const alpha = 0.5
	for c, v := range r.frames[i] {
		v = alpha*v + (1-alpha)*r.state[c]
		r.frames[i][c] = v
		r.state[c] = v
	}
}

func (r *Resampler) prime() error {
	f, err := r.next()
	if err != nil {
		return err
	}
	// start the filter at the first sample to avoid a warm-up transient
	copy(r.state, f)
	r.load(0, f)
	r.load(1, f)
	for i := 2; i < 4; i++ {
		f, err := r.next()
		switch {
		case err == nil:
			r.load(i, f)
		case segmentEnd(err):
			copy(r.frames[i], r.frames[i-1])
			r.has[i] = false
		default:
			return err
		}
	}
	r.primed = true
	return nil
}

func (r *Resampler) advance() error {
	r.frames[0], r.frames[1], r.frames[2], r.frames[3] = r.frames[1], r.frames[2], r.frames[3], r.frames[0]
	r.has[0], r.has[1], r.has[2] = r.has[1], r.has[2], r.has[3]
	f, err := r.next()
	switch {
	case err == nil:
		r.load(3, f)
	case segmentEnd(err):
		copy(r.frames[3], r.frames[2])
		r.has[3] = false
	default:
		return err
	}
	return nil
}

// ReadSamples produces samples at the destination rate. len(dst) must be a
// multiple of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	for {
		n, err := r.read(dst)
		if n > 0 || !errors.Is(err, ErrFormatChanged) {
			if errors.Is(err, ErrFormatChanged) {
				// reported on the next call, when nothing is returned
				err = nil
			}
			return n, err
		}
		channels := r.channels
		r.reset()
		if r.channels != channels {
			return 0, ErrFormatChanged
		}
	}
}

func (r *Resampler) read(dst []float32) (int, error) {
	ch := r.channels
	if len(dst)%ch != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written, err
			}
		}
		if !r.has[2] {
			return written, r.end
		}
		utils.CubicFrame(dst[written:written+ch], r.frames[0], r.frames[1], r.frames[2], r.frames[3], float32(r.pos))
		written += ch
		r.pos += r.ratio
	}
	return written, nil
}

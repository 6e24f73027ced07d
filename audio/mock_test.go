// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
)

// segment is a run of samples with one format.
type segment struct {
	rate, channels, frames int
	wave                   func(frame, channel int) float32
}

// mockSource plays segments in order and reports ErrFormatChanged between
// segments whose formats differ.
type mockSource struct {
	segs []segment
	cur  int
	pos  int // frames of segs[cur] returned
}

func newMockSource(segs ...segment) *mockSource {
	return &mockSource{segs: segs}
}

func constant(v float32) func(int, int) float32 {
	return func(int, int) float32 { return v }
}

// ramp is frame/1000 plus channel/10.
func ramp(frame, channel int) float32 {
	return float32(frame)/1000 + float32(channel)/10
}

func (m *mockSource) seg() segment {
	return m.segs[min(m.cur, len(m.segs)-1)]
}

func (m *mockSource) SampleRate() int { return m.seg().rate }
func (m *mockSource) Channels() int   { return m.seg().channels }
func (m *mockSource) BufSize() int    { return 4096 }
func (m *mockSource) Close() error    { return nil }

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	for m.cur < len(m.segs) && m.pos == m.segs[m.cur].frames {
		prev := m.segs[m.cur]
		m.cur++
		m.pos = 0
		if m.cur < len(m.segs) && (m.segs[m.cur].rate != prev.rate || m.segs[m.cur].channels != prev.channels) {
			return 0, ErrFormatChanged
		}
	}
	if m.cur == len(m.segs) {
		return 0, io.EOF
	}

	s := m.segs[m.cur]
	frames := min(len(dst)/s.channels, s.frames-m.pos)
	for f := range frames {
		for c := range s.channels {
			dst[f*s.channels+c] = s.wave(m.pos+f, c)
		}
	}
	m.pos += frames
	return frames * s.channels, nil
}

// drain reads src to the end with a buffer of size values and returns the
// samples and the number of format changes seen.
func drain(src Source, size int) ([]float32, int, error) {
	var (
		out     []float32
		changes int
		buf     = make([]float32, size)
	)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		switch {
		case err == io.EOF:
			return out, changes, nil
		case err == ErrFormatChanged:
			changes++
		case err != nil:
			return out, changes, err
		}
	}
}

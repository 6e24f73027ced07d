// SPDX-License-Identifier: EPL-2.0

package vorbisfile_test

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/vorbisfile"
)

// reference decodes path with oggvorbis and returns its interleaved samples
// and channel count.
func reference(t *testing.T, path string) ([]float32, int) {
	t.Helper()

	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		t.Fatalf("oggvorbis.NewReader() error = %v", err)
	}
	var (
		out []float32
		buf = make([]float32, 4096)
	)
	for {
		n, err := dec.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, dec.Channels()
		}
		if err != nil {
			t.Fatalf("oggvorbis Read() error = %v", err)
		}
	}
}

// sameSamples reports the first index where got differs from want. oggvorbis
// clamps its output to [-1, 1].
func sameSamples(got, want []float32) (int, bool) {
	for i := range min(len(got), len(want)) {
		g := max(min(got[i], 1), -1)
		if math.Abs(float64(g-want[i])) > 1e-5 {
			return i, false
		}
	}
	return 0, true
}

func TestVorbis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		rate     int
	}{
		{"test.ogg", 1, 44100},
		// no EOS page, audio packets share the page of the last header
		{"eof_issue.ogg", 2, 44100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join("testdata", tt.name)
			want, ch := reference(t, path)
			frames := int64(len(want) / ch)

			f, err := vorbisfile.OpenFile(path)
			if err != nil {
				t.Fatalf("OpenFile() error = %v", err)
			}
			defer f.Close()

			if f.Channels() != ch || f.Channels() != tt.channels || f.SampleRate() != tt.rate {
				t.Errorf("format = %d Hz %d channels, want %d Hz %d channels",
					f.SampleRate(), f.Channels(), tt.rate, tt.channels)
			}
			total, err := f.TotalPcmSamples(vorbisfile.Whole)
			if err != nil {
				t.Fatal(err)
			}
			if total != frames {
				t.Errorf("TotalPcmSamples() = %d, want %d", total, frames)
			}

			var (
				got []float32
				buf = make([]float32, 1000*ch)
			)
			for {
				n, err := f.ReadSamples(buf)
				got = append(got, buf[:n]...)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("ReadSamples() error = %v", err)
				}
			}
			if len(got) != len(want) {
				t.Fatalf("decoded %d values, want %d", len(got), len(want))
			}
			if i, ok := sameSamples(got, want); !ok {
				t.Fatalf("value %d = %v, want %v", i, got[i], want[i])
			}

			for _, p := range []int64{0, 1, 1000, total / 2, total - 5, total} {
				if err := f.SeekSample(p); err != nil {
					t.Fatalf("SeekSample(%d) error = %v", p, err)
				}
				if got := f.TellPcm(); got != p {
					t.Fatalf("TellPcm() after SeekSample(%d) = %d", p, got)
				}
				n, err := f.ReadSamples(buf[:64*ch])
				if p == total {
					if !errors.Is(err, io.EOF) {
						t.Errorf("ReadSamples() at end error = %v, want %v", err, io.EOF)
					}
					continue
				}
				if err != nil {
					t.Fatalf("ReadSamples() after SeekSample(%d) error = %v", p, err)
				}
				if i, ok := sameSamples(buf[:n], want[p*int64(ch):]); !ok {
					t.Errorf("after SeekSample(%d) value %d = %v, want %v", p, i, buf[i], want[p*int64(ch)+int64(i)])
				}
			}
		})
	}
}

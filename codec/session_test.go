// SPDX-License-Identifier: EPL-2.0

package codec_test

import (
	"errors"
	"testing"

	"github.com/ik5/vorbisfile/codec"
	"github.com/ik5/vorbisfile/internal/codectest"
	"github.com/ik5/vorbisfile/ogg"
)

func newSession(t *testing.T, l codectest.Link) (*codec.Session, []ogg.Packet) {
	t.Helper()

	pkts, err := codectest.Packets(codectest.Build(l))
	if err != nil {
		t.Fatalf("Packets() error = %v", err)
	}
	hp := codec.NewHeaderParser(codectest.Codec)
	for _, p := range pkts[:codec.HeaderCount] {
		if err := hp.ParseHeader(p.Data); err != nil {
			t.Fatalf("ParseHeader() error = %v", err)
		}
	}
	prof, err := hp.Profile()
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	s, err := prof.NewSession()
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s, pkts[codec.HeaderCount:]
}

func decodeAll(t *testing.T, s *codec.Session, pkts []ogg.Packet) []float32 {
	t.Helper()

	var out []float32
	for _, p := range pkts {
		if err := s.Synthesize(p); err != nil {
			t.Fatalf("Synthesize() error = %v", err)
		}
		pcm := s.PCM(s.Pending())
		out = append(out, pcm...)
		s.Consume(len(pcm) / s.Channels())
	}
	return out
}

func TestSession_Trimming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		link codectest.Link
	}{
		{"plain", codectest.Link{Samples: 1000}},
		{"short blocks", codectest.Link{Samples: 777, Short: func(i int) bool { return i%3 == 1 }}},
		{"positive offset", codectest.Link{Samples: 900, GranuleOffset: 5000}},
		{"negative offset", codectest.Link{Samples: 900, GranuleOffset: -100}},
		{"stereo", codectest.Link{Channels: 2, Samples: 640}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, pkts := newSession(t, tt.link)
			out := decodeAll(t, s, pkts)
			ch := s.Channels()
			if got, want := int64(len(out)/ch), tt.link.PCMLength(); got != want {
				t.Fatalf("decoded %d samples, want %d", got, want)
			}
			for i := 0; i < len(out)/ch; i++ {
				g := int64(i) + tt.link.PCMOffset()
				for c := range ch {
					if got, want := out[i*ch+c], codectest.Value(g, c); got != want {
						t.Fatalf("sample %d channel %d = %v, want %v", i, c, got, want)
					}
				}
			}
		})
	}
}

func TestSession_Pending(t *testing.T) {
	t.Parallel()

	s, pkts := newSession(t, codectest.Link{Samples: 1000})
	for _, p := range pkts[:2] {
		if err := s.Synthesize(p); err != nil {
			t.Fatalf("Synthesize() error = %v", err)
		}
	}
	if got := s.Pending(); got != 128 {
		t.Fatalf("Pending() = %d, want 128", got)
	}
	if err := s.Synthesize(pkts[2]); !errors.Is(err, codec.ErrPending) {
		t.Errorf("Synthesize() with pending samples error = %v, want %v", err, codec.ErrPending)
	}
	if got := len(s.PCM(10)); got != 10 {
		t.Errorf("len(PCM(10)) = %d, want 10", got)
	}
	s.Consume(100)
	if got := s.Pending(); got != 28 {
		t.Errorf("Pending() after Consume(100) = %d, want 28", got)
	}

	s.Restart()
	if got := s.Pending(); got != 0 {
		t.Errorf("Pending() after Restart() = %d, want 0", got)
	}
	// the first packet after a restart only primes the decoder
	if err := s.Synthesize(pkts[5]); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if got := s.Pending(); got != 0 {
		t.Errorf("Pending() after priming = %d, want 0", got)
	}
}

func TestSession_NotAudio(t *testing.T) {
	t.Parallel()

	s, _ := newSession(t, codectest.Link{Samples: 100})
	err := s.Synthesize(ogg.Packet{Data: []byte{1, 't', 'o', 'n', 'e'}, Granule: -1})
	if !errors.Is(err, codec.ErrNotAudio) {
		t.Errorf("Synthesize(header) error = %v, want %v", err, codec.ErrNotAudio)
	}
}

func TestHeaderParser(t *testing.T) {
	t.Parallel()

	h := codectest.Link{}.Headers()
	bad := codectest.Link{BadSetup: true}.Headers()

	tests := []struct {
		name    string
		packets [][]byte
		done    bool
		wantErr error
	}{
		{"complete", h[:], true, nil},
		{"incomplete", h[:2], false, nil},
		{"not identification", [][]byte{h[1]}, false, codec.ErrBadHeader},
		{"bad setup", bad[:], false, codec.ErrBadHeader},
		{"too many", [][]byte{h[0], h[1], h[2], h[2]}, true, codec.ErrBadHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hp := codec.NewHeaderParser(codectest.Codec)
			var err error
			for _, p := range tt.packets {
				if err = hp.ParseHeader(p); err != nil {
					break
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseHeader() error = %v, want %v", err, tt.wantErr)
			}
			if hp.Done() != tt.done {
				t.Errorf("Done() = %v, want %v", hp.Done(), tt.done)
			}
			prof, err := hp.Profile()
			if tt.done {
				if err != nil {
					t.Fatalf("Profile() error = %v", err)
				}
				if prof.Vendor != "codectest" || prof.Codec().Name != "tone" {
					t.Errorf("Profile() = %+v", prof.Info)
				}
			} else if !errors.Is(err, codec.ErrNoHeaders) {
				t.Errorf("Profile() error = %v, want %v", err, codec.ErrNoHeaders)
			}
		})
	}
}

// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/vorbisfile/ogg"
)

// Session decodes the audio packets of one link.
type Session struct {
	dec  Decoder
	info Info

	pcm []float32 // interleaved, pending from ret on
	ret int

	// granule is the position after the last decoded sample, -1 until a
	// packet carrying a granule position has been seen since Restart.
	granule int64
	// count is the number of samples produced since Restart, -1 before the
	// first packet.
	count int64
}

func newSession(dec Decoder, info Info) *Session {
	dec.Clear()
	return &Session{dec: dec, info: info, granule: -1, count: -1}
}

// Info returns the profile the session was started from.
func (s *Session) Info() Info { return s.info }

// Channels is a shorthand for Info().Channels.
func (s *Session) Channels() int { return s.info.Channels }

// BlockSize returns the block size of an audio packet, or -1.
func (s *Session) BlockSize(packet []byte) int { return s.dec.BlockSize(packet) }

// Restart forgets lapping state and pending samples. The next packet only
// primes the decoder.
func (s *Session) Restart() {
	s.dec.Clear()
	s.pcm = s.pcm[:0]
	s.ret = 0
	s.granule = -1
	s.count = -1
}

// Pending returns the number of decoded samples per channel not yet consumed.
func (s *Session) Pending() int {
	return (len(s.pcm) - s.ret) / s.info.Channels
}

// PCM returns up to max pending samples per channel, interleaved. The slice
// is valid until the next Synthesize, Consume or Restart.
func (s *Session) PCM(max int) []float32 {
	n := min(s.Pending(), max)
	return s.pcm[s.ret : s.ret+n*s.info.Channels]
}

// Consume discards n pending samples per channel.
func (s *Session) Consume(n int) {
	n = min(n, s.Pending())
	s.ret += n * s.info.Channels
}

// Synthesize decodes pkt. All samples of the previous packet must have been
// consumed. Non-audio packets are rejected with ErrNotAudio and leave the
// session untouched.
func (s *Session) Synthesize(pkt ogg.Packet) error {
	if s.Pending() > 0 {
		return ErrPending
	}
	if s.dec.BlockSize(pkt.Data) < 0 {
		return ErrNotAudio
	}
	out, err := s.dec.Decode(pkt.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	s.pcm = append(s.pcm[:0], out...)
	s.ret = 0
	n := int64(len(out) / s.info.Channels)

	if s.count < 0 {
		s.count = 0
	} else {
		s.count += n
	}

	if s.granule == -1 {
		if pkt.Granule == -1 {
			return nil
		}
		s.granule = pkt.Granule
		if extra := s.count - s.granule; extra > 0 {
			if pkt.EOS {
				// a stream that is both first and last page is cut at the end
				s.trimEnd(extra)
			} else {
				s.trimStart(extra)
			}
		}
		return nil
	}

	s.granule += n
	if pkt.Granule != -1 && pkt.Granule != s.granule {
		if extra := s.granule - pkt.Granule; extra > 0 && pkt.EOS {
			s.trimEnd(extra)
		}
		// otherwise the stream is out of spec; believe the bitstream
		s.granule = pkt.Granule
	}
	return nil
}

func (s *Session) trimEnd(extra int64) {
	extra = min(extra, int64(s.Pending()))
	s.pcm = s.pcm[:len(s.pcm)-int(extra)*s.info.Channels]
}

func (s *Session) trimStart(extra int64) {
	extra = min(extra, int64(s.Pending()))
	s.ret += int(extra) * s.info.Channels
}

// SPDX-License-Identifier: EPL-2.0

package ogg

// Lacing value markers kept above the 8 bit segment length.
const (
	laceBOS  = 0x100
	laceEOS  = 0x200
	laceHole = 0x400
)

// Packet is one reassembled packet.
type Packet struct {
	Data []byte
	BOS  bool
	EOS  bool
	// Granule is the granule position of the packet, or -1 when the packet
	// is not the last one completed on its page.
	Granule int64
	// Number counts packets since the stream was reset, holes included.
	Number int64
}

// Stream reassembles the packets of one logical bitstream.
type Stream struct {
	serial uint32

	body         []byte
	bodyReturned int

	lacing         []int
	granules       []int64
	lacingPacket   int
	lacingReturned int

	pageno   int64
	packetno int64
	eos      bool
}

// NewStream returns a demultiplexer bound to serial.
func NewStream(serial uint32) *Stream {
	s := &Stream{}
	s.ResetSerial(serial)
	return s
}

// Serial returns the serial number the stream accepts.
func (s *Stream) Serial() uint32 { return s.serial }

// EOS reports whether the last page of the bitstream has been submitted.
func (s *Stream) EOS() bool { return s.eos }

// Reset drops all buffered data and sequence state.
func (s *Stream) Reset() {
	s.body = nil
	s.bodyReturned = 0
	s.lacing = nil
	s.granules = nil
	s.lacingPacket = 0
	s.lacingReturned = 0
	s.pageno = -1
	s.packetno = 0
	s.eos = false
}

// ResetSerial resets the stream and binds it to serial.
func (s *Stream) ResetSerial(serial uint32) {
	s.Reset()
	s.serial = serial
}

// Clear releases the stream's buffers.
func (s *Stream) Clear() {
	*s = Stream{pageno: -1}
}

// PageIn submits a page. Packet data previously returned stays valid.
func (s *Stream) PageIn(p *Page) error {
	if p.Version() != 0 {
		return ErrVersion
	}
	if p.Serial() != s.serial {
		return ErrSerialMismatch
	}
	s.compact()

	segs := p.segments()
	body := p.Body
	bos := p.BOS()
	seq := int64(p.Sequence())

	if seq != s.pageno {
		// drop the partial packet, if any, and note the loss
		for _, v := range s.lacing[s.lacingPacket:] {
			s.body = s.body[:len(s.body)-v&0xff]
		}
		s.lacing = s.lacing[:s.lacingPacket]
		s.granules = s.granules[:s.lacingPacket]
		if s.pageno != -1 {
			s.lacing = append(s.lacing, laceHole)
			s.granules = append(s.granules, -1)
			s.lacingPacket++
		}
	}

	// a continued page with nothing to continue skips the orphaned tail
	if p.Continued() {
		n := len(s.lacing)
		if n < 1 || s.lacing[n-1]&0xff < 255 || s.lacing[n-1] == laceHole {
			bos = false
			for len(segs) > 0 {
				v := int(segs[0])
				segs = segs[1:]
				body = body[v:]
				if v < 255 {
					break
				}
			}
		}
	}

	s.body = append(s.body, body...)

	saved := -1
	for _, seg := range segs {
		v := int(seg)
		lace := v
		if bos {
			lace |= laceBOS
			bos = false
		}
		s.lacing = append(s.lacing, lace)
		s.granules = append(s.granules, -1)
		if v < 255 {
			saved = len(s.lacing) - 1
			s.lacingPacket = len(s.lacing)
		}
	}
	if saved != -1 {
		s.granules[saved] = p.Granule()
	}

	if p.EOS() {
		s.eos = true
		if n := len(s.lacing); n > 0 {
			s.lacing[n-1] |= laceEOS
		}
	}
	s.pageno = seq + 1
	return nil
}

// compact forgets returned data. Buffers are reallocated so that packets
// handed out earlier keep their contents.
func (s *Stream) compact() {
	if s.bodyReturned > 0 {
		s.body = append([]byte(nil), s.body[s.bodyReturned:]...)
		s.bodyReturned = 0
	}
	if s.lacingReturned > 0 {
		s.lacing = append(s.lacing[:0:0], s.lacing[s.lacingReturned:]...)
		s.granules = append(s.granules[:0:0], s.granules[s.lacingReturned:]...)
		s.lacingPacket -= s.lacingReturned
		s.lacingReturned = 0
	}
}

// PacketOut returns the next complete packet. ok is false when another
// page is needed; err is ErrHole when data was lost before the next packet.
func (s *Stream) PacketOut() (Packet, bool, error) {
	return s.packet(true)
}

// PacketPeek is PacketOut without consuming the packet. A pending hole is
// still reported and consumed.
func (s *Stream) PacketPeek() (Packet, bool, error) {
	return s.packet(false)
}

func (s *Stream) packet(advance bool) (Packet, bool, error) {
	ptr := s.lacingReturned
	if s.lacingPacket <= ptr {
		return Packet{}, false, nil
	}
	if s.lacing[ptr]&laceHole != 0 {
		s.lacingReturned++
		s.packetno++
		return Packet{}, false, ErrHole
	}

	size := s.lacing[ptr] & 0xff
	n := size
	eos := s.lacing[ptr]&laceEOS != 0
	bos := s.lacing[ptr]&laceBOS != 0
	for size == 255 {
		ptr++
		size = s.lacing[ptr] & 0xff
		if s.lacing[ptr]&laceEOS != 0 {
			eos = true
		}
		n += size
	}

	pkt := Packet{
		Data:    s.body[s.bodyReturned : s.bodyReturned+n : s.bodyReturned+n],
		BOS:     bos,
		EOS:     eos,
		Granule: s.granules[ptr],
		Number:  s.packetno,
	}
	if advance {
		s.bodyReturned += n
		s.lacingReturned = ptr + 1
		s.packetno++
	}
	return pkt, true, nil
}

// SPDX-License-Identifier: EPL-2.0

package ogg

import "encoding/binary"

// Page header flags.
const (
	FlagContinued = 0x01
	FlagBOS       = 0x02
	FlagEOS       = 0x04
)

const (
	// HeaderSize is the fixed part of a page header, before the segment table.
	HeaderSize = 27

	// MaxPageSize is the largest page the format can express: a full
	// segment table of 255 lacing values of 255 bytes each.
	MaxPageSize = HeaderSize + 255 + 255*255

	capturePattern = "OggS"
)

// Page is one captured Ogg page. Header includes the segment table.
type Page struct {
	Header []byte
	Body   []byte
}

// Len returns the encoded size of the page.
func (p *Page) Len() int { return len(p.Header) + len(p.Body) }

// Version returns the stream structure version.
func (p *Page) Version() int { return int(p.Header[4]) }

// Continued reports whether the page starts with the tail of a packet
// begun on an earlier page.
func (p *Page) Continued() bool { return p.Header[5]&FlagContinued != 0 }

// BOS reports whether the page is the first page of its logical bitstream.
func (p *Page) BOS() bool { return p.Header[5]&FlagBOS != 0 }

// EOS reports whether the page is the last page of its logical bitstream.
func (p *Page) EOS() bool { return p.Header[5]&FlagEOS != 0 }

// Granule returns the granule position of the last packet completed on the
// page, or -1 when no packet completes on it.
func (p *Page) Granule() int64 {
	return int64(binary.LittleEndian.Uint64(p.Header[6:14]))
}

// Serial returns the serial number of the page's logical bitstream.
func (p *Page) Serial() uint32 { return binary.LittleEndian.Uint32(p.Header[14:18]) }

// Sequence returns the page sequence number.
func (p *Page) Sequence() uint32 { return binary.LittleEndian.Uint32(p.Header[18:22]) }

// Packets returns the number of packets that complete on the page.
func (p *Page) Packets() int {
	n := 0
	for _, v := range p.segments() {
		if v < 255 {
			n++
		}
	}
	return n
}

func (p *Page) segments() []byte {
	return p.Header[HeaderSize : HeaderSize+int(p.Header[26])]
}

// Bytes returns the encoded page.
func (p *Page) Bytes() []byte {
	out := make([]byte, 0, p.Len())
	out = append(out, p.Header...)
	return append(out, p.Body...)
}

// Lacing returns the segment table for a packet of n bytes.
func Lacing(n int) []byte {
	segs := make([]byte, n/255+1)
	for i := range len(segs) - 1 {
		segs[i] = 255
	}
	segs[len(segs)-1] = byte(n % 255)
	return segs
}

// Assemble encodes a page from its fields and sets its checksum. segments
// must describe body exactly.
func Assemble(flags byte, granule int64, serial, sequence uint32, segments, body []byte) Page {
	h := make([]byte, HeaderSize+len(segments))
	copy(h, capturePattern)
	h[5] = flags
	binary.LittleEndian.PutUint64(h[6:14], uint64(granule))
	binary.LittleEndian.PutUint32(h[14:18], serial)
	binary.LittleEndian.PutUint32(h[18:22], sequence)
	h[26] = byte(len(segments))
	copy(h[HeaderSize:], segments)

	p := Page{Header: h, Body: append([]byte(nil), body...)}
	binary.LittleEndian.PutUint32(h[22:26], Checksum(p.Bytes()))
	return p
}

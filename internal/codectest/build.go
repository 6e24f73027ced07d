// SPDX-License-Identifier: EPL-2.0

package codectest

import (
	"bytes"
	"encoding/binary"

	"github.com/ik5/vorbisfile/ogg"
)

// Link describes one logical bitstream of a chain. Zero fields take the
// defaults noted below.
type Link struct {
	Serial     uint32
	Channels   int    // 1
	SampleRate int    // 8000
	BlockSizes [2]int // {64, 256}
	Vendor     string // "codectest"

	// Samples is the number of samples the link decodes to.
	Samples int64
	// GranuleOffset is added to every granule position. A positive value
	// starts the link at a non-zero position; a negative value trims the
	// start of the first packet that produces audio, and must not exceed
	// its length.
	GranuleOffset int64
	// Short selects a short block for audio packet i. Nil means all long.
	Short func(i int) bool

	PacketSize  int // bytes per audio packet, 64
	PerPage     int // audio packets per page, 4
	MaxSegments int // lacing values per page, 255

	// BadSetup emits a setup header the codec rejects.
	BadSetup bool
}

func (l Link) withDefaults() Link {
	if l.Channels == 0 {
		l.Channels = 1
	}
	if l.SampleRate == 0 {
		l.SampleRate = 8000
	}
	if l.BlockSizes == [2]int{} {
		l.BlockSizes = [2]int{64, 256}
	}
	if l.Vendor == "" {
		l.Vendor = "codectest"
	}
	if l.PacketSize < audioHeader {
		l.PacketSize = 64
	}
	if l.PerPage == 0 {
		l.PerPage = 4
	}
	if l.MaxSegments == 0 {
		l.MaxSegments = 255
	}
	return l
}

// PCMOffset is the granule position of the first sample of the link.
func (l Link) PCMOffset() int64 { return max(l.GranuleOffset, 0) }

// PCMLength is the number of samples a reader should produce for the link.
func (l Link) PCMLength() int64 { return l.Samples + min(l.GranuleOffset, 0) }

func exp2(n int) byte {
	var e byte
	for 1<<e < n {
		e++
	}
	return e
}

// Headers returns the identification, comment and setup packets.
func (l Link) Headers() [3][]byte {
	l = l.withDefaults()
	ident := make([]byte, 11)
	ident[0] = typeIdent
	copy(ident[1:], magic)
	ident[5] = byte(l.Channels)
	binary.LittleEndian.PutUint32(ident[6:], uint32(l.SampleRate))
	ident[10] = exp2(l.BlockSizes[0]) | exp2(l.BlockSizes[1])<<4

	comment := append([]byte{typeComment}, magic...)
	comment = append(comment, l.Vendor...)

	setup := append([]byte{typeSetup}, magic...)
	if l.BadSetup {
		setup = append(setup, 0)
	} else {
		setup = append(setup, 2, 0, 1)
	}
	return [3][]byte{ident, comment, setup}
}

type packet struct {
	data    []byte
	granule int64
	eos     bool
	flush   bool // end the page after this packet
}

func (l Link) packets() []packet {
	var (
		out      []packet
		produced int64
		prev     int
	)
	for i := 0; i < 2 || produced < l.Samples; i++ {
		long := l.Short == nil || !l.Short(i)
		bs := l.BlockSizes[0]
		if long {
			bs = l.BlockSizes[1]
		}
		var n int64
		if i > 0 {
			n = int64(prev+bs) / 4
		}
		prev = bs

		data := make([]byte, l.PacketSize)
		if long {
			data[0] = 1 << 1
		}
		binary.LittleEndian.PutUint64(data[1:], uint64(l.GranuleOffset+produced))
		produced += n
		for j := audioHeader; j < len(data); j++ {
			data[j] = byte(i + j)
		}
		out = append(out, packet{
			data:    data,
			granule: l.GranuleOffset + produced,
			flush:   i == 1 && l.GranuleOffset < 0,
		})
	}
	last := &out[len(out)-1]
	last.granule = l.GranuleOffset + l.Samples
	last.eos = true
	return out
}

// Pages returns the encoded pages of the link.
func (l Link) Pages() [][]byte {
	l = l.withDefaults()
	var (
		pages [][]byte
		seq   uint32
	)
	emit := func(flags byte, granule int64, lacing, body []byte) {
		p := ogg.Assemble(flags, granule, l.Serial, seq, lacing, body)
		pages = append(pages, p.Bytes())
		seq++
	}

	h := l.Headers()
	emit(ogg.FlagBOS, 0, ogg.Lacing(len(h[0])), h[0])
	emit(0, 0, append(ogg.Lacing(len(h[1])), ogg.Lacing(len(h[2]))...),
		append(append([]byte(nil), h[1]...), h[2]...))

	var (
		lacing    []byte
		body      bytes.Buffer
		granule   int64 = -1
		continued bool
		count     int
	)
	flush := func(eos bool) {
		var flags byte
		if continued {
			flags |= ogg.FlagContinued
		}
		if eos {
			flags |= ogg.FlagEOS
		}
		emit(flags, granule, lacing, append([]byte(nil), body.Bytes()...))
		lacing = nil
		body.Reset()
		granule = -1
		continued = false
		count = 0
	}

	for _, p := range l.packets() {
		vals := ogg.Lacing(len(p.data))
		data := p.data
		for len(vals) > 0 {
			room := l.MaxSegments - len(lacing)
			if room == 0 {
				flush(false)
				continued = len(vals) < len(ogg.Lacing(len(p.data)))
				continue
			}
			k := min(room, len(vals))
			take := 0
			for _, v := range vals[:k] {
				take += int(v)
			}
			lacing = append(lacing, vals[:k]...)
			body.Write(data[:take])
			vals, data = vals[k:], data[take:]
		}
		granule = p.granule
		count++
		if p.eos {
			flush(true)
		} else if p.flush || count == l.PerPage {
			flush(false)
		}
	}
	return pages
}

// Build concatenates the pages of every link into one physical stream.
func Build(links ...Link) []byte {
	var buf bytes.Buffer
	for _, l := range links {
		for _, p := range l.Pages() {
			buf.Write(p)
		}
	}
	return buf.Bytes()
}

// Packets demultiplexes a physical stream built by Build, in order. The
// stream restarts at every beginning-of-stream page.
func Packets(data []byte) ([]ogg.Packet, error) {
	var (
		sync ogg.Sync
		st   *ogg.Stream
		out  []ogg.Packet
	)
	if _, err := sync.Write(data); err != nil {
		return nil, err
	}
	for {
		page, n := sync.PageSeek()
		if n == 0 {
			return out, nil
		}
		if n < 0 {
			continue
		}
		if st == nil || page.BOS() {
			st = ogg.NewStream(page.Serial())
		}
		if err := st.PageIn(&page); err != nil {
			return nil, err
		}
		for {
			pkt, ok, err := st.PacketOut()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			out = append(out, pkt)
		}
	}
}

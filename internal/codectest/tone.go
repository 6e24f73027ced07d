// SPDX-License-Identifier: EPL-2.0

// Package codectest provides a deterministic test codec and a builder for
// chained Ogg streams that carry it.
//
// The "tone" codec has the packet structure of Vorbis (three headers, audio
// packets with short and long blocks lapped by half a block) but its
// samples are a pure function of the granule position, so a test can check
// exactly which samples a read returned:
//
//	v := codectest.Value(granule, channel)
package codectest

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ik5/vorbisfile/codec"
)

const (
	typeIdent   = 1
	typeComment = 3
	typeSetup   = 5
	magic       = "tone"

	// Period is the cycle of the generated sample values.
	Period = 16384
	// Spread offsets the values of consecutive channels.
	Spread = 1000

	audioHeader = 9
)

var (
	errHeader = errors.New("tone: invalid header")
	errPacket = errors.New("tone: invalid audio packet")
)

// Codec is the tone codec.
var Codec = codec.Codec{
	Name:     "tone",
	Identify: Identify,
	New:      func() codec.Decoder { return &Decoder{} },
}

// Value is the sample the tone codec produces at a granule position.
// Converted to 16-bit PCM it is exactly (granule+channel*Spread)%Period.
func Value(granule int64, channel int) float32 {
	return float32((granule+int64(channel)*Spread)%Period) / 32768
}

// Int16 is Value as 16-bit PCM.
func Int16(granule int64, channel int) int16 {
	return int16((granule + int64(channel)*Spread) % Period)
}

func Identify(packet []byte) bool {
	return len(packet) >= 11 && packet[0] == typeIdent && string(packet[1:5]) == magic
}

// Decoder implements codec.Decoder for the tone codec.
type Decoder struct {
	info    codec.Info
	headers int
	modes   []bool

	primed bool
	prev   int
	out    []float32
}

func (d *Decoder) ReadHeader(p []byte) error {
	if len(p) < 5 || string(p[1:5]) != magic {
		return errHeader
	}
	switch {
	case p[0] == typeIdent && d.headers == 0:
		if len(p) < 11 || p[5] == 0 {
			return errHeader
		}
		d.info.Channels = int(p[5])
		d.info.SampleRate = int(binary.LittleEndian.Uint32(p[6:10]))
		d.info.BlockSizes = [2]int{1 << (p[10] & 0x0F), 1 << (p[10] >> 4)}
		d.info.Bitrate.Nominal = d.info.SampleRate * 8
	case p[0] == typeComment && d.headers == 1:
		d.info.Vendor = string(p[5:])
	case p[0] == typeSetup && d.headers == 2:
		if len(p) < 6 || p[5] == 0 || len(p) < 6+int(p[5]) {
			return errHeader
		}
		for _, f := range p[6 : 6+int(p[5])] {
			d.modes = append(d.modes, f == 1)
		}
	default:
		return fmt.Errorf("%w: unexpected type %d", errHeader, p[0])
	}
	d.headers++
	return nil
}

func (d *Decoder) HeadersRead() bool { return d.headers == 3 }

func (d *Decoder) Info() codec.Info { return d.info }

func (d *Decoder) BlockSize(p []byte) int {
	if len(p) < audioHeader || p[0]&1 != 0 || d.modes == nil {
		return -1
	}
	mode := int(p[0] >> 1)
	if mode >= len(d.modes) {
		return -1
	}
	if d.modes[mode] {
		return d.info.BlockSizes[1]
	}
	return d.info.BlockSizes[0]
}

func (d *Decoder) Decode(p []byte) ([]float32, error) {
	bs := d.BlockSize(p)
	if bs < 0 {
		return nil, errPacket
	}
	start := int64(binary.LittleEndian.Uint64(p[1:9]))
	if !d.primed {
		d.primed = true
		d.prev = bs
		return nil, nil
	}

	n := (d.prev + bs) / 4
	d.prev = bs
	ch := d.info.Channels
	d.out = d.out[:0]
	for i := range n {
		for c := range ch {
			d.out = append(d.out, Value(start+int64(i), c))
		}
	}
	return d.out, nil
}

func (d *Decoder) Clear() { d.primed = false }

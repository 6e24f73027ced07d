// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"math/bits"

	"github.com/ik5/vorbisfile/codec"
	jv "github.com/jfreymuth/vorbis"
)

const (
	headerIdentification = 1
	headerSetup          = 5

	identSize = 30

	minBlockSize = 64
	maxBlockSize = 8192
)

// Codec registers Vorbis with the container engine.
var Codec = codec.Codec{
	Name:     "vorbis",
	Identify: Identify,
	New:      func() codec.Decoder { return NewDecoder() },
}

// Identify reports whether packet is a Vorbis identification header.
func Identify(packet []byte) bool {
	return len(packet) >= identSize && packet[0] == headerIdentification && jv.IsHeader(packet)
}

// oggVorbis is the part of jfreymuth's decoder we use; it lets tests swap
// the engine.
type oggVorbis interface {
	ReadHeader(header []byte) error
	HeadersRead() bool
	SampleRate() int
	Channels() int
	BufferSize() int
	DecodeInto(in []byte, buffer []float32) ([]float32, error)
	Clear()
}

// Decoder implements codec.Decoder.
type Decoder struct {
	dec     oggVorbis
	bitrate *jv.Bitrate
	comment *jv.CommentHeader

	blockSizes [2]int
	modeFlags  []bool
	modeBits   uint

	buf []float32
}

func NewDecoder() *Decoder {
	d := new(jv.Decoder)
	return &Decoder{dec: d, bitrate: &d.Bitrate, comment: &d.CommentHeader}
}

// ReadHeader consumes one of the three Vorbis header packets.
func (d *Decoder) ReadHeader(packet []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	if err := d.dec.ReadHeader(packet); err != nil {
		return fmt.Errorf("%w", err)
	}

	switch packet[0] {
	case headerIdentification:
		if len(packet) < identSize {
			return ErrIdentification
		}
		short := 1 << (packet[28] & 0x0F)
		long := 1 << (packet[28] >> 4)
		if short < minBlockSize || long < short || long > maxBlockSize {
			return fmt.Errorf("%w: block sizes %d/%d", ErrIdentification, short, long)
		}
		if d.dec.Channels() < 1 || d.dec.SampleRate() < 1 {
			return fmt.Errorf("%w: %d channels at %d Hz", ErrIdentification, d.dec.Channels(), d.dec.SampleRate())
		}
		d.blockSizes = [2]int{short, long}
	case headerSetup:
		flags, err := modeBlockFlags(packet)
		if err != nil {
			return err
		}
		d.modeFlags = flags
		d.modeBits = uint(bits.Len(uint(len(flags) - 1)))
	}
	return nil
}

func (d *Decoder) HeadersRead() bool {
	return d.dec.HeadersRead() && d.modeFlags != nil
}

func (d *Decoder) Info() codec.Info {
	info := codec.Info{
		Channels:   d.dec.Channels(),
		SampleRate: d.dec.SampleRate(),
		BlockSizes: d.blockSizes,
	}
	if d.bitrate != nil {
		info.Bitrate = codec.Bitrate{
			Nominal: d.bitrate.Nominal,
			Minimum: d.bitrate.Minimum,
			Maximum: d.bitrate.Maximum,
		}
	}
	if d.comment != nil {
		info.Vendor = d.comment.Vendor
		info.Comments = append([]string(nil), d.comment.Comments...)
	}
	return info
}

// BlockSize returns the block size of an audio packet from its mode number.
func (d *Decoder) BlockSize(packet []byte) int {
	if len(packet) == 0 || packet[0]&1 != 0 || d.modeFlags == nil {
		return -1
	}
	mode := int(packet[0]>>1) & (1<<d.modeBits - 1)
	if mode >= len(d.modeFlags) {
		return -1
	}
	if d.modeFlags[mode] {
		return d.blockSizes[1]
	}
	return d.blockSizes[0]
}

// Decode synthesizes one audio packet. The returned slice is reused by the
// next call.
func (d *Decoder) Decode(packet []byte) (out []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	if n := d.dec.BufferSize(); len(d.buf) < n {
		d.buf = make([]float32, n)
	}
	out, err = d.dec.DecodeInto(packet, d.buf)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return out, nil
}

func (d *Decoder) Clear() { d.dec.Clear() }

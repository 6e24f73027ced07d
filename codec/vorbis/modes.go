// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"

	"github.com/icza/bitio"
)

const (
	modeBits  = 8 + 16 + 16 + 1
	countBits = 6
	maxModes  = 64
)

// backward reads a bit-packed Vorbis packet from its end towards its start.
// Vorbis packs bits LSB first, so reading the reversed bytes MSB first walks
// the packet's bit positions in descending order and yields field values
// unchanged.
type backward struct {
	rev []byte
}

func newBackward(packet []byte) backward {
	rev := make([]byte, len(packet))
	for i, b := range packet {
		rev[len(packet)-1-i] = b
	}
	return backward{rev: rev}
}

func (b backward) len() int { return len(b.rev) * 8 }

// bits reads n bits starting pos bits from the end of the packet.
func (b backward) bits(pos int, n uint8) (uint64, error) {
	r := bitio.NewReader(bytes.NewReader(b.rev[pos/8:]))
	if skip := uint8(pos % 8); skip > 0 {
		if _, err := r.ReadBits(skip); err != nil {
			return 0, err
		}
	}
	return r.ReadBits(n)
}

// modeBlockFlags recovers the block flag of every mode from a setup header.
func modeBlockFlags(setup []byte) ([]bool, error) {
	b := newBackward(setup)

	// padding zeros, then the framing bit
	pos := 0
	for {
		if pos >= b.len() {
			return nil, ErrModes
		}
		bit, err := b.bits(pos, 1)
		if err != nil {
			return nil, ErrModes
		}
		pos++
		if bit == 1 {
			break
		}
	}

	var flags []bool // last mode first
	found := 0
	for len(flags) < maxModes && b.len()-pos >= modeBits+countBits {
		mapping, err := b.bits(pos, 8)
		if err != nil {
			break
		}
		transform, _ := b.bits(pos+8, 16)
		window, _ := b.bits(pos+24, 16)
		if mapping > 63 || transform != 0 || window != 0 {
			break
		}
		flag, _ := b.bits(pos+40, 1)
		flags = append(flags, flag == 1)
		pos += modeBits

		if count, err := b.bits(pos, countBits); err == nil && int(count)+1 == len(flags) {
			found = len(flags)
		}
	}
	if found == 0 {
		return nil, ErrModes
	}

	modes := make([]bool, found)
	for i := range found {
		modes[found-1-i] = flags[i]
	}
	return modes, nil
}

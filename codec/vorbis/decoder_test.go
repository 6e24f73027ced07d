// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/icza/bitio"
)

// setupTail returns a setup header packet whose mode table holds flags.
// The bits are produced in reading order of the backward scanner and the
// bytes reversed afterwards.
func setupTail(flags []bool) []byte {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)

	const pad = 3
	used := pad + 1 + len(flags)*modeBits + countBits
	filler := 16 + (8-used%8)%8

	w.TryWriteBits(0, pad)
	w.TryWriteBool(true) // framing
	for i := len(flags) - 1; i >= 0; i-- {
		w.TryWriteBits(uint64(i%4), 8) // mapping
		w.TryWriteBits(0, 16)          // transform
		w.TryWriteBits(0, 16)          // window
		w.TryWriteBool(flags[i])
	}
	w.TryWriteBits(uint64(len(flags)-1), countBits)
	for range filler {
		w.TryWriteBool(true)
	}
	w.Close()

	raw := buf.Bytes()
	for i, j := 0, len(raw)-1; i < j; i, j = i+1, j-1 {
		raw[i], raw[j] = raw[j], raw[i]
	}
	return append([]byte("\x05vorbis"), raw...)
}

func identHeader(channels int, rate uint32, blocks byte) []byte {
	p := make([]byte, identSize)
	copy(p, "\x01vorbis")
	p[11] = byte(channels)
	binary.LittleEndian.PutUint32(p[12:], rate)
	binary.LittleEndian.PutUint32(p[20:], 128000)
	p[28] = blocks
	p[29] = 1
	return p
}

func TestModeBlockFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags []bool
	}{
		{"single short", []bool{false}},
		{"single long", []bool{true}},
		{"short long", []bool{false, true}},
		{"mixed", []bool{false, true, true, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := modeBlockFlags(setupTail(tt.flags))
			if err != nil {
				t.Fatalf("modeBlockFlags() error = %v", err)
			}
			if len(got) != len(tt.flags) {
				t.Fatalf("modeBlockFlags() = %v, want %v", got, tt.flags)
			}
			for i := range got {
				if got[i] != tt.flags[i] {
					t.Errorf("modeBlockFlags() = %v, want %v", got, tt.flags)
					break
				}
			}
		})
	}
}

func TestModeBlockFlags_Garbage(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		nil,
		{0, 0, 0, 0},
		bytes.Repeat([]byte{0xFF}, 40),
	}
	for _, in := range inputs {
		if _, err := modeBlockFlags(in); !errors.Is(err, ErrModes) {
			t.Errorf("modeBlockFlags(% x) error = %v, want %v", in, err, ErrModes)
		}
	}
}

func TestIdentify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		packet []byte
		want   bool
	}{
		{"identification", identHeader(2, 44100, 0xB8), true},
		{"setup", setupTail([]bool{true}), false},
		{"short", []byte("\x01vorbis"), false},
		{"audio", []byte{0, 1, 2, 3}, false},
	}

	for _, tt := range tests {
		if got := Identify(tt.packet); got != tt.want {
			t.Errorf("Identify(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDecoder_IdentificationHeader(t *testing.T) {
	t.Parallel()

	d := NewDecoder()
	if err := d.ReadHeader(identHeader(2, 44100, 0xB8)); err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	info := d.Info()
	if info.Channels != 2 || info.SampleRate != 44100 {
		t.Errorf("Info() = %d ch %d Hz, want 2 ch 44100 Hz", info.Channels, info.SampleRate)
	}
	if info.BlockSizes != [2]int{256, 2048} {
		t.Errorf("BlockSizes = %v, want [256 2048]", info.BlockSizes)
	}
	if info.Bitrate.Nominal != 128000 {
		t.Errorf("Bitrate.Nominal = %d, want 128000", info.Bitrate.Nominal)
	}
	if d.HeadersRead() {
		t.Error("HeadersRead() = true before the setup header")
	}
}

func TestDecoder_BadIdentification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		packet []byte
	}{
		{"zero channels", identHeader(0, 44100, 0xB8)},
		{"zero rate", identHeader(1, 0, 0xB8)},
		{"long shorter than short", identHeader(1, 8000, 0x8B)},
		{"block too small", identHeader(1, 8000, 0x55)},
	}

	for _, tt := range tests {
		if err := NewDecoder().ReadHeader(tt.packet); err == nil {
			t.Errorf("ReadHeader(%s) error = nil, want error", tt.name)
		}
	}
}

func TestDecoder_BlockSize(t *testing.T) {
	t.Parallel()

	d := &Decoder{
		blockSizes: [2]int{256, 2048},
		modeFlags:  []bool{false, true},
		modeBits:   1,
	}

	tests := []struct {
		packet []byte
		want   int
	}{
		{[]byte{0x00}, 256},
		{[]byte{0x02}, 2048},
		{[]byte{0x01}, -1},
		{nil, -1},
	}

	for _, tt := range tests {
		if got := d.BlockSize(tt.packet); got != tt.want {
			t.Errorf("BlockSize(% x) = %d, want %d", tt.packet, got, tt.want)
		}
	}
}

type panicEngine struct{ fakeEngine }

func (panicEngine) DecodeInto([]byte, []float32) ([]float32, error) { panic("index out of range") }

type fakeEngine struct{}

func (fakeEngine) ReadHeader([]byte) error { return nil }
func (fakeEngine) HeadersRead() bool       { return true }
func (fakeEngine) SampleRate() int         { return 8000 }
func (fakeEngine) Channels() int           { return 1 }
func (fakeEngine) BufferSize() int         { return 128 }
func (fakeEngine) Clear()                  {}
func (fakeEngine) DecodeInto(_ []byte, buf []float32) ([]float32, error) {
	return buf[:16], nil
}

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	d := &Decoder{dec: fakeEngine{}}
	out, err := d.Decode([]byte{0})
	if err != nil || len(out) != 16 {
		t.Errorf("Decode() = %d samples, %v, want 16, nil", len(out), err)
	}

	d = &Decoder{dec: panicEngine{}}
	if _, err := d.Decode([]byte{0}); !errors.Is(err, ErrPanic) {
		t.Errorf("Decode() error = %v, want %v", err, ErrPanic)
	}
}

// SPDX-License-Identifier: EPL-2.0

package codec

// Bitrate hints from a codec's identification header. Zero means unset.
type Bitrate struct {
	Nominal int
	Minimum int
	Maximum int
}

// Info is the decode profile of a link.
type Info struct {
	Channels   int
	SampleRate int
	// BlockSizes holds the short and long block sizes in samples.
	BlockSizes [2]int
	Bitrate    Bitrate
	Vendor     string
	Comments   []string
}

// Decoder is a synthesis engine bound to one logical bitstream.
type Decoder interface {
	// ReadHeader consumes one header packet.
	ReadHeader(packet []byte) error
	// HeadersRead reports whether every header needed for synthesis was read.
	HeadersRead() bool
	Info() Info
	// BlockSize returns the block size of an audio packet, or -1 when the
	// packet is not audio.
	BlockSize(packet []byte) int
	// Decode synthesizes packet, lapped with the previous one, and returns
	// the interleaved samples it completes. The first packet after Clear
	// completes none.
	Decode(packet []byte) ([]float32, error)
	// Clear forgets the lapping state.
	Clear()
}

// Codec is a playable codec.
type Codec struct {
	Name string
	// Identify reports whether packet is the codec's identification header,
	// the first packet of a logical bitstream.
	Identify func(packet []byte) bool
	New      func() Decoder
}

// SPDX-License-Identifier: EPL-2.0

package codec

import "fmt"

// HeaderCount is the number of header packets before audio data.
const HeaderCount = 3

// Profile is the parsed header set of one link.
type Profile struct {
	Info
	codec   Codec
	headers [][]byte

	sizer Decoder
}

// Codec returns the codec the profile belongs to.
func (p *Profile) Codec() Codec { return p.codec }

// NewSession starts a decoder for the link.
func (p *Profile) NewSession() (*Session, error) {
	dec := p.codec.New()
	for _, h := range p.headers {
		if err := dec.ReadHeader(h); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadHeader, err)
		}
	}
	if !dec.HeadersRead() {
		return nil, ErrNoHeaders
	}
	return newSession(dec, p.Info), nil
}

// BlockSize returns the block size of an audio packet of the link, or -1
// for packets that are not audio.
func (p *Profile) BlockSize(packet []byte) int {
	if p.sizer == nil {
		dec := p.codec.New()
		for _, h := range p.headers {
			if dec.ReadHeader(h) != nil {
				return -1
			}
		}
		p.sizer = dec
	}
	return p.sizer.BlockSize(packet)
}

// HeaderParser accumulates the header packets of one link.
type HeaderParser struct {
	codec   Codec
	dec     Decoder
	headers [][]byte
}

func NewHeaderParser(c Codec) *HeaderParser {
	return &HeaderParser{codec: c, dec: c.New()}
}

// ParseHeader consumes the next header packet.
func (h *HeaderParser) ParseHeader(packet []byte) error {
	if len(h.headers) == HeaderCount {
		return fmt.Errorf("%w: more than %d headers", ErrBadHeader, HeaderCount)
	}
	if len(h.headers) == 0 && !h.codec.Identify(packet) {
		return fmt.Errorf("%w: not a %s identification header", ErrBadHeader, h.codec.Name)
	}
	if err := h.dec.ReadHeader(packet); err != nil {
		return fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	h.headers = append(h.headers, append([]byte(nil), packet...))
	return nil
}

// Count returns the number of headers parsed so far.
func (h *HeaderParser) Count() int { return len(h.headers) }

// Done reports whether all headers were parsed.
func (h *HeaderParser) Done() bool {
	return len(h.headers) == HeaderCount && h.dec.HeadersRead()
}

// Profile returns the parsed profile, or ErrNoHeaders before Done.
func (h *HeaderParser) Profile() (*Profile, error) {
	if !h.Done() {
		return nil, ErrNoHeaders
	}
	return &Profile{Info: h.dec.Info(), codec: h.codec, headers: h.headers}, nil
}

// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bytes"
	"encoding/binary"
)

// Sync captures pages from a byte stream. The zero value is ready to use.
type Sync struct {
	data     []byte
	returned int

	headerBytes int
	bodyBytes   int
}

// Write appends p to the unread data. It never fails.
func (s *Sync) Write(p []byte) (int, error) {
	if s.returned > 0 {
		n := copy(s.data, s.data[s.returned:])
		s.data = s.data[:n]
		s.returned = 0
	}
	s.data = append(s.data, p...)
	return len(p), nil
}

// Buffered returns the number of bytes written but not yet consumed.
func (s *Sync) Buffered() int { return len(s.data) - s.returned }

// Reset drops all buffered data.
func (s *Sync) Reset() {
	s.data = s.data[:0]
	s.returned = 0
	s.headerBytes = 0
	s.bodyBytes = 0
}

// PageSeek looks for a page at the start of the buffered data. It returns
// n > 0 and the page when a complete, valid page of n bytes was captured;
// 0 when more data is needed; and -n when n bytes were skipped while
// searching for the next capture pattern. The page owns its bytes.
func (s *Sync) PageSeek() (Page, int) {
	page := s.data[s.returned:]

	if s.headerBytes == 0 {
		if len(page) < HeaderSize {
			return Page{}, 0
		}
		if string(page[:4]) != capturePattern {
			return Page{}, s.lostSync(page)
		}
		headerBytes := HeaderSize + int(page[26])
		if len(page) < headerBytes {
			return Page{}, 0
		}
		body := 0
		for _, v := range page[HeaderSize:headerBytes] {
			body += int(v)
		}
		s.headerBytes = headerBytes
		s.bodyBytes = body
	}

	total := s.headerBytes + s.bodyBytes
	if len(page) < total {
		return Page{}, 0
	}
	if binary.LittleEndian.Uint32(page[22:26]) != Checksum(page[:total]) {
		return Page{}, s.lostSync(page)
	}

	raw := append([]byte(nil), page[:total]...)
	p := Page{Header: raw[:s.headerBytes], Body: raw[s.headerBytes:]}
	s.returned += total
	s.headerBytes = 0
	s.bodyBytes = 0
	return p, total
}

func (s *Sync) lostSync(page []byte) int {
	s.headerBytes = 0
	s.bodyBytes = 0
	skip := bytes.IndexByte(page[1:], 'O')
	if skip < 0 {
		skip = len(page)
	} else {
		skip++
	}
	s.returned += skip
	return -skip
}

// SPDX-License-Identifier: EPL-2.0

package source

import (
	"fmt"
	"io"
	"os"
)

const (
	defaultBufSize = 8192
	minBufSize     = 16
)

// ReadSeeker is a buffered Source over an io.ReadSeeker. Seeks that land
// inside the buffer do not touch the underlying reader.
type ReadSeeker struct {
	buf  []byte
	pos  int64 // absolute offset of buf[0]
	rd   io.ReadSeeker
	r, w int
	err  error

	closer io.Closer
}

// NewReadSeekerSize returns a ReadSeeker with a buffer of at least size bytes.
// If rd implements io.Closer, Close closes it.
func NewReadSeekerSize(rd io.ReadSeeker, size int) *ReadSeeker {
	if b, ok := rd.(*ReadSeeker); ok && len(b.buf) >= size {
		return b
	}
	if size < minBufSize {
		size = minBufSize
	}
	c, _ := rd.(io.Closer)
	return &ReadSeeker{buf: make([]byte, size), rd: rd, closer: c}
}

// NewReadSeeker returns a ReadSeeker with the default buffer size.
func NewReadSeeker(rd io.ReadSeeker) *ReadSeeker {
	return NewReadSeekerSize(rd, defaultBufSize)
}

// Open opens the named file as a buffered source.
func Open(path string) (*ReadSeeker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return NewReadSeeker(f), nil
}

func (b *ReadSeeker) readErr() error {
	err := b.err
	b.err = nil
	return err
}

// Read reads into p from at most one Read of the underlying reader.
func (b *ReadSeeker) Read(p []byte) (int, error) {
	if b.rd == nil {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		if b.w > b.r {
			return 0, nil
		}
		return 0, b.readErr()
	}
	if b.r == b.w {
		if b.err != nil {
			return 0, b.readErr()
		}
		if len(p) >= len(b.buf) {
			// large read into an empty buffer goes straight to p
			n, err := b.rd.Read(p)
			if n < 0 {
				panic(errNegativeRead)
			}
			b.pos += int64(b.r) + int64(n)
			b.r, b.w = 0, 0
			return n, err
		}
		b.pos += int64(b.r)
		b.r, b.w = 0, 0
		n, err := b.rd.Read(b.buf)
		if n < 0 {
			panic(errNegativeRead)
		}
		b.err = err
		if n == 0 {
			return 0, b.readErr()
		}
		b.w = n
	}

	n := copy(p, b.buf[b.r:b.w])
	b.r += n
	return n, nil
}

// Seek implements io.Seeker.
func (b *ReadSeeker) Seek(offset int64, whence int) (int64, error) {
	if b.rd == nil {
		return 0, ErrClosed
	}
	if offset == 0 && whence == io.SeekCurrent {
		return b.position(), nil
	}
	if whence == io.SeekEnd {
		return b.seek(offset, whence)
	}
	abs := offset
	if whence == io.SeekCurrent {
		abs += b.position()
	}
	if abs < 0 {
		return 0, ErrOffset
	}
	if abs >= b.pos && abs < b.pos+int64(b.w) {
		b.r = int(abs - b.pos)
		return abs, nil
	}
	return b.seek(abs, io.SeekStart)
}

func (b *ReadSeeker) seek(offset int64, whence int) (int64, error) {
	b.r, b.w = 0, 0
	b.err = nil
	pos, err := b.rd.Seek(offset, whence)
	if err != nil {
		return b.pos, fmt.Errorf("%w", err)
	}
	b.pos = pos
	return pos, nil
}

// Tell returns the current read offset.
func (b *ReadSeeker) Tell() (int64, error) {
	if b.rd == nil {
		return 0, ErrClosed
	}
	return b.position(), nil
}

func (b *ReadSeeker) position() int64 { return b.pos + int64(b.r) }

// Close closes the underlying reader if it is an io.Closer.
func (b *ReadSeeker) Close() error {
	if b.rd == nil {
		return nil
	}
	b.rd = nil
	b.buf = nil
	if b.closer != nil {
		if err := b.closer.Close(); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

// SPDX-License-Identifier: EPL-2.0

package source

import "io"

// Memory is a seekable Source over a byte slice.
type Memory struct {
	data   []byte
	off    int64
	closed bool
}

// NewMemory returns a source reading data. The slice is not copied.
func NewMemory(data []byte) *Memory {
	return &Memory{data: data}
}

func (m *Memory) Read(p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if m.off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.off:])
	m.off += int64(n)
	return n, nil
}

func (m *Memory) Seek(offset int64, whence int) (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.off + offset
	case io.SeekEnd:
		abs = int64(len(m.data)) + offset
	default:
		return m.off, ErrOffset
	}
	if abs < 0 {
		return m.off, ErrOffset
	}
	m.off = abs
	return abs, nil
}

func (m *Memory) Tell() (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	return m.off, nil
}

// Len returns the size of the underlying buffer.
func (m *Memory) Len() int { return len(m.data) }

func (m *Memory) Close() error {
	m.closed = true
	m.data = nil
	return nil
}

// SPDX-License-Identifier: EPL-2.0

package source

import (
	"fmt"
	"io"
)

// Stream is a forward-only Source, for pipes and network connections.
type Stream struct {
	r io.Reader
}

// NewStream wraps r. Seek and Tell always fail with ErrNotSeekable; Close
// closes r if it is an io.Closer.
func NewStream(r io.Reader) *Stream {
	return &Stream{r: r}
}

func (s *Stream) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, ErrClosed
	}
	return s.r.Read(p)
}

func (s *Stream) Seek(int64, int) (int64, error) { return 0, ErrNotSeekable }
func (s *Stream) Tell() (int64, error)           { return 0, ErrNotSeekable }

func (s *Stream) Close() error {
	r := s.r
	s.r = nil
	if c, ok := r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}

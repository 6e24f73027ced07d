// SPDX-License-Identifier: EPL-2.0

package source

import "io"

// Source supplies bytes to a decoder.
type Source interface {
	io.Reader
	io.Closer

	// Seek sets the offset for the next Read, like io.Seeker.
	Seek(offset int64, whence int) (int64, error)

	// Tell returns the current offset.
	Tell() (int64, error)
}

// Seekable reports whether src supports random access.
func Seekable(src Source) bool {
	_, err := src.Tell()
	return err == nil
}

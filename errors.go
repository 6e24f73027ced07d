// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import (
	"errors"
	"fmt"
)

var (
	// ErrNotThisFormat is returned when the source does not start with a
	// logical bitstream of the configured codec.
	ErrNotThisFormat = errors.New("vorbisfile: not an ogg stream of the expected codec")
	// ErrBadHeader is returned for malformed or missing header packets.
	ErrBadHeader = errors.New("vorbisfile: invalid header packets")
	// ErrRead wraps I/O errors of the byte source.
	ErrRead = errors.New("vorbisfile: read failed")
	// ErrNoPage is returned when a bounded scan found no page.
	ErrNoPage = errors.New("vorbisfile: no page found")
	// ErrHole reports lost or corrupt pages. Reading may continue.
	ErrHole = errors.New("vorbisfile: hole in data")
	// ErrInvalidLink is returned for a page whose serial number matches no
	// known link.
	ErrInvalidLink = errors.New("vorbisfile: page belongs to no known link")
	// ErrBadLink is returned when a link's decode profile cannot be used.
	ErrBadLink = errors.New("vorbisfile: invalid link")
	// ErrInvalidArgument is returned for out of range arguments and calls
	// the file cannot serve.
	ErrInvalidArgument = errors.New("vorbisfile: invalid argument")
	// ErrFault reports an internal inconsistency.
	ErrFault = errors.New("vorbisfile: internal fault")

	ErrInvalidState = fmt.Errorf("%w: call not valid in current state", ErrInvalidArgument)
	ErrNotSeekable  = fmt.Errorf("%w: source is not seekable", ErrInvalidArgument)
)

func readError(err error) error {
	return fmt.Errorf("%w: %w", ErrRead, err)
}

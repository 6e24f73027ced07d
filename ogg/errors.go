// SPDX-License-Identifier: EPL-2.0

package ogg

import "errors"

var (
	// ErrHole marks a gap in a logical bitstream: at least one page was lost.
	ErrHole = errors.New("ogg: hole in data")

	// ErrSerialMismatch is returned by Stream.PageIn for pages of another
	// logical bitstream.
	ErrSerialMismatch = errors.New("ogg: page serial number mismatch")

	// ErrVersion is returned for pages with an unknown stream structure version.
	ErrVersion = errors.New("ogg: unsupported stream structure version")
)

// SPDX-License-Identifier: EPL-2.0

// Package source provides the byte sources a chained Ogg file is read from.
//
// Every source implements Source: Read, Seek, Tell and Close. Seekable
// sources allow random access (link discovery, seeking); a Stream only
// allows forward reading and reports ErrNotSeekable from Seek and Tell.
//
//	src, err := source.Open("album.ogg")   // buffered file
//	src := source.NewMemory(data)          // in-memory buffer
//	src := source.NewReadSeeker(rs)        // any io.ReadSeeker
//	src := source.NewStream(conn)          // forward-only
package source

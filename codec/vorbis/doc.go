// SPDX-License-Identifier: EPL-2.0

// Package vorbis adapts github.com/jfreymuth/vorbis to the codec package.
//
// Synthesis, header parsing and lapping are done by jfreymuth/vorbis. What
// the container engine needs in addition is the block size of a packet
// without decoding it, which depends on the mode table at the tail of the
// setup header. That table is recovered by scanning the setup header
// backwards from its framing bit, reading bits with github.com/icza/bitio:
//
//	... mode_count-1 (6) | per mode: blockflag (1) windowtype (16)
//	    transformtype (16) mapping (8) | framing (1) | padding
//
// Walking backwards, mode entries are read until one is implausible; the
// mode count is the last candidate that agrees with the 6-bit count field
// found right before it.
package vorbis

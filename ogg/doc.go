// SPDX-License-Identifier: EPL-2.0

// Package ogg implements the Ogg framing layer: page capture from an
// arbitrary byte stream and packet reassembly for one logical bitstream.
//
// # Pages
//
// Sync is the page framer. Bytes are written into it as they are read from
// the underlying source, and PageSeek hands out complete, CRC-checked pages:
//
//	var s ogg.Sync
//	s.Write(chunk)
//	page, n := s.PageSeek()
//	switch {
//	case n > 0: // page holds n bytes
//	case n == 0: // need more data
//	default: // -n bytes were skipped while looking for a capture pattern
//	}
//
// # Packets
//
// Stream reassembles packets of a single serial number from pages:
//
//	st := ogg.NewStream(page.Serial())
//	st.PageIn(&page)
//	for {
//	    pkt, ok, err := st.PacketOut()
//	    if errors.Is(err, ogg.ErrHole) { continue } // data was lost
//	    if !ok { break }                            // need another page
//	    use(pkt)
//	}
//
// Page sequence gaps are reported once as ErrHole, at the position where
// data went missing.
package ogg

// SPDX-License-Identifier: EPL-2.0

// Package vorbisfile provides random access to chained Ogg Vorbis
// bitstreams.
//
// A physical Ogg stream may hold several logical bitstreams ("links") one
// after the other, each with its own serial number, channel count, sample
// rate and length. Opening a seekable source builds an index of every link
// by bisecting the file on serial number changes; no index is stored in the
// file itself. The decoded samples of all links form one timeline that can
// be addressed by byte offset, page, sample or time.
//
// # Opening
//
//	f, err := vorbisfile.OpenFile("chain.ogg")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
// Open is OpenPartial followed by FinishOpen. The first step only reads the
// headers of the first link and is enough to inspect a file; the second
// builds the link index. A partially opened file may be closed without
// finishing.
//
// Sources that cannot seek (see source.NewStream) are played in streaming
// mode: links are discovered as they are reached and every seek returns
// ErrNotSeekable.
//
// # Seeking
//
//   - SeekRaw positions at a byte offset
//   - SeekPage positions at the start of the page holding a sample
//   - SeekSample positions exactly at a sample
//   - SeekTime and SeekTimePage take seconds
//
// Positions are absolute over the whole chain; link i starts at the sum of
// the lengths of the links before it.
//
//	if err := f.SeekSample(44100); err != nil {
//		return err
//	}
//	f.TellPcm() // 44100
//
// # Reading
//
// ReadPacked returns 16-bit PCM and ReadFloat per-channel float samples.
// Both report which link the samples came from, and return io.EOF at the
// end of the stream:
//
//	buf := make([]byte, 4096)
//	for {
//		n, link, err := f.ReadPacked(buf, true)
//		if errors.Is(err, io.EOF) {
//			break
//		}
//		if errors.Is(err, vorbisfile.ErrHole) {
//			continue
//		}
//		if err != nil {
//			return err
//		}
//		prof, _ := f.Profile(link)
//		consume(buf[:n], prof.Channels)
//	}
//
// The codec is pluggable through WithCodec; the default decodes Vorbis with
// github.com/jfreymuth/vorbis.
package vorbisfile

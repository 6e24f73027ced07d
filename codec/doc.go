// SPDX-License-Identifier: EPL-2.0

// Package codec connects packet-level synthesis engines to the container
// engine.
//
// A Codec names an engine and knows how to recognise its identification
// header. While a link is indexed, a HeaderParser collects the link's three
// header packets into a Profile. A Profile can then start any number of
// Sessions; a Session owns one Decoder and keeps the bookkeeping the
// container needs on top of raw synthesis:
//
//   - decoded samples are buffered until the caller consumes them;
//   - granule positions carried by packets are tracked so that samples
//     outside the stream's declared range are trimmed, at the start of a
//     stream and on its last page;
//   - packets that are not audio are reported with ErrNotAudio.
//
// The Vorbis engine lives in codec/vorbis.
package codec

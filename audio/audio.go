// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// Source is a stream of interleaved PCM samples.
//
// A source whose format changes mid-stream, such as a chained Ogg file whose
// links differ in channel count or sample rate, returns 0 and
// ErrFormatChanged once at the boundary. SampleRate and Channels then
// describe the samples that follow.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

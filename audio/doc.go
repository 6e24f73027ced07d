// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM stream interface decoders produce and the
// processors that normalize it.
//
// # Source Interface
//
// A Source yields interleaved float32 samples:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders of chained formats may change channel count or sample rate
// between links. Such a source returns ErrFormatChanged once at each
// boundary, with no samples; Channels and SampleRate then describe what
// follows.
//
// # Channel Mixing
//
// MonoMixer averages all channels into one. It absorbs channel count
// changes and passes sample rate changes on:
//
//	mono := audio.NewMonoMixer(src)
//
// # Resampling
//
// Resampler converts to a fixed rate with cubic interpolation and a
// one-pole low-pass when downsampling. It absorbs sample rate changes and
// passes channel count changes on, so that
//
//	out := audio.NewResampler(audio.NewMonoMixer(src), 8000)
//
// is a mono 8 kHz stream whatever the links of src look like.
package audio

// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files into an audio.Source.
//
// Decoding is done by the vorbisfile engine, so chained files (several
// logical bitstreams played back to back, as produced by Internet radio
// recorders and concatenated files) are read in full. Seekable inputs are
// indexed when decoded; other readers are decoded as a stream.
//
// # Decoding
//
//	f, _ := os.Open("audio.ogg")
//	defer f.Close()
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    // handle error
//	}
//	defer src.Close()
//
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// Samples are interleaved float32 values in [-1, 1]:
//
//	[L0, R0, L1, R1, ...]
//
// # Chained Files
//
// Links of a chained file may differ in channel count or sample rate. At
// such a boundary ReadSamples returns 0 and audio.ErrFormatChanged once;
// SampleRate and Channels then describe the following samples. A pipeline
// that needs one format throughout wraps the source:
//
//	uniform := audio.NewResampler(audio.NewMonoMixer(src), 16000)
//
// # Random Access
//
// NewSource adapts a vorbisfile.File that the caller opened and positioned:
//
//	f, _ := vorbisfile.OpenFile("audio.ogg")
//	_ = f.SeekTime(30)
//	src := vorbis.NewSource(f)
//
// Lost or corrupt pages are skipped silently.
package vorbis

// SPDX-License-Identifier: EPL-2.0

// Package wav writes audio.Source streams as 16-bit PCM WAV files.
//
// Encoding is done by github.com/go-audio/wav. Float samples in [-1, 1] are
// scaled by 32768, rounded to nearest and saturated, the same conversion
// vorbisfile applies to packed PCM.
//
//	out, _ := os.Create("out.wav")
//	defer out.Close()
//	frames, err := wav.Encode(out, src)
//
// A WAV file has one format, so Encode stops with ErrMixedFormat when the
// source reports audio.ErrFormatChanged. The samples written up to that
// point form a complete file. Wrap a chained source in audio.NewMonoMixer
// and audio.NewResampler to encode it whole.
package wav

// SPDX-License-Identifier: EPL-2.0

// ogg2wav converts Ogg Vorbis files, chained or not, to 16-bit PCM WAV files.
//
// Usage:
//
//	ogg2wav [OPTION]... FILE.ogg...
//
// Flags:
//
//	-f
//		Force overwrite of existing WAV files.
//	-mono
//		Downmix to one channel.
//	-rate int
//		Resample to the given sample rate in Hz.
//	-split
//		Write one WAV file per link (FILE_NN.wav).
//	-start float
//		Start decoding at the given time in seconds.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"

	"github.com/ik5/vorbisfile"
	"github.com/ik5/vorbisfile/audio"
	"github.com/ik5/vorbisfile/formats/vorbis"
	"github.com/ik5/vorbisfile/formats/wav"
)

func usage() {
	const use = `
Convert Ogg Vorbis files to WAV files.

Usage:

	ogg2wav [OPTION]... FILE.ogg...

Flags:
`
	fmt.Fprint(os.Stderr, use[1:])
	flag.PrintDefaults()
}

// options control the conversion of one file.
type options struct {
	force bool
	mono  bool
	split bool
	rate  int
	start float64
	open  []vorbisfile.Option
}

func main() {
	var opt options
	flag.BoolVar(&opt.force, "f", false, "force overwrite")
	flag.BoolVar(&opt.mono, "mono", false, "downmix to one channel")
	flag.BoolVar(&opt.split, "split", false, "write one WAV file per link")
	flag.IntVar(&opt.rate, "rate", 0, "resample to `Hz`")
	flag.Float64Var(&opt.start, "start", 0, "start decoding at `seconds`")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	for _, path := range flag.Args() {
		if err := ogg2wav(path, opt); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

// ogg2wav converts the Ogg file at path to one or more WAV files.
func ogg2wav(path string, opt options) error {
	if opt.split && opt.start > 0 {
		return errors.New("-start cannot be combined with -split")
	}
	if opt.rate < 0 {
		return errors.Errorf("invalid sample rate %d", opt.rate)
	}

	f, err := vorbisfile.OpenFile(path, opt.open...)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	if opt.split {
		return splitLinks(path, f, opt)
	}
	if opt.start > 0 {
		if err := f.SeekTime(opt.start); err != nil {
			return errors.Wrapf(err, "seek to %v s", opt.start)
		}
	}
	return encode(pathutil.TrimExt(path)+".wav", pipeline(vorbis.NewSource(f), opt), opt.force)
}

// splitLinks writes every link of f with samples to its own WAV file.
func splitLinks(path string, f *vorbisfile.File, opt options) error {
	var start int64
	for i := range f.LinkCount() {
		n, err := f.TotalPcmSamples(i)
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			log.Printf("%s: skipping empty or damaged link %d", path, i)
			continue
		}
		if err := f.SeekSample(start); err != nil {
			return errors.Wrapf(err, "seek to link %d", i)
		}
		wavPath := fmt.Sprintf("%s_%02d.wav", pathutil.TrimExt(path), i)
		if err := encode(wavPath, pipeline(&linkSource{f: f, left: n}, opt), opt.force); err != nil {
			return err
		}
		start += n
	}
	return nil
}

func pipeline(src audio.Source, opt options) audio.Source {
	if opt.mono {
		src = audio.NewMonoMixer(src)
	}
	if opt.rate > 0 {
		src = audio.NewResampler(src, opt.rate)
	}
	return src
}

// encode writes src to a new WAV file at wavPath.
func encode(wavPath string, src audio.Source, force bool) error {
	if !force && osutil.Exists(wavPath) {
		return errors.Errorf("WAV file %q already present; use -f flag to force overwrite", wavPath)
	}
	w, err := os.Create(wavPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()

	frames, err := wav.Encode(w, src)
	if errors.Is(err, wav.ErrMixedFormat) {
		return errors.Wrapf(err, "%q: links differ in format; use -mono and -rate, or -split", wavPath)
	}
	if err != nil {
		return errors.WithStack(err)
	}
	log.Printf("%s: %d frames at %d Hz", wavPath, frames, src.SampleRate())
	return nil
}

// linkSource reads the next left samples per channel of f.
type linkSource struct {
	f    *vorbisfile.File
	left int64
}

func (s *linkSource) SampleRate() int { return s.f.SampleRate() }
func (s *linkSource) Channels() int   { return s.f.Channels() }
func (s *linkSource) BufSize() int    { return 4096 }
func (s *linkSource) Close() error    { return nil }

func (s *linkSource) ReadSamples(dst []float32) (int, error) {
	ch := s.f.Channels()
	for s.left > 0 {
		n, err := s.f.ReadSamples(dst[:min(int64(len(dst)/ch), s.left)*int64(ch)])
		if errors.Is(err, vorbisfile.ErrHole) {
			continue
		}
		s.left -= int64(n / ch)
		return n, err
	}
	return 0, io.EOF
}

// SPDX-License-Identifier: EPL-2.0

// ogginfo prints the link table of Ogg Vorbis files.
//
// Usage:
//
//	ogginfo [OPTION]... FILE.ogg...
//
// Flags:
//
//	-comments
//		Print the user comments of every link.
//	-verify
//		Cross-check the length and format of single-link files with an
//		independent decoder.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/jfreymuth/oggvorbis"
	"github.com/pkg/errors"

	"github.com/ik5/vorbisfile"
)

func usage() {
	const use = `
Print the links of chained Ogg Vorbis files.

Usage:

	ogginfo [OPTION]... FILE.ogg...

Flags:
`
	fmt.Fprint(os.Stderr, use[1:])
	flag.PrintDefaults()
}

type options struct {
	comments bool
	verify   bool
	open     []vorbisfile.Option
}

func main() {
	var opt options
	flag.BoolVar(&opt.comments, "comments", false, "print user comments")
	flag.BoolVar(&opt.verify, "verify", false, "cross-check single-link files with an independent decoder")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	for _, path := range flag.Args() {
		if err := ogginfo(os.Stdout, path, opt); err != nil {
			log.Fatalf("%+v", err)
		}
	}
}

func ogginfo(w io.Writer, path string, opt options) error {
	f, err := vorbisfile.OpenFile(path, opt.open...)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	samples, err := f.TotalPcmSamples(vorbisfile.Whole)
	if err != nil {
		return errors.WithStack(err)
	}
	seconds, err := f.TotalTimeSeconds(vorbisfile.Whole)
	if err != nil {
		return errors.WithStack(err)
	}
	bitrate, err := f.Bitrate(vorbisfile.Whole)
	if err != nil {
		return errors.WithStack(err)
	}
	fmt.Fprintf(w, "%s: %d links, %d samples, %.3f s, %d bit/s\n", path, f.LinkCount(), samples, seconds, bitrate)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "link\tserial\toffset\tbytes\tchannels\trate\tsamples\tseconds\tbitrate\tvendor")
	for i := range f.LinkCount() {
		l, err := f.Link(i)
		if err != nil {
			return errors.WithStack(err)
		}
		if l.Profile == nil {
			fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t-\t-\t-\t-\t-\t(damaged)\n", i, l.Serial, l.Start, l.End-l.Start)
			continue
		}
		secs, _ := f.TotalTimeSeconds(i)
		br, _ := f.Bitrate(i)
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.3f\t%d\t%s\n",
			i, l.Serial, l.Start, l.End-l.Start, l.Profile.Channels, l.Profile.SampleRate,
			l.PCMLength, secs, br, l.Profile.Vendor)
	}
	if err := tw.Flush(); err != nil {
		return errors.WithStack(err)
	}

	if opt.comments {
		for i := range f.LinkCount() {
			_, comments, err := f.Comment(i)
			if err != nil {
				continue
			}
			for _, c := range comments {
				fmt.Fprintf(w, "link %d: %s\n", i, c)
			}
		}
	}

	if opt.verify {
		if err := verify(path, f); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: verified\n", path)
	}
	return nil
}

// verify compares the length and format of a single-link file with what
// oggvorbis reports.
func verify(path string, f *vorbisfile.File) error {
	if n := f.LinkCount(); n != 1 {
		return errors.Errorf("%q: -verify supports single-link files only, found %d links", path, n)
	}
	r, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()

	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return errors.Wrapf(err, "%q", path)
	}
	l, err := f.Link(0)
	if err != nil {
		return errors.WithStack(err)
	}
	if l.Profile == nil {
		return errors.Errorf("%q: link has no headers", path)
	}
	if dec.Channels() != l.Profile.Channels || dec.SampleRate() != l.Profile.SampleRate {
		return errors.Errorf("%q: format %d Hz %d channels, oggvorbis reports %d Hz %d channels",
			path, l.Profile.SampleRate, l.Profile.Channels, dec.SampleRate(), dec.Channels())
	}
	if n := dec.Length(); n != l.PCMLength {
		return errors.Errorf("%q: %d samples, oggvorbis reports %d", path, l.PCMLength, n)
	}
	return nil
}

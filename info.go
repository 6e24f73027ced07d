// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import (
	"fmt"
	"math"

	"github.com/ik5/vorbisfile/codec"
)

// Whole selects the whole file in the per-link accessors.
const Whole = -1

func (f *File) checkLink(i int) error {
	if err := f.checkOpened(); err != nil {
		return err
	}
	if i < Whole || i >= len(f.links) {
		return fmt.Errorf("%w: link %d of %d", ErrInvalidArgument, i, len(f.links))
	}
	return nil
}

func (f *File) pcmTotal() int64 { return f.pcmBefore(len(f.links)) }

func (f *File) linkSeconds(i int) float64 {
	l := f.links[i]
	if l.Profile == nil || l.Profile.SampleRate == 0 {
		return 0
	}
	return float64(l.PCMLength) / float64(l.Profile.SampleRate)
}

// TotalRawBytes returns the compressed size of link i, or of the whole
// stream for Whole.
func (f *File) TotalRawBytes(i int) (int64, error) {
	if err := f.checkLink(i); err != nil {
		return 0, err
	}
	if !f.seekable {
		return 0, ErrNotSeekable
	}
	if i == Whole {
		var total int64
		for _, l := range f.links {
			total += l.End - l.Start
		}
		return total, nil
	}
	return f.links[i].End - f.links[i].Start, nil
}

// TotalPcmSamples returns the number of samples of link i, or of the whole
// stream for Whole.
func (f *File) TotalPcmSamples(i int) (int64, error) {
	if err := f.checkLink(i); err != nil {
		return 0, err
	}
	if !f.seekable {
		return 0, ErrNotSeekable
	}
	if i == Whole {
		return f.pcmTotal(), nil
	}
	return f.links[i].PCMLength, nil
}

// TotalTimeSeconds returns the duration of link i, or of the whole stream
// for Whole.
func (f *File) TotalTimeSeconds(i int) (float64, error) {
	if err := f.checkLink(i); err != nil {
		return 0, err
	}
	if !f.seekable {
		return 0, ErrNotSeekable
	}
	if i != Whole {
		return f.linkSeconds(i), nil
	}
	var t float64
	for j := range f.links {
		t += f.linkSeconds(j)
	}
	return t, nil
}

// TellRaw returns the byte offset of the next page to be read.
func (f *File) TellRaw() int64 { return f.offset }

// TellPcm returns the absolute position of the next sample, or -1 when it
// is unknown.
func (f *File) TellPcm() int64 { return f.pcm }

// TellTime returns the position of the next sample in seconds, or -1 when
// it is unknown.
func (f *File) TellTime() float64 {
	if f.state < stateOpened || f.pcm < 0 {
		return -1
	}
	if !f.seekable {
		l := f.links[f.cur]
		if l.Profile == nil || l.Profile.SampleRate == 0 {
			return f.streamTime
		}
		return f.streamTime + float64(f.pcm-f.streamBase)/float64(l.Profile.SampleRate)
	}
	link, base := f.linkAt(f.pcm)
	var t float64
	for i := range link {
		t += f.linkSeconds(i)
	}
	return t + float64(f.pcm-base)/float64(f.links[link].Profile.SampleRate)
}

func (f *File) profileLink(i int) int {
	if i == Whole || !f.seekable && i >= 0 {
		return f.cur
	}
	return i
}

// Profile returns the decode profile of link i, or of the current link for
// Whole. It is nil for a link whose headers could not be parsed.
func (f *File) Profile(i int) (*codec.Profile, error) {
	if err := f.checkLink(i); err != nil {
		return nil, err
	}
	return f.links[f.profileLink(i)].Profile, nil
}

// Comment returns the vendor string and user comments of link i, or of the
// current link for Whole.
func (f *File) Comment(i int) (string, []string, error) {
	prof, err := f.Profile(i)
	if err != nil {
		return "", nil, err
	}
	if prof == nil {
		return "", nil, fmt.Errorf("%w: link %d has no headers", ErrBadLink, i)
	}
	return prof.Vendor, prof.Comments, nil
}

// SerialNumber returns the serial number of link i, or of the current link
// for Whole. Indexes past the last link select the last link.
func (f *File) SerialNumber(i int) uint32 {
	if len(f.links) == 0 {
		return 0
	}
	if i < 0 {
		i = Whole
	}
	i = min(i, len(f.links)-1)
	return f.links[f.profileLink(i)].Serial
}

// Bitrate returns the average bitrate in bits per second of link i, or of
// the whole stream for Whole. A non-seekable stream reports the bitrate
// announced in the headers of the current link; zero means unknown.
func (f *File) Bitrate(i int) (int64, error) {
	if err := f.checkLink(i); err != nil {
		return 0, err
	}
	if !f.seekable {
		prof := f.links[f.cur].Profile
		if prof == nil {
			return 0, nil
		}
		br := prof.Bitrate
		switch {
		case br.Nominal > 0:
			return int64(br.Nominal), nil
		case br.Maximum > 0 && br.Minimum > 0:
			return int64(br.Maximum+br.Minimum) / 2, nil
		default:
			return int64(br.Maximum), nil
		}
	}

	var (
		bits    int64
		seconds float64
	)
	if i == Whole {
		for j, l := range f.links {
			bits += (l.End - l.DataOffset) * 8
			seconds += f.linkSeconds(j)
		}
	} else {
		l := f.links[i]
		bits = (l.End - l.DataOffset) * 8
		seconds = f.linkSeconds(i)
	}
	if seconds == 0 {
		return 0, nil
	}
	return int64(math.RoundToEven(float64(bits) / seconds)), nil
}

// InstantaneousBitrate returns the bitrate of the data decoded since the
// last call or seek. ok is false when no samples were decoded.
func (f *File) InstantaneousBitrate() (br int64, ok bool) {
	if f.state < stateOpened || f.samples == 0 {
		return 0, false
	}
	prof := f.links[f.cur].Profile
	if prof == nil {
		return 0, false
	}
	br = int64(float64(f.bits)/float64(f.samples)*float64(prof.SampleRate) + .5)
	f.resetBitrate()
	return br, true
}

func (f *File) resetBitrate() {
	f.bits = 0
	f.samples = 0
}

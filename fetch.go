// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/vorbisfile/codec"
	"github.com/ik5/vorbisfile/ogg"
)

// fetchAndProcess decodes the next audio packet, reading pages and
// switching links as needed. With span false the end of the current link
// is reported as io.EOF.
func (f *File) fetchAndProcess(span bool) error {
	for {
		if f.state == stateLinkSelected {
			if err := f.ensureCodecReady(); err != nil {
				return err
			}
		}
		if f.state == stateCodecReady {
			done, err := f.processPacket()
			if done || err != nil {
				return err
			}
		}
		if f.state < stateOpened {
			return f.invalidState("read")
		}

		page, off, err := f.nextPage(unbounded)
		if err != nil {
			return err
		}
		f.bits += int64(len(page.Header)) * 8

		if f.state >= stateLinkSelected && page.Serial() != f.stream.Serial() {
			if !page.BOS() {
				continue
			}
			if !span {
				return io.EOF
			}
			f.logger.Debug("vorbisfile: leaving link", "link", f.cur, "pcm", f.pcm)
			f.dropLink()
		}

		if f.state < stateLinkSelected {
			if !f.seekable {
				if err := f.nextStreamLink(&page, off); err != nil {
					return err
				}
				continue
			}
			i := f.ownedBy(page.Serial())
			if i < 0 {
				return fmt.Errorf("%w: serial %d at offset %d", ErrInvalidLink, page.Serial(), off)
			}
			if f.links[i].Profile == nil || f.links[i].Serial != page.Serial() {
				continue
			}
			if err := f.activateLink(i); err != nil {
				return err
			}
		}
		f.stream.PageIn(&page)
	}
}

// processPacket decodes packets of the current link until one produces
// samples or the demultiplexer needs another page.
func (f *File) processPacket() (bool, error) {
	for {
		pkt, ok, err := f.stream.PacketOut()
		if err != nil {
			return true, fmt.Errorf("%w: %w", ErrHole, err)
		}
		if !ok {
			return false, nil
		}
		if err := f.session.Synthesize(pkt); err != nil {
			if errors.Is(err, codec.ErrPending) {
				return true, fmt.Errorf("%w: %w", ErrFault, err)
			}
			// headers and undecodable packets are skipped
			continue
		}

		pending := int64(f.session.Pending())
		f.samples += pending
		f.bits += int64(len(pkt.Data)) * 8
		if pkt.Granule != -1 && !pkt.EOS {
			f.pcm = f.absolute(pkt.Granule) - pending
		}
		return true, nil
	}
}

// absolute converts a granule position of the current link to an absolute
// PCM position.
func (f *File) absolute(granule int64) int64 {
	if !f.seekable {
		return max(granule, 0) + f.streamBase
	}
	l := f.links[f.cur]
	return max(granule-l.PCMOffset, 0) + f.pcmBefore(f.cur)
}

// pcmBefore returns the PCM length of the links before link i.
func (f *File) pcmBefore(i int) int64 {
	var total int64
	for _, l := range f.links[:i] {
		total += l.PCMLength
	}
	return total
}

// nextStreamLink reads the headers of a link met while streaming and
// selects it.
func (f *File) nextStreamLink(first *ogg.Page, offset int64) error {
	link, err := f.fetchHeaders(first)
	if err != nil {
		return err
	}
	link.Start = offset
	if n := len(f.links); n > 0 {
		prev := &f.links[n-1]
		prev.End = offset
		if f.pcm >= 0 {
			prev.PCMLength = f.pcm - f.streamBase
			f.streamBase = f.pcm
		}
		if prev.Profile != nil && prev.Profile.SampleRate > 0 {
			f.streamTime += float64(prev.PCMLength) / float64(prev.Profile.SampleRate)
		}
	}
	f.links = append(f.links, link)
	f.logger.Debug("vorbisfile: entering streamed link", "link", len(f.links)-1, "serial", link.Serial)
	return f.activateLink(len(f.links) - 1)
}

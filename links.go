// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import (
	"errors"
	"fmt"
)

// discoverLinks resolves head, whose headers and PCM offset are known, and
// every link after it. searched is an offset known to be inside head and
// end bounds the search; endSerial is the serial of the last page of the
// stream. It returns head followed by the later links.
func (f *File) discoverLinks(head Link, searched, end int64, endSerial uint32) ([]Link, error) {
	if head.owns(endSerial) {
		head.End = f.end
		if err := f.resolveLength(&head, f.end); err != nil {
			return nil, err
		}
		return []Link{head}, nil
	}

	endSearched, next := end, end
	for searched < endSearched {
		bisect := searched
		if endSearched-searched >= f.probe {
			bisect = searched + (endSearched-searched)/2
		}
		if err := f.seekHelper(bisect); err != nil {
			return nil, err
		}
		page, off, err := f.nextPage(unbounded)
		if err != nil && !noPage(err) {
			return nil, err
		}
		if err != nil || !head.owns(page.Serial()) {
			endSearched = bisect
			if err == nil {
				next = off
			}
			continue
		}
		searched = f.offset
	}

	head.End = next
	if err := f.resolveLength(&head, next); err != nil {
		return nil, err
	}
	f.logger.Debug("vorbisfile: link boundary", "serial", head.Serial, "start", head.Start, "end", next)

	nextHead, err := f.openLinkAt(next)
	if err != nil {
		return nil, err
	}
	rest, err := f.discoverLinks(nextHead, nextHead.DataOffset, end, endSerial)
	if err != nil {
		return nil, err
	}
	return append([]Link{head}, rest...), nil
}

// resolveLength sets the PCM length of link from the last granule position
// before end.
func (f *File) resolveLength(link *Link, end int64) error {
	if link.Profile == nil {
		return nil
	}
	granule, err := f.lastGranule(end, link.Start, link.Serial)
	if err != nil && !errors.Is(err, ErrNoPage) {
		return err
	}
	if err != nil {
		f.logger.Warn("vorbisfile: link without granule positions", "serial", link.Serial, "start", link.Start)
		return nil
	}
	link.PCMLength = max(granule-link.PCMOffset, 0)
	return nil
}

// openLinkAt reads the headers and PCM offset of the link starting at
// offset. A link whose headers cannot be parsed is returned without a
// profile.
func (f *File) openLinkAt(offset int64) (Link, error) {
	if err := f.seekHelper(offset); err != nil {
		return Link{}, err
	}
	link, err := f.fetchHeaders(nil)
	switch {
	case errors.Is(err, ErrRead):
		return Link{}, err
	case err != nil:
		f.logger.Warn("vorbisfile: damaged link", "offset", offset, "err", err)
		return f.damagedLink(offset)
	}
	link.Start = offset
	if link.PCMOffset, err = f.initialPCMOffset(link); err != nil {
		return Link{}, err
	}
	return link, nil
}

// damagedLink records the link at offset by the serial of its first page.
func (f *File) damagedLink(offset int64) (Link, error) {
	if err := f.seekHelper(offset); err != nil {
		return Link{}, err
	}
	page, _, err := f.nextPage(unbounded)
	if err != nil {
		if noPage(err) {
			return Link{}, fmt.Errorf("%w: no page at link boundary %d", ErrFault, offset)
		}
		return Link{}, err
	}
	serial := page.Serial()
	return Link{
		Serial:     serial,
		Start:      offset,
		DataOffset: f.offset,
		serials:    []uint32{serial},
	}, nil
}

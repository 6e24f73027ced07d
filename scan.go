// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/ik5/vorbisfile/codec"
	"github.com/ik5/vorbisfile/ogg"
)

// unbounded makes nextPage read until a page or the end of the stream.
const unbounded = -1

// seekHelper moves the source to offset and drops buffered data.
func (f *File) seekHelper(offset int64) error {
	if offset == f.offset {
		return nil
	}
	if _, err := f.src.Seek(offset, io.SeekStart); err != nil {
		return readError(err)
	}
	f.offset = offset
	f.sync.Reset()
	return nil
}

// getData feeds the next chunk of the source to the page framer. It
// returns false at the end of the stream.
func (f *File) getData() (bool, error) {
	for {
		n, err := f.src.Read(f.buf)
		if n > 0 {
			f.sync.Write(f.buf[:n])
			return true, nil
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, readError(err)
		}
	}
}

// nextPage returns the next page and its offset. With a boundary above
// zero no page starting boundary bytes or more past the current offset is
// returned; with zero only buffered data is searched. ErrNoPage reports a
// bounded search without result and io.EOF the end of the stream.
func (f *File) nextPage(boundary int64) (ogg.Page, int64, error) {
	if boundary > 0 {
		boundary += f.offset
	}
	for {
		if boundary > 0 && f.offset >= boundary {
			return ogg.Page{}, 0, ErrNoPage
		}
		page, n := f.sync.PageSeek()
		switch {
		case n < 0:
			f.offset -= int64(n)
		case n == 0:
			if boundary == 0 {
				return ogg.Page{}, 0, ErrNoPage
			}
			more, err := f.getData()
			if err != nil {
				return ogg.Page{}, 0, err
			}
			if !more {
				return ogg.Page{}, 0, io.EOF
			}
		default:
			off := f.offset
			f.offset += int64(n)
			return page, off, nil
		}
	}
}

func noPage(err error) bool {
	return errors.Is(err, ErrNoPage) || errors.Is(err, io.EOF)
}

// scanBack calls match for every page starting in successively larger
// windows before end, until a window yields a match or floor is reached.
// match sees the pages of one window in stream order.
func (f *File) scanBack(end, floor int64, match func(ogg.Page, int64) bool) (bool, error) {
	window := f.probe
	for end > floor {
		begin := max(end-window, floor)
		if err := f.seekHelper(begin); err != nil {
			return false, err
		}
		found := false
		for f.offset < end {
			page, off, err := f.nextPage(end - f.offset)
			if noPage(err) {
				break
			}
			if err != nil {
				return false, err
			}
			if match(page, off) {
				found = true
			}
		}
		if found {
			return true, nil
		}
		end = begin
		window *= 2
	}
	return false, nil
}

// prevPage returns the last page starting before end.
func (f *File) prevPage(end int64) (ogg.Page, int64, error) {
	var (
		last    ogg.Page
		lastOff int64 = -1
	)
	found, err := f.scanBack(end, 0, func(p ogg.Page, off int64) bool {
		last, lastOff = p, off
		return true
	})
	if err != nil {
		return ogg.Page{}, 0, err
	}
	if !found {
		return ogg.Page{}, 0, fmt.Errorf("%w: before offset %d", ErrNoPage, end)
	}
	return last, lastOff, nil
}

// lastGranule returns the granule position of the last page of serial that
// starts in [floor, end) and carries one.
func (f *File) lastGranule(end, floor int64, serial uint32) (int64, error) {
	granule := int64(-1)
	found, err := f.scanBack(end, floor, func(p ogg.Page, _ int64) bool {
		if p.Serial() != serial || p.Granule() == -1 {
			return false
		}
		granule = p.Granule()
		return true
	})
	if err != nil {
		return -1, err
	}
	if !found {
		return -1, fmt.Errorf("%w: no granule position for serial %d", ErrNoPage, serial)
	}
	return granule, nil
}

// fetchHeaders reads the headers of the link starting at the current
// offset and leaves the demultiplexer bound to it. first, if not nil, is
// the link's first page, already read.
func (f *File) fetchHeaders(first *ogg.Page) (Link, error) {
	var link Link
	page := first
	if page == nil {
		p, _, err := f.nextPage(f.probe)
		if errors.Is(err, ErrRead) {
			return link, err
		}
		if err != nil {
			return link, fmt.Errorf("%w: no page at offset %d", ErrNotThisFormat, f.offset)
		}
		page = &p
	}

	var hp *codec.HeaderParser
	for page != nil && page.BOS() {
		serial := page.Serial()
		if link.owns(serial) {
			return link, fmt.Errorf("%w: serial %d repeated", ErrBadHeader, serial)
		}
		link.serials = append(link.serials, serial)

		if hp == nil {
			f.stream.ResetSerial(serial)
			if err := f.stream.PageIn(page); err != nil {
				return link, fmt.Errorf("%w: %w", ErrBadHeader, err)
			}
			pkt, ok, _ := f.stream.PacketOut()
			if ok && f.codec.Identify(pkt.Data) {
				hp = codec.NewHeaderParser(f.codec)
				if err := hp.ParseHeader(pkt.Data); err != nil {
					return link, fmt.Errorf("%w: %w", ErrBadHeader, err)
				}
				link.Serial = serial
			}
		}

		p, _, err := f.nextPage(f.probe)
		switch {
		case errors.Is(err, ErrRead):
			return link, err
		case err != nil:
			page = nil
		default:
			page = &p
		}
	}
	if hp == nil {
		return link, fmt.Errorf("%w: no %s stream", ErrNotThisFormat, f.codec.Name)
	}

	for {
		for !hp.Done() {
			pkt, ok, err := f.stream.PacketOut()
			if err != nil {
				return link, fmt.Errorf("%w: %w", ErrBadHeader, err)
			}
			if !ok {
				break
			}
			if err := hp.ParseHeader(pkt.Data); err != nil {
				return link, fmt.Errorf("%w: %w", ErrBadHeader, err)
			}
		}
		if hp.Done() {
			break
		}
		if page == nil {
			p, _, err := f.nextPage(f.probe)
			if errors.Is(err, ErrRead) {
				return link, err
			}
			if err != nil {
				return link, fmt.Errorf("%w: missing header packets", ErrBadHeader)
			}
			page = &p
		}
		if page.BOS() {
			return link, fmt.Errorf("%w: new stream inside headers", ErrBadHeader)
		}
		if page.Serial() == link.Serial {
			if err := f.stream.PageIn(page); err != nil {
				return link, fmt.Errorf("%w: %w", ErrBadHeader, err)
			}
		}
		page = nil
	}

	prof, err := hp.Profile()
	if err != nil {
		return link, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	link.Profile = prof
	link.DataOffset = f.offset
	return link, nil
}

// initialPCMOffset reads the first audio pages of link, which the
// demultiplexer must be positioned after the headers of, and returns the
// granule position of the link's first sample.
func (f *File) initialPCMOffset(link Link) (int64, error) {
	var (
		accumulated int64
		lastBlock   = -1
	)
	for {
		page, _, err := f.nextPage(unbounded)
		if noPage(err) {
			break
		}
		if err != nil {
			return 0, err
		}
		if page.BOS() {
			break
		}
		if page.Serial() != link.Serial {
			continue
		}
		f.stream.PageIn(&page)
		for {
			pkt, ok, err := f.stream.PacketOut()
			if errors.Is(err, ogg.ErrHole) {
				continue
			}
			if !ok {
				break
			}
			bs := link.Profile.BlockSize(pkt.Data)
			if bs < 0 {
				continue
			}
			if lastBlock != -1 {
				accumulated += int64(lastBlock+bs) >> 2
			}
			lastBlock = bs
		}
		if g := page.Granule(); g != -1 {
			return max(g-accumulated, 0), nil
		}
	}
	return 0, nil
}

func (f *File) ownedBy(serial uint32) int {
	return slices.IndexFunc(f.links, func(l Link) bool { return l.owns(serial) })
}

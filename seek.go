// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/vorbisfile/ogg"
)

func (f *File) checkSeek() error {
	if err := f.checkOpened(); err != nil {
		return err
	}
	if !f.seekable {
		return ErrNotSeekable
	}
	return nil
}

// rollback restores the cursor a failed seek started from.
func (f *File) rollback(prev int64, err error) error {
	f.pcm = -1
	f.dropLink()
	if prev < 0 {
		return err
	}
	if rerr := f.seekSample(prev); rerr != nil {
		f.logger.Warn("vorbisfile: seek rollback failed", "pcm", prev, "err", rerr)
		f.pcm = -1
		f.dropLink()
	}
	return err
}

// SeekRaw positions the file at a byte offset. Decoding restarts at the
// first packet that can be decoded from there.
func (f *File) SeekRaw(offset int64) error {
	if err := f.checkSeek(); err != nil {
		return err
	}
	if offset < 0 || offset > f.end {
		return fmt.Errorf("%w: offset %d outside [0, %d]", ErrInvalidArgument, offset, f.end)
	}
	prev := f.pcm
	if err := f.seekRaw(offset); err != nil {
		return f.rollback(prev, err)
	}
	return nil
}

func (f *File) seekRaw(pos int64) error {
	if f.state >= stateLinkSelected {
		if l := f.links[f.cur]; pos < l.Start || pos >= l.End {
			f.dropLink()
		}
	}
	f.pcm = -1
	f.stream.ResetSerial(f.links[f.cur].Serial)
	if f.session != nil {
		f.session.Restart()
	}
	if err := f.seekHelper(pos); err != nil {
		return err
	}

	// The scratch stream finds the first granule position while the real
	// stream keeps the packets before it for decoding.
	scratch := ogg.NewStream(f.links[f.cur].Serial)
	defer scratch.Clear()

	var (
		lastBlock, accBlock int
		lastFlag            bool
		firstFlag           = f.state >= stateLinkSelected && pos <= f.links[f.cur].DataOffset
	)
scan:
	for {
		if f.state >= stateLinkSelected {
			pkt, ok, _ := scratch.PacketOut()
			if ok {
				l := f.links[f.cur]
				bs := l.Profile.BlockSize(pkt.Data)
				switch {
				case bs < 0:
					f.stream.PacketOut()
					bs = 0
				case lastFlag && !firstFlag:
					// the granule position of a last page may be short
					f.stream.PacketOut()
				case lastBlock != 0:
					accBlock += (lastBlock + bs) >> 2
				}
				if pkt.Granule != -1 {
					f.pcm = max(max(pkt.Granule-l.PCMOffset, 0)-int64(accBlock), 0) + f.pcmBefore(f.cur)
					break scan
				}
				lastBlock = bs
				continue
			}
		}

		if lastBlock != 0 {
			// packets without a granule position on their page
			f.pcm = -1
			break
		}
		page, off, err := f.nextPage(unbounded)
		if noPage(err) {
			f.pcm = f.pcmTotal()
			break
		}
		if err != nil {
			return err
		}

		if f.state >= stateLinkSelected && page.Serial() != f.links[f.cur].Serial && page.BOS() {
			f.dropLink()
			scratch.Clear()
		}
		if f.state >= stateLinkSelected && page.Serial() != f.links[f.cur].Serial {
			// another logical stream multiplexed into the link
			continue
		}
		if f.state < stateLinkSelected {
			i := f.ownedBy(page.Serial())
			if i < 0 || f.links[i].Profile == nil || f.links[i].Serial != page.Serial() {
				continue
			}
			if err := f.activateLink(i); err != nil {
				return err
			}
			scratch.ResetSerial(page.Serial())
			firstFlag = off <= f.links[i].DataOffset
		}
		f.stream.PageIn(&page)
		scratch.PageIn(&page)
		lastFlag = page.EOS()
	}
	f.resetBitrate()
	return nil
}

// linkAt returns the link holding absolute PCM position pos and the
// position of its first sample.
func (f *File) linkAt(pos int64) (int, int64) {
	total := f.pcmTotal()
	for i := len(f.links) - 1; i >= 0; i-- {
		total -= f.links[i].PCMLength
		if pos >= total && f.links[i].Profile != nil {
			return i, total
		}
	}
	return 0, 0
}

func (f *File) checkPCM(pos int64) error {
	if err := f.checkSeek(); err != nil {
		return err
	}
	if total := f.pcmTotal(); pos < 0 || pos > total {
		return fmt.Errorf("%w: sample %d outside [0, %d]", ErrInvalidArgument, pos, total)
	}
	return nil
}

// SeekPage positions the file at the start of the page holding PCM
// position pos. TellPcm reports the position actually reached, which is at
// or before pos.
func (f *File) SeekPage(pos int64) error {
	if err := f.checkPCM(pos); err != nil {
		return err
	}
	prev := f.pcm
	if err := f.seekPage(pos); err != nil {
		return f.rollback(prev, err)
	}
	return nil
}

func (f *File) seekPage(pos int64) error {
	link, base := f.linkAt(pos)
	l := f.links[link]

	var (
		begin     = l.DataOffset
		end       = l.End
		beginTime = l.PCMOffset
		endTime   = l.PCMOffset + l.PCMLength
		target    = pos - base + beginTime
		best      = int64(-1)
		forward   = int64(l.Profile.SampleRate)
	)

	for begin < end {
		bisect := begin
		if end-begin >= f.probe && endTime > beginTime {
			// interpolate, then step back one window to land before the target
			frac := float64(target-beginTime) / float64(endTime-beginTime)
			bisect = begin + int64(frac*float64(end-begin)) - f.probe
			if bisect < begin+f.probe {
				bisect = begin
			}
		}
		if err := f.seekHelper(bisect); err != nil {
			return err
		}

	read:
		for begin < end {
			var (
				page ogg.Page
				off  int64
				err  = ErrNoPage
			)
			if f.offset < end {
				page, off, err = f.nextPage(end - f.offset)
			}
			if err != nil {
				if !noPage(err) {
					return err
				}
				if bisect <= begin+1 {
					end = begin
					break
				}
				// only part of the last page was in range; back up
				bisect = max(bisect-f.probe, begin+1)
				if err := f.seekHelper(bisect); err != nil {
					return err
				}
				continue
			}
			if page.Serial() != l.Serial || page.Granule() == -1 {
				continue
			}

			granule := page.Granule()
			if granule < target {
				best = off
				begin = f.offset
				beginTime = granule
				if target-beginTime > forward {
					break read
				}
				bisect = begin
				continue
			}
			switch {
			case bisect <= begin+1:
				end = begin
			case end == f.offset:
				end = off
				bisect = max(bisect-f.probe, begin+1)
				if err := f.seekHelper(bisect); err != nil {
					return err
				}
			default:
				end = bisect
				endTime = granule
				break read
			}
		}
	}

	if best == -1 {
		// the target is before the first granule position of the link
		if err := f.seekRaw(l.DataOffset); err != nil {
			return err
		}
		return f.verifySeek(pos)
	}

	if err := f.seekHelper(best); err != nil {
		return err
	}
	f.pcm = -1
	page, _, err := f.nextPage(unbounded)
	if err != nil {
		if noPage(err) {
			return fmt.Errorf("%w: page at %d vanished", ErrFault, best)
		}
		return err
	}
	if link != f.cur || f.state < stateLinkSelected {
		f.dropLink()
		if err := f.activateLink(link); err != nil {
			return err
		}
	} else if f.session != nil {
		f.session.Restart()
	}
	f.stream.ResetSerial(l.Serial)
	f.stream.PageIn(&page)

	// drop every packet before the one carrying the granule position
	for {
		pkt, ok, err := f.stream.PacketPeek()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrHole, err)
		}
		if !ok {
			// the packet started on an earlier page
			if err := f.seekContinued(best, l); err != nil {
				return err
			}
			return f.verifySeek(pos)
		}
		if pkt.Granule != -1 {
			f.pcm = max(pkt.Granule-l.PCMOffset, 0) + base
			break
		}
		f.stream.PacketOut()
	}
	if err := f.verifySeek(pos); err != nil {
		return err
	}
	f.resetBitrate()
	return nil
}

// seekContinued raw seeks to the page a packet ending at the page at
// offset started on.
func (f *File) seekContinued(offset int64, l Link) error {
	for offset > l.DataOffset {
		page, off, err := f.prevPage(offset)
		if err != nil {
			return err
		}
		if page.Serial() == l.Serial && (page.Granule() != -1 || !page.Continued()) {
			offset = off
			break
		}
		offset = off
	}
	if err := f.seekRaw(max(offset, l.DataOffset)); err != nil {
		return err
	}
	return nil
}

func (f *File) verifySeek(pos int64) error {
	if f.pcm < 0 || f.pcm > pos {
		return fmt.Errorf("%w: seek to %d reached %d", ErrFault, pos, f.pcm)
	}
	return nil
}

// SeekSample positions the file so that the next sample read is the one
// at absolute PCM position pos.
func (f *File) SeekSample(pos int64) error {
	if err := f.checkPCM(pos); err != nil {
		return err
	}
	prev := f.pcm
	if err := f.seekSample(pos); err != nil {
		return f.rollback(prev, err)
	}
	return nil
}

func (f *File) seekSample(pos int64) error {
	if err := f.seekPage(pos); err != nil {
		return err
	}
	if err := f.ensureCodecReady(); err != nil {
		return err
	}
	if err := f.skipPackets(pos); err != nil {
		return err
	}

	// decode and drop the samples before pos; crossing links is fine here
	for f.pcm < pos {
		n := min(int64(f.pending()), pos-f.pcm)
		if n > 0 {
			f.session.Consume(int(n))
			f.pcm += n
		}
		if f.pcm >= pos {
			break
		}
		err := f.fetchAndProcess(true)
		switch {
		case err == nil, errors.Is(err, ErrHole):
		case errors.Is(err, io.EOF):
			f.pcm = f.pcmTotal()
		default:
			return err
		}
	}
	f.resetBitrate()
	return nil
}

// skipPackets drops whole packets without decoding them while the target
// is more than a block ahead, then primes the decoder with the next one.
// The cursor tracks the first sample the packet after the primer yields.
func (f *File) skipPackets(pos int64) error {
	var (
		long = f.session.Info().BlockSizes[1]
		last int
	)
	for {
		pkt, ok, err := f.stream.PacketPeek()
		if err != nil {
			continue
		}
		if ok {
			bs := f.session.BlockSize(pkt.Data)
			if bs < 0 {
				f.stream.PacketOut()
				continue
			}
			if last != 0 {
				f.pcm += int64(last+bs) >> 2
			}
			if pkt.Granule != -1 && !pkt.EOS {
				f.pcm = f.absolute(pkt.Granule)
			}
			if f.pcm+int64(bs+long)>>2 >= pos {
				return f.prime(pkt)
			}
			f.stream.PacketOut()
			last = bs
			continue
		}

		page, _, err := f.nextPage(unbounded)
		if noPage(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if page.BOS() {
			f.dropLink()
		}
		if f.state < stateLinkSelected {
			i := f.ownedBy(page.Serial())
			if i < 0 || f.links[i].Profile == nil || f.links[i].Serial != page.Serial() {
				continue
			}
			if err := f.activateLink(i); err != nil {
				return err
			}
			if err := f.ensureCodecReady(); err != nil {
				return err
			}
			long = f.session.Info().BlockSizes[1]
			last = 0
			f.pcm = f.pcmBefore(i)
		}
		f.stream.PageIn(&page)
	}
}

// prime feeds the decoder the packet the next decoded samples lap with.
func (f *File) prime(pkt ogg.Packet) error {
	f.stream.PacketOut()
	base := f.pcmBefore(f.cur)
	if pkt.Granule == -1 && f.pcm > base {
		pkt.Granule = f.pcm - base + f.links[f.cur].PCMOffset
	}
	if err := f.session.Synthesize(pkt); err != nil {
		f.logger.Debug("vorbisfile: priming packet rejected", "err", err)
	}
	if n := f.pending(); n > 0 {
		return fmt.Errorf("%w: priming packet produced %d samples", ErrFault, n)
	}
	return nil
}

func (f *File) pending() int {
	if f.state != stateCodecReady {
		return 0
	}
	return f.session.Pending()
}

// SeekTime positions the file at a time in seconds from the start of the
// first link. The end of the stream is a valid target.
func (f *File) SeekTime(seconds float64) error {
	pos, err := f.timeToPCM(seconds)
	if err != nil {
		return err
	}
	return f.SeekSample(pos)
}

// SeekTimePage is SeekTime with the precision of SeekPage.
func (f *File) SeekTimePage(seconds float64) error {
	pos, err := f.timeToPCM(seconds)
	if err != nil {
		return err
	}
	return f.SeekPage(pos)
}

func (f *File) timeToPCM(seconds float64) (int64, error) {
	if err := f.checkSeek(); err != nil {
		return 0, err
	}
	if seconds < 0 || math.IsNaN(seconds) {
		return 0, fmt.Errorf("%w: time %v", ErrInvalidArgument, seconds)
	}
	var (
		pcm int64
		t   float64
	)
	for i, l := range f.links {
		add := f.linkSeconds(i)
		if seconds < t+add {
			return pcm + int64((seconds-t)*float64(l.Profile.SampleRate)), nil
		}
		t += add
		pcm += l.PCMLength
	}
	if seconds == t {
		return pcm, nil
	}
	return 0, fmt.Errorf("%w: time %v past end %v", ErrInvalidArgument, seconds, t)
}

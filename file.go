// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/ik5/vorbisfile/codec"
	"github.com/ik5/vorbisfile/ogg"
	"github.com/ik5/vorbisfile/source"
)

// Link is one logical bitstream of a chain.
type Link struct {
	Serial uint32
	// Start and End delimit the link in the physical stream. End is the
	// next link's Start, or the end of the stream.
	Start, End int64
	// DataOffset is the offset of the first page after the headers.
	DataOffset int64
	// PCMOffset is the granule position of the first sample.
	PCMOffset int64
	// PCMLength is the number of samples the link decodes to.
	PCMLength int64
	// Profile is nil when the link's headers could not be parsed.
	Profile *codec.Profile

	// serials are the serial numbers of every logical stream multiplexed
	// into the link.
	serials []uint32
}

func (l *Link) owns(serial uint32) bool {
	return slices.Contains(l.serials, serial)
}

// File gives random access to a chained Ogg bitstream. A File is not safe
// for concurrent use.
type File struct {
	src      source.Source
	seekable bool
	end      int64 // length of the physical stream, seekable only
	offset   int64 // stream offset of the next byte sync will see
	buf      []byte

	sync    ogg.Sync
	stream  *ogg.Stream
	session *codec.Session

	links []Link
	cur   int
	state state

	// pcm is the absolute position of the next sample returned, -1 when
	// unknown.
	pcm int64
	// streaming mode: PCM position and time at the start of the current link
	streamBase int64
	streamTime float64

	bits, samples int64

	planar [][]float32

	probe  int64
	codec  codec.Codec
	logger *slog.Logger
}

// OpenPartial reads the headers of the first link of src. The returned File
// must be completed with FinishOpen before use, or closed. On failure src
// is not closed.
func OpenPartial(src source.Source, opts ...Option) (*File, error) {
	cfg := newConfig(opts)
	f := &File{
		src:    src,
		buf:    make([]byte, cfg.readSize),
		stream: ogg.NewStream(0),
		pcm:    -1,
		probe:  cfg.probe,
		codec:  cfg.codec,
		logger: cfg.logger,
	}
	if source.Seekable(src) {
		off, err := src.Tell()
		if err == nil {
			f.seekable = true
			f.offset = off
		}
	}

	head, err := f.fetchHeaders(nil)
	if err != nil {
		return nil, err
	}
	head.Start = 0
	f.links = []Link{head}
	f.state = statePartOpen
	f.logger.Debug("vorbisfile: first link",
		"serial", head.Serial,
		"channels", head.Profile.Channels,
		"rate", head.Profile.SampleRate,
		"seekable", f.seekable)
	return f, nil
}

// FinishOpen indexes every link of a seekable source and positions the file
// at the first sample. A non-seekable source is left in streaming mode. On
// failure the file is closed.
func (f *File) FinishOpen() error {
	if err := f.finishOpen(); err != nil {
		return err
	}
	var err error
	if f.seekable {
		err = f.openSeekable()
	} else {
		err = f.activateLink(0)
	}
	if err != nil {
		f.Close()
		return err
	}
	return nil
}

// Open opens src and indexes it. On failure src is closed only if the
// headers of the first link were read.
func Open(src source.Source, opts ...Option) (*File, error) {
	f, err := OpenPartial(src, opts...)
	if err != nil {
		return nil, err
	}
	if err := f.FinishOpen(); err != nil {
		return nil, err
	}
	return f, nil
}

// OpenFile opens the named file.
func OpenFile(path string, opts ...Option) (*File, error) {
	src, err := source.Open(path)
	if err != nil {
		return nil, readError(err)
	}
	f, err := OpenPartial(src, opts...)
	if err != nil {
		src.Close()
		return nil, err
	}
	if err := f.FinishOpen(); err != nil {
		return nil, err
	}
	return f, nil
}

// OpenMemory opens a stream held in memory.
func OpenMemory(data []byte, opts ...Option) (*File, error) {
	return Open(source.NewMemory(data), opts...)
}

// Close releases the file and its source. Close is idempotent.
func (f *File) Close() error {
	if f.state == stateClosed {
		return nil
	}
	f.dropLink()
	f.state = stateClosed
	f.pcm = -1
	f.links = nil
	f.stream.Clear()
	f.sync.Reset()
	if err := f.src.Close(); err != nil && !errors.Is(err, source.ErrClosed) {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (f *File) checkOpened() error {
	if f.state < stateOpened {
		return f.invalidState("access")
	}
	return nil
}

// openSeekable builds the link index.
func (f *File) openSeekable() error {
	head := f.links[0]
	pcmOffset, err := f.initialPCMOffset(head)
	if err != nil {
		return err
	}
	head.PCMOffset = pcmOffset

	end, err := f.src.Seek(0, io.SeekEnd)
	if err != nil {
		return readError(err)
	}
	f.end = end
	f.offset = end
	f.sync.Reset()

	last, lastOff, err := f.prevPage(end)
	if err != nil {
		return fmt.Errorf("finding last page: %w", err)
	}
	links, err := f.discoverLinks(head, head.DataOffset, lastOff+1, last.Serial())
	if err != nil {
		return err
	}
	f.links = links
	f.logger.Debug("vorbisfile: indexed", "links", len(links), "bytes", end)
	return f.seekRaw(f.links[0].DataOffset)
}

// LinkCount returns the number of links discovered so far. It is final for
// seekable sources.
func (f *File) LinkCount() int { return len(f.links) }

// Link returns the index entry of link i.
func (f *File) Link(i int) (Link, error) {
	if i < 0 || i >= len(f.links) {
		return Link{}, fmt.Errorf("%w: link %d of %d", ErrInvalidArgument, i, len(f.links))
	}
	return f.links[i], nil
}

// IsSeekable reports whether the source supports seeking.
func (f *File) IsSeekable() bool { return f.seekable }

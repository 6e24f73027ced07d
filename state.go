// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import "fmt"

// state is the ready state of a File. States above stateOpened are entered
// and left only through the transitions below.
type state int

const (
	stateClosed state = iota
	statePartOpen
	stateOpened
	stateLinkSelected
	stateCodecReady
)

func (s state) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case statePartOpen:
		return "part-open"
	case stateOpened:
		return "opened"
	case stateLinkSelected:
		return "link-selected"
	case stateCodecReady:
		return "codec-ready"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (f *File) invalidState(op string) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidState, op, f.state)
}

// finishOpen moves a part-open file to opened.
func (f *File) finishOpen() error {
	if f.state != statePartOpen {
		return f.invalidState("finish open")
	}
	f.state = stateOpened
	return nil
}

// activateLink binds the demultiplexer to link i.
func (f *File) activateLink(i int) error {
	if f.state != stateOpened {
		return f.invalidState("activate link")
	}
	if i < 0 || i >= len(f.links) {
		return fmt.Errorf("%w: link %d of %d", ErrInvalidArgument, i, len(f.links))
	}
	f.cur = i
	f.stream.ResetSerial(f.links[i].Serial)
	f.state = stateLinkSelected
	return nil
}

// ensureCodecReady starts a codec session for the selected link.
func (f *File) ensureCodecReady() error {
	switch f.state {
	case stateCodecReady:
		return nil
	case stateLinkSelected:
	default:
		return f.invalidState("start codec")
	}
	prof := f.links[f.cur].Profile
	if prof == nil {
		return fmt.Errorf("%w: link %d has no decode profile", ErrBadLink, f.cur)
	}
	sess, err := prof.NewSession()
	if err != nil {
		return fmt.Errorf("%w: link %d: %w", ErrBadLink, f.cur, err)
	}
	f.session = sess
	f.state = stateCodecReady
	f.resetBitrate()
	return nil
}

// dropLink tears down the decode session.
func (f *File) dropLink() {
	if f.state > stateOpened {
		f.session = nil
		f.state = stateOpened
	}
}

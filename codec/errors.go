// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	ErrBadHeader = errors.New("codec: invalid header packet")
	ErrNotAudio  = errors.New("codec: not an audio packet")
	ErrDecode    = errors.New("codec: packet decoding failed")
	ErrPending   = errors.New("codec: decoded samples not consumed")
	ErrNoHeaders = errors.New("codec: headers incomplete")
)

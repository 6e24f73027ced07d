// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrInvalidFormat = errors.New("invalid WAV format")
	ErrPartialFrame  = errors.New("sample count is not a multiple of channels")
	// ErrMixedFormat is returned by Encode when the source changes channel
	// count or sample rate, which a single WAV file cannot hold.
	ErrMixedFormat = errors.New("source format changed mid-stream")
)

// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	// ErrFormatChanged reports that the samples after it have a different
	// channel count or sample rate.
	ErrFormatChanged = errors.New("audio format changed")
)

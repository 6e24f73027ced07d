// SPDX-License-Identifier: EPL-2.0

package source

import "errors"

var (
	ErrNotSeekable = errors.New("source: not seekable")
	ErrClosed      = errors.New("source: closed")
	ErrOffset      = errors.New("source: invalid offset")
)

var errNegativeRead = errors.New("source: reader returned negative count from Read")

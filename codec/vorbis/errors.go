// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	ErrIdentification = errors.New("vorbis: invalid identification header")
	ErrModes          = errors.New("vorbis: mode table not found in setup header")
	ErrPanic          = errors.New("vorbis: decoder failure")
)

// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
)

// Float32ToInt16 converts a sample in [-1, 1] to 16-bit PCM. The sample is
// scaled by 32768, rounded to nearest even and saturated.
func Float32ToInt16(x float32) int16 {
	v := math.RoundToEven(float64(x) * 32768)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}

// PackInt16 writes src to dst as little-endian 16-bit PCM and returns the
// number of bytes written. Unsigned output is offset by 32768.
func PackInt16(dst []byte, src []float32, signed bool) int {
	n := min(len(src), len(dst)/2)
	for i, x := range src[:n] {
		v := uint16(Float32ToInt16(x))
		if !signed {
			v += 1 << 15
		}
		binary.LittleEndian.PutUint16(dst[2*i:], v)
	}
	return 2 * n
}

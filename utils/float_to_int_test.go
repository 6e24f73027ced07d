// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"bytes"
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{
			name:  "zero",
			input: 0.0,
			want:  0,
		},
		{
			name:  "max positive",
			input: 1.0,
			want:  math.MaxInt16, // saturates, 32768 does not fit
		},
		{
			name:  "max negative",
			input: -1.0,
			want:  math.MinInt16,
		},
		{
			name:  "half positive",
			input: 0.5,
			want:  16384,
		},
		{
			name:  "half negative",
			input: -0.5,
			want:  -16384,
		},
		{
			name:  "round half to even down",
			input: 0.5 / 32768,
			want:  0,
		},
		{
			name:  "round half to even up",
			input: 1.5 / 32768,
			want:  2,
		},
		{
			name:  "small negative",
			input: -0.001,
			want:  -33, // -32.768
		},
		{
			name:  "clamp over max",
			input: 1.5,
			want:  math.MaxInt16,
		},
		{
			name:  "clamp under min",
			input: -1.5,
			want:  math.MinInt16,
		},
		{
			name:  "exact step",
			input: 1234.0 / 32768,
			want:  1234,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float32ToInt16(tt.input); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestPackInt16(t *testing.T) {
	t.Parallel()

	src := []float32{0, -1, 1, 0.5}
	tests := []struct {
		name   string
		dst    int
		signed bool
		want   []byte
	}{
		{"signed", 8, true, []byte{0x00, 0x00, 0x00, 0x80, 0xFF, 0x7F, 0x00, 0x40}},
		{"unsigned", 8, false, []byte{0x00, 0x80, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0xC0}},
		{"short dst", 5, true, []byte{0x00, 0x00, 0x00, 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dst := make([]byte, tt.dst)
			n := PackInt16(dst, src, tt.signed)
			if n != len(tt.want) {
				t.Fatalf("PackInt16() = %d, want %d", n, len(tt.want))
			}
			if !bytes.Equal(dst[:n], tt.want) {
				t.Errorf("PackInt16() wrote % x, want % x", dst[:n], tt.want)
			}
		})
	}
}

func BenchmarkFloat32ToInt16(b *testing.B) {
	b.ReportAllocs()
	var x float32
	for b.Loop() {
		_ = Float32ToInt16(x)
		x += 0.0001
		if x > 1 {
			x = -1
		}
	}
}

// SPDX-License-Identifier: EPL-2.0

package vorbisfile

import (
	"log/slog"

	"github.com/ik5/vorbisfile/codec"
	"github.com/ik5/vorbisfile/codec/vorbis"
	"github.com/ik5/vorbisfile/ogg"
)

const (
	// MinProbeWindow is the smallest probe window: the size of the largest
	// possible page.
	MinProbeWindow = ogg.MaxPageSize
	// DefaultProbeWindow is the probe window used when none is configured.
	DefaultProbeWindow = 65536
	// DefaultReadSize is the number of bytes requested per source read.
	DefaultReadSize = 2048
)

type config struct {
	probe    int64
	readSize int
	codec    codec.Codec
	logger   *slog.Logger
}

// Option configures a File.
type Option func(*config)

// WithProbeWindow sets the byte window of backward scans and of the step at
// which bisection stops. Values below MinProbeWindow are raised to it.
func WithProbeWindow(n int) Option {
	return func(c *config) {
		c.probe = max(int64(n), MinProbeWindow)
	}
}

// WithReadSize sets the number of bytes requested per source read.
func WithReadSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.readSize = n
		}
	}
}

// WithCodec selects the codec of the logical bitstreams. The default is
// Vorbis.
func WithCodec(c codec.Codec) Option {
	return func(cfg *config) {
		cfg.codec = c
	}
}

// WithLogger sets the logger for link discovery and seek diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		probe:    DefaultProbeWindow,
		readSize: DefaultReadSize,
		codec:    vorbis.Codec,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

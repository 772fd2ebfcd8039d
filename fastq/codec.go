// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fastq

import (
	"compress/gzip"
	"fmt"
	"io"
	"runtime"

	"github.com/biogo/hts/bgzf"
	"github.com/klauspost/compress/zstd"
)

// Codec is an output compression codec.
type Codec int

const (
	Plain Codec = iota
	Gzip
	Zstd
)

func (c Codec) String() string {
	switch c {
	case Plain:
		return "plain"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Codec(%d)", int(c))
	}
}

// Ext returns the file name suffix for the codec.
func (c Codec) Ext() string {
	switch c {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

// Level is a compression level.
type Level int

const (
	Default Level = iota
	Fast
	Best
)

// NewWriter returns a compressing writer writing to w. Closing the
// returned writer flushes the compressed stream but does not close w.
func (c Codec) NewWriter(w io.Writer, l Level) (io.WriteCloser, error) {
	switch c {
	case Plain:
		return nopCloser{w}, nil
	case Gzip:
		level := gzip.DefaultCompression
		switch l {
		case Fast:
			level = gzip.BestSpeed
		case Best:
			level = gzip.BestCompression
		}
		bg, err := bgzf.NewWriterLevel(w, level, runtime.GOMAXPROCS(0))
		if err != nil {
			return nil, fmt.Errorf("could not create gzip writer: %w", err)
		}
		return bg, nil
	case Zstd:
		level := zstd.SpeedDefault
		switch l {
		case Fast:
			level = zstd.SpeedFastest
		case Best:
			level = zstd.SpeedBestCompression
		}
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
		if err != nil {
			return nil, fmt.Errorf("could not create zstd writer: %w", err)
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("unknown codec: %v", c)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fastq provides FASTQ record reading and formatted,
// optionally compressed, record writing.
package fastq

import (
	"errors"
	"fmt"
	"io"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Record is a single FASTQ record.
type Record struct {
	Header []byte
	Seq    []byte
	Qual   []byte
}

// Reader reads FASTQ records.
type Reader struct {
	r *fastx.Reader
	n int
}

// Open returns a Reader reading from the file at path. If path is "-"
// the reader reads from standard input. Compressed input is detected
// from the file content.
func Open(path string) (*Reader, error) {
	r, err := fastx.NewReader(seq.DNAredundant, path, fastx.DefaultIDRegexp)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	return &Reader{r: r}, nil
}

// ErrNoQuality is returned when a record has no quality string.
var ErrNoQuality = errors.New("missing quality")

// Read returns the next record in the stream. At the end of the
// stream Read returns io.EOF. A malformed record is reported with
// its ordinal position in the stream.
func (r *Reader) Read() (Record, error) {
	rec, err := r.r.Read()
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("malformed record %d: %w", r.n+1, err)
	}
	r.n++
	if len(rec.Seq.Qual) == 0 && len(rec.Seq.Seq) != 0 {
		return Record{}, fmt.Errorf("malformed record %d (%s): %w", r.n, rec.Name, ErrNoQuality)
	}
	return Record{
		Header: append([]byte(nil), rec.Name...),
		Seq:    append([]byte(nil), rec.Seq.Seq...),
		Qual:   append([]byte(nil), rec.Seq.Qual...),
	}, nil
}

// Count returns the number of records read so far.
func (r *Reader) Count() int { return r.n }

// Close closes the underlying stream.
func (r *Reader) Close() {
	r.r.Close()
}

// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fastq

import (
	"bufio"
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
)

// Format is a record output format.
type Format int

const (
	// Sequence writes the bare sequence of each record.
	Sequence Format = iota
	// WithID writes the header and sequence of each record.
	WithID
	// FASTQ writes complete FASTQ records.
	FASTQ
	// FASTA writes records as FASTA sequences.
	FASTA
)

func (f Format) String() string {
	switch f {
	case Sequence:
		return "sequence"
	case WithID:
		return "with-id"
	case FASTQ:
		return "fastq"
	case FASTA:
		return "fasta"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the file name suffix for files holding records
// in the format.
func (f Format) Ext() string {
	switch f {
	case FASTQ:
		return ".fastq"
	case FASTA:
		return ".fasta"
	default:
		return ".txt"
	}
}

// Writer writes formatted records to an underlying writer.
type Writer struct {
	buf   *bufio.Writer
	c     io.Closer
	write func(Record) error
}

// NewWriter returns a Writer that writes records to w in the format f
// compressed with the codec c at the given level. Closing the Writer
// does not close w.
func NewWriter(w io.Writer, f Format, c Codec, l Level) (*Writer, error) {
	cw, err := c.NewWriter(w, l)
	if err != nil {
		return nil, err
	}
	fw := &Writer{buf: bufio.NewWriter(cw), c: cw}
	switch f {
	case Sequence:
		fw.write = fw.sequence
	case WithID:
		fw.write = fw.withID
	case FASTQ:
		fw.write = fw.fastq
	case FASTA:
		fw.write = fw.fasta
	default:
		return nil, fmt.Errorf("unknown format: %v", f)
	}
	return fw, nil
}

// Write writes r.
func (w *Writer) Write(r Record) error {
	return w.write(r)
}

func (w *Writer) sequence(r Record) error {
	w.buf.Write(r.Seq)
	return w.buf.WriteByte('\n')
}

func (w *Writer) withID(r Record) error {
	w.buf.WriteByte('@')
	w.buf.Write(r.Header)
	w.buf.WriteByte('\n')
	w.buf.Write(r.Seq)
	return w.buf.WriteByte('\n')
}

func (w *Writer) fastq(r Record) error {
	w.buf.WriteByte('@')
	w.buf.Write(r.Header)
	w.buf.WriteByte('\n')
	w.buf.Write(r.Seq)
	w.buf.WriteString("\n+\n")
	w.buf.Write(r.Qual)
	return w.buf.WriteByte('\n')
}

func (w *Writer) fasta(r Record) error {
	s := linear.NewSeq(string(r.Header), alphabet.BytesToLetters(r.Seq), alphabet.DNAredundant)
	_, err := fmt.Fprintf(w.buf, "%a\n", s)
	return err
}

// Flush flushes buffered records to the compressor.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// Close flushes buffered records and closes the compressor.
func (w *Writer) Close() error {
	err := w.buf.Flush()
	if err != nil {
		return err
	}
	return w.c.Close()
}

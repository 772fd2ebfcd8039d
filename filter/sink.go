// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/kortschak/fqmotif/fastq"
	"github.com/kortschak/fqmotif/motif"
)

// Multi returns a Sink that passes each result to each of sinks in
// order, stopping at the first error.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

type multi []Sink

func (m multi) Collect(r Result) error {
	for _, s := range m {
		err := s.Collect(r)
		if err != nil {
			return err
		}
	}
	return nil
}

// SinkFunc is a function adapter for Sink.
type SinkFunc func(Result) error

func (f SinkFunc) Collect(r Result) error { return f(r) }

// Output is a Sink that writes passing records.
type Output struct {
	W *fastq.Writer
}

func (o Output) Collect(r Result) error {
	if !r.Pass {
		return nil
	}
	return o.W.Write(r.Record)
}

// Counter is a Sink that counts passing records.
type Counter struct {
	N int
}

func (c *Counter) Collect(r Result) error {
	if r.Pass {
		c.N++
	}
	return nil
}

// Buckets is a Sink that writes each passing record to a file for
// each distinct name of the patterns it matched. Buckets requires
// results with matches.
type Buckets struct {
	names []string

	files   map[string]*os.File
	writers map[string]*fastq.Writer

	// Paths holds the bucket file path
	// for each pattern name.
	Paths map[string]string
}

// NewBuckets creates a bucket file in dir for each distinct pattern
// name in set. File names are the pattern name with white space and
// quote characters removed, followed by the format and codec suffixes.
func NewBuckets(dir string, set *motif.Set, f fastq.Format, c fastq.Codec, l fastq.Level) (*Buckets, error) {
	b := &Buckets{
		names:   set.Names,
		files:   make(map[string]*os.File),
		writers: make(map[string]*fastq.Writer),
		Paths:   make(map[string]string),
	}
	for _, name := range set.Names {
		if _, ok := b.files[name]; ok {
			continue
		}
		path := filepath.Join(dir, BucketName(name)+f.Ext()+c.Ext())
		file, err := os.Create(path)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("could not create bucket for %q: %w", name, err)
		}
		b.files[name] = file
		b.Paths[name] = path
		w, err := fastq.NewWriter(file, f, c, l)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("could not create bucket writer for %q: %w", name, err)
		}
		b.writers[name] = w
	}
	return b, nil
}

// BucketName returns name with white space and quote characters removed.
func BucketName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '"' || r == '\'' {
			return -1
		}
		return r
	}, name)
}

func (b *Buckets) Collect(r Result) error {
	if !r.Pass {
		return nil
	}
	for i, m := range r.Matches {
		name := b.names[m.Pattern]
		if written(r.Matches[:i], b.names, name) {
			continue
		}
		err := b.writers[name].Write(r.Record)
		if err != nil {
			return fmt.Errorf("could not write to bucket %q: %w", name, err)
		}
	}
	return nil
}

// written returns whether any of the matches has the given name.
func written(matches []Match, names []string, name string) bool {
	for _, m := range matches {
		if names[m.Pattern] == name {
			return true
		}
	}
	return false
}

// Close flushes and closes all bucket files. It returns the
// first error encountered.
func (b *Buckets) Close() error {
	var first error
	for name, f := range b.files {
		if w, ok := b.writers[name]; ok {
			err := w.Close()
			if err != nil && first == nil {
				first = err
			}
		}
		err := f.Close()
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

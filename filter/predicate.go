// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filter implements record predicate evaluation and an ordered
// parallel filtering pipeline over a stream of FASTQ records.
package filter

import (
	"github.com/kortschak/fqmotif/composition"
	"github.com/kortschak/fqmotif/fastq"
	"github.com/kortschak/fqmotif/motif"
)

// Config is a compiled filter. A Config is safe for concurrent use
// as long as it is not mutated.
type Config struct {
	Set       *motif.Set
	Predicate *motif.Predicate

	// Invert selects records that match
	// none of the patterns in Set.
	Invert bool
}

// Passes returns whether r satisfies the length, header and quality
// predicates of c, and whether any pattern in c's set matches the
// sequence of r, or if c is inverted, whether no pattern matches.
func (c *Config) Passes(r fastq.Record) bool {
	return c.Admits(r) && c.Contains(r.Seq) != c.Invert
}

// Admits returns whether r satisfies the length, header and quality
// predicates of c. The motif set is not consulted.
func (c *Config) Admits(r fastq.Record) bool {
	p := c.Predicate
	if p == nil {
		return true
	}
	if len(r.Seq) < p.MinLength {
		return false
	}
	if p.Header != nil && !p.Header.Match(r.Header) {
		return false
	}
	if p.CheckQuality && composition.AverageQuality(r.Qual, p.Encoding) < p.MinQuality {
		return false
	}
	return true
}

// Contains returns whether any pattern in c's set matches seq.
func (c *Config) Contains(seq []byte) bool {
	if c.Set == nil {
		return false
	}
	for _, re := range c.Set.Patterns {
		if re.Match(seq) {
			return true
		}
	}
	return false
}

// Match is the leftmost match of a single pattern in a sequence.
type Match struct {
	// Pattern is the index of the
	// matching pattern in the set.
	Pattern int

	Start, End int
	Substring  string
}

// Matches returns the leftmost match of each pattern in c's set that
// matches seq, in set order.
func (c *Config) Matches(seq []byte) []Match {
	if c.Set == nil {
		return nil
	}
	var m []Match
	for i, re := range c.Set.Patterns {
		loc := re.FindIndex(seq)
		if loc == nil {
			continue
		}
		m = append(m, Match{
			Pattern:   i,
			Start:     loc[0],
			End:       loc[1],
			Substring: string(seq[loc[0]:loc[1]]),
		})
	}
	return m
}

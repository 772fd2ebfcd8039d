// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package summary aggregates per-motif match statistics over a filtering
// run and renders them as text, JSON and DOT co-occurrence reports.
package summary

import (
	"sort"

	"github.com/kortschak/fqmotif/filter"
	"github.com/kortschak/fqmotif/motif"
)

// Aggregate is a filter.Sink collecting per-motif match counts, matched
// substring counts and motif co-occurrence counts from passing records.
type Aggregate struct {
	Set *motif.Set

	// Counts holds the number of passing records
	// matched by each pattern in Set.
	Counts []int
	// Substrings holds the number of times each
	// matched substring was the leftmost match of
	// each pattern in Set.
	Substrings []map[string]int

	// Pairs holds the number of records matched
	// by each pair of patterns, keyed by pattern
	// index with the lower index first.
	Pairs map[[2]int]int
}

// NewAggregate returns a new Aggregate for the motif set.
func NewAggregate(set *motif.Set) *Aggregate {
	a := &Aggregate{
		Set:        set,
		Counts:     make([]int, set.Len()),
		Substrings: make([]map[string]int, set.Len()),
		Pairs:      make(map[[2]int]int),
	}
	for i := range a.Substrings {
		a.Substrings[i] = make(map[string]int)
	}
	return a
}

// Collect adds the matches of a passing result to the aggregate.
func (a *Aggregate) Collect(r filter.Result) error {
	if !r.Pass {
		return nil
	}
	for i, m := range r.Matches {
		a.Counts[m.Pattern]++
		a.Substrings[m.Pattern][m.Substring]++
		for _, o := range r.Matches[i+1:] {
			a.Pairs[[2]int{m.Pattern, o.Pattern}]++
		}
	}
	return nil
}

// Total returns the total number of pattern matches collected.
func (a *Aggregate) Total() int {
	var n int
	for _, c := range a.Counts {
		n += c
	}
	return n
}

// SubstringCount is the number of occurrences of a matched substring.
type SubstringCount struct {
	Substring string
	Count     int
}

// Top returns the n most frequent substrings matched by pattern i in
// descending order of count with ties in ascending lexical order. If n
// is not positive all substrings are returned.
func (a *Aggregate) Top(i, n int) []SubstringCount {
	top := make([]SubstringCount, 0, len(a.Substrings[i]))
	for s, c := range a.Substrings[i] {
		top = append(top, SubstringCount{Substring: s, Count: c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Substring < top[j].Substring
	})
	if n > 0 && n < len(top) {
		top = top[:n]
	}
	return top
}

// ranked returns the indexes of patterns with a non-zero count in
// descending order of count with ties in set order.
func (a *Aggregate) ranked() []int {
	var idx []int
	for i, c := range a.Counts {
		if c != 0 {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return a.Counts[idx[i]] > a.Counts[idx[j]]
	})
	return idx
}

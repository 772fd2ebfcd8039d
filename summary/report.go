// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package summary

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Options controls report rendering.
type Options struct {
	// Counts includes match counts in text reports.
	Counts bool
	// Names includes the set name and all motifs
	// with their names in text reports of structured
	// definitions.
	Names bool
	// Variants is the number of most frequent
	// matched substrings included for each motif
	// in JSON reports. If not positive, all are
	// included.
	Variants int
}

// WriteText writes a text report of the aggregate to w. If structured
// is true motifs are reported in set order, otherwise only matched motifs
// are reported in descending order of match count.
func (a *Aggregate) WriteText(w io.Writer, structured bool, opts Options) error {
	bw := bufio.NewWriter(w)
	if !structured {
		for _, i := range a.ranked() {
			a.writeLine(bw, i, false, opts.Counts)
		}
		return bw.Flush()
	}
	if opts.Names {
		fmt.Fprintf(bw, "Regex Set Name: %s\n", a.Set.Name)
	}
	for i := range a.Counts {
		if !opts.Names && a.Counts[i] == 0 {
			continue
		}
		a.writeLine(bw, i, opts.Names, opts.Counts)
	}
	return bw.Flush()
}

func (a *Aggregate) writeLine(w io.Writer, i int, name, count bool) {
	switch {
	case name && count:
		fmt.Fprintf(w, "%s (%s): %d\n", a.Set.Names[i], a.Set.Motifs[i], a.Counts[i])
	case name:
		fmt.Fprintf(w, "%s (%s)\n", a.Set.Names[i], a.Set.Motifs[i])
	case count:
		fmt.Fprintf(w, "%s: %d\n", a.Set.Motifs[i], a.Counts[i])
	default:
		fmt.Fprintln(w, a.Set.Motifs[i])
	}
}

// Document is the JSON form of a summary report.
type Document struct {
	RegexSet SetSummary `json:"regexSet"`
}

// SetSummary summarises a motif set.
type SetSummary struct {
	Name  string         `json:"regexSetName"`
	Regex []MotifSummary `json:"regex"`
}

// MotifSummary summarises the matches of a single motif.
type MotifSummary struct {
	Name     string         `json:"regexName"`
	Motif    string         `json:"regexString"`
	Count    int            `json:"regexCount"`
	Variants []VariantCount `json:"variants"`
}

// VariantCount is the number of occurrences of a matched substring,
// labelled with the definition's variant name when it is a known variant.
type VariantCount struct {
	Variant string  `json:"variant"`
	Count   int     `json:"count"`
	Name    *string `json:"variantName"`
}

// Document returns the JSON report document for the aggregate.
func (a *Aggregate) Document(opts Options) Document {
	doc := Document{RegexSet: SetSummary{
		Name:  a.Set.Name,
		Regex: make([]MotifSummary, len(a.Counts)),
	}}
	for i, c := range a.Counts {
		top := a.Top(i, opts.Variants)
		m := MotifSummary{
			Name:     a.Set.Names[i],
			Motif:    a.Set.Motifs[i],
			Count:    c,
			Variants: make([]VariantCount, len(top)),
		}
		for j, s := range top {
			m.Variants[j] = VariantCount{Variant: s.Substring, Count: s.Count}
			if name, ok := a.Set.VariantName(i, s.Substring); ok {
				m.Variants[j].Name = &name
			}
		}
		doc.RegexSet.Regex[i] = m
	}
	return doc
}

// WriteJSON writes the JSON report document for the aggregate to w.
func (a *Aggregate) WriteJSON(w io.Writer, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(a.Document(opts))
}

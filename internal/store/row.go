// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/kortschak/fqmotif/composition"
	"github.com/kortschak/fqmotif/filter"
	"github.com/kortschak/fqmotif/motif"
)

// Row is a stored record with its composition and matches.
type Row struct {
	Index int `json:"index"`

	Header   string `json:"header"`
	Sequence string `json:"sequence"`
	Quality  string `json:"quality"`
	Length   int    `json:"length"`

	GC    float64 `json:"GC"`
	GCInt int     `json:"GC_int"`

	NTN  int             `json:"nTN"`
	NCTN int             `json:"nCTN"`
	TNF  json.RawMessage `json:"TNF"`
	CTNF json.RawMessage `json:"CTNF"`

	// AverageQuality is only set when the
	// definition names a quality encoding.
	AverageQuality *float64 `json:"average_quality,omitempty"`

	Variants []Variant `json:"variants"`
}

// Variant is a stored motif match.
type Variant struct {
	Pattern string `json:"pattern"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Match   string `json:"match"`
}

// NewRow returns the row for a passing pipeline result. Composition is
// computed with no profile limit if the result does not hold it.
func NewRow(r filter.Result, set *motif.Set, pred *motif.Predicate) (Row, error) {
	enc := composition.Phred33
	withQuality := false
	if pred != nil {
		enc = pred.Encoding
		withQuality = pred.EncodingSet
	}
	c := r.Composition
	if c == nil {
		comp := composition.Analyse(r.Record.Seq, r.Record.Qual, enc, 0)
		c = &comp
	}
	tnf, err := json.Marshal(c.Tetranucleotides)
	if err != nil {
		return Row{}, fmt.Errorf("could not marshal profile for record %d: %w", r.Index, err)
	}
	ctnf, err := json.Marshal(c.CanonicalTetranucleotides)
	if err != nil {
		return Row{}, fmt.Errorf("could not marshal canonical profile for record %d: %w", r.Index, err)
	}
	row := Row{
		Index: r.Index,

		Header:   string(r.Record.Header),
		Sequence: string(r.Record.Seq),
		Quality:  string(r.Record.Qual),
		Length:   c.Length,

		GC:    composition.Round2(c.GC),
		GCInt: int(math.Round(c.GC)),

		NTN:  c.Tetranucleotides.Unique,
		NCTN: c.CanonicalTetranucleotides.Unique,
		TNF:  tnf,
		CTNF: ctnf,

		Variants: make([]Variant, len(r.Matches)),
	}
	if withQuality {
		q := composition.Round2(c.AverageQuality)
		row.AverageQuality = &q
	}
	for i, m := range r.Matches {
		row.Variants[i] = Variant{
			Pattern: set.Motifs[m.Pattern],
			Start:   m.Start,
			End:     m.End,
			Match:   m.Substring,
		}
	}
	return row, nil
}

// Sink is a filter.Sink that inserts a row into a store for each
// passing record.
type Sink struct {
	Store     Store
	Set       *motif.Set
	Predicate *motif.Predicate
}

func (s Sink) Collect(r filter.Result) error {
	if !r.Pass {
		return nil
	}
	row, err := NewRow(r, s.Set, s.Predicate)
	if err != nil {
		return err
	}
	return s.Store.Insert(row)
}

// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package motif

import (
	"fmt"
	"math"
	"regexp"

	"github.com/kortschak/fqmotif/composition"
)

// Set is a compiled motif set. The Patterns, Names, Motifs and Variants
// fields are parallel slices, one element per definition entry in
// definition order. A Set must not be mutated after compilation.
type Set struct {
	Name string

	Patterns []*regexp.Regexp
	Names    []string
	Motifs   []string
	Variants [][]Variant
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Patterns)
}

// VariantName returns the name of the variant of pattern i with the
// literal sequence v, and whether such a variant exists.
func (s *Set) VariantName(i int, v string) (string, bool) {
	for _, vr := range s.Variants[i] {
		if vr.String == v {
			return vr.Name, true
		}
	}
	return "", false
}

// Predicate holds the record-level checks of a definition. The zero
// value admits every record.
type Predicate struct {
	// Header is matched against the raw record
	// header if it is not nil.
	Header *regexp.Regexp

	// MinLength is the minimum sequence length.
	MinLength int

	// MinQuality is the minimum average base quality,
	// checked only if CheckQuality is true.
	MinQuality   float64
	CheckQuality bool

	// Encoding is the quality score encoding. It is
	// Phred+33 unless the definition says otherwise.
	Encoding composition.Encoding
	// EncodingSet records whether the definition
	// named a quality encoding.
	EncodingSet bool
}

// Compile compiles the definition into a motif set and a record predicate.
// An illegal character in any motif, an invalid variant or an invalid
// pattern fails the whole definition.
func Compile(def *Definition) (*Set, *Predicate, error) {
	set := &Set{
		Name:     def.SetName,
		Patterns: make([]*regexp.Regexp, len(def.Entries)),
		Names:    make([]string, len(def.Entries)),
		Motifs:   make([]string, len(def.Entries)),
		Variants: make([][]Variant, len(def.Entries)),
	}
	for i, e := range def.Entries {
		expr, err := Expand(e.Motif)
		if err != nil {
			return nil, nil, err
		}
		set.Patterns[i], err = regexp.Compile(expr)
		if err != nil {
			return nil, nil, fmt.Errorf("could not compile motif %q: %w", e.Motif, err)
		}
		for _, v := range e.Variants {
			if !isDNA(v.String) {
				return nil, nil, fmt.Errorf("invalid variant %s of motif %q: %q is not a DNA sequence", v.Name, e.Motif, v.String)
			}
		}
		set.Names[i] = e.Label()
		set.Motifs[i] = e.Motif
		set.Variants[i] = e.Variants
	}

	pred := &Predicate{Encoding: composition.Phred33}
	if def.HeaderRegex != nil {
		var err error
		pred.Header, err = regexp.Compile(*def.HeaderRegex)
		if err != nil {
			return nil, nil, fmt.Errorf("could not compile header pattern %q: %w", *def.HeaderRegex, err)
		}
	}
	if def.MinimumSequenceLength != nil {
		n := math.Ceil(*def.MinimumSequenceLength)
		if n > 0 {
			pred.MinLength = int(math.Min(n, math.MaxInt32))
		}
	}
	if def.MinimumAverageQuality != nil {
		pred.MinQuality = *def.MinimumAverageQuality
		pred.CheckQuality = true
	}
	if def.QualityEncoding != nil {
		pred.Encoding = composition.ParseEncoding(*def.QualityEncoding)
		pred.EncodingSet = true
	}
	return set, pred, nil
}

// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package composition

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/biogo/biogo/alphabet"
)

// K is the tetranucleotide window width.
const K = 4

const nKmers = 1 << (2 * K)

var (
	// code is the two bit encoding of the upper case DNA
	// bases. All other bytes are marked with -1.
	code [256]int8

	// kmers holds the string form of each encoded window.
	kmers [nKmers]string

	// canonical maps each encoded window to the encoding of
	// the lesser of the window and its reverse complement.
	canonical [nKmers]uint8
)

const bases = "ACGT"

func init() {
	for i := range code {
		code[i] = -1
	}
	for i := 0; i < len(bases); i++ {
		code[bases[i]] = int8(i)
	}

	for k := 0; k < nKmers; k++ {
		var w, rc [K]byte
		for i := range w {
			w[K-1-i] = bases[(k>>(2*i))&0x3]
		}
		for i, b := range w {
			c, ok := alphabet.DNA.Complement(alphabet.Letter(b))
			if !ok {
				panic("composition: no complement for " + string(b))
			}
			rc[K-1-i] = byte(c)
		}
		kmers[k] = string(w[:])
		r := encode(rc[:])
		if r < k {
			canonical[k] = uint8(r)
		} else {
			canonical[k] = uint8(k)
		}
	}
}

// encode returns the two bit encoding of w which must
// hold only upper case DNA bases.
func encode(w []byte) int {
	var k int
	for _, b := range w {
		k = k<<2 | int(code[b])
	}
	return k
}

// Canonical returns the canonical form of the tetranucleotide w, the
// lexicographically lesser of w and its reverse complement. It returns
// false if w is not a window of four upper case DNA bases.
func Canonical(w string) (string, bool) {
	if len(w) != K {
		return "", false
	}
	for i := 0; i < K; i++ {
		if code[w[i]] < 0 {
			return "", false
		}
	}
	return kmers[canonical[encode([]byte(w))]], true
}

// Frequency is the relative frequency of a single k-mer.
type Frequency struct {
	Kmer    string
	Count   int
	Percent float64
}

// Profile is a k-mer frequency profile sorted by descending
// frequency with ties ordered by ascending k-mer.
type Profile struct {
	// Frequencies holds the retained k-mers.
	Frequencies []Frequency
	// Unique is the number of distinct k-mers seen,
	// including any not retained.
	Unique int
}

// MarshalJSON renders the profile as a JSON object mapping k-mers to
// percentages in profile order.
func (p Profile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.Frequencies {
		if i != 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Kmer)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.Percent)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Tetranucleotides returns the tetranucleotide frequency profile of seq.
// Windows containing bytes other than upper case A, C, G or T are skipped.
// If top is positive only the top most frequent k-mers are retained.
func Tetranucleotides(seq []byte, top int) Profile {
	return profile(seq, top, false)
}

// CanonicalTetranucleotides returns the canonical tetranucleotide frequency
// profile of seq, merging each window with its reverse complement. Windows
// containing bytes other than upper case A, C, G or T are skipped. If top is
// positive only the top most frequent k-mers are retained.
func CanonicalTetranucleotides(seq []byte, top int) Profile {
	return profile(seq, top, true)
}

func profile(seq []byte, top int, canon bool) Profile {
	var (
		counts [nKmers]int
		total  int

		k, run int
	)
	for _, b := range seq {
		c := code[b]
		if c < 0 {
			run = 0
			continue
		}
		k = (k<<2 | int(c)) & (nKmers - 1)
		run++
		if run < K {
			continue
		}
		idx := k
		if canon {
			idx = int(canonical[k])
		}
		counts[idx]++
		total++
	}
	if total == 0 {
		return Profile{}
	}

	var p Profile
	for i, n := range counts {
		if n == 0 {
			continue
		}
		p.Frequencies = append(p.Frequencies, Frequency{
			Kmer:    kmers[i],
			Count:   n,
			Percent: Round4(float64(n) / float64(total) * 100),
		})
	}
	// Indexes are in lexical order so a stable
	// sort leaves ties in ascending k-mer order.
	sort.SliceStable(p.Frequencies, func(i, j int) bool {
		return p.Frequencies[i].Count > p.Frequencies[j].Count
	})
	p.Unique = len(p.Frequencies)
	if top > 0 && top < len(p.Frequencies) {
		p.Frequencies = p.Frequencies[:top]
	}
	return p
}

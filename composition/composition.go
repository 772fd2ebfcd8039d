// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package composition provides sequence composition statistics for
// FASTQ records: average base quality, GC content and raw and canonical
// tetranucleotide frequency profiles.
package composition

// GCContent returns the percentage of G and C bases among the upper case
// A, C, G and T bases of seq. Other bytes are ignored. The GC content of a
// sequence without any such bases is zero.
func GCContent(seq []byte) float64 {
	var gc, n int
	for _, b := range seq {
		switch b {
		case 'G', 'C':
			gc++
			n++
		case 'A', 'T':
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(gc) / float64(n) * 100
}

// Composition holds the composition statistics of a single record.
type Composition struct {
	Length int

	GC float64

	// AverageQuality is the mean quality
	// score of the record under Encoding.
	AverageQuality float64
	Encoding       Encoding

	Tetranucleotides          Profile
	CanonicalTetranucleotides Profile
}

// Analyse returns the composition of a record with the given sequence
// and quality strings. Profiles are truncated to the top most frequent
// k-mers when top is positive.
func Analyse(seq, qual []byte, enc Encoding, top int) Composition {
	return Composition{
		Length:                    len(seq),
		GC:                        GCContent(seq),
		AverageQuality:            AverageQuality(qual, enc),
		Encoding:                  enc,
		Tetranucleotides:          Tetranucleotides(seq, top),
		CanonicalTetranucleotides: CanonicalTetranucleotides(seq, top),
	}
}

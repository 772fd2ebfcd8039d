// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package motif

import (
	"fmt"
	"strings"
	"unicode"
)

// iupac maps each legal motif letter to its regular expression. The four
// DNA bases map to themselves and the eleven ambiguity codes map to a
// bracketed class of their member bases.
var iupac = map[rune]string{
	'A': "A",
	'C': "C",
	'G': "G",
	'T': "T",

	'R': "[AG]",
	'Y': "[CT]",
	'S': "[CG]",
	'W': "[AT]",
	'K': "[GT]",
	'M': "[AC]",
	'B': "[CGT]",
	'D': "[AGT]",
	'H': "[ACT]",
	'V': "[ACG]",
	'N': "[ACGT]",
}

// IllegalCharError is returned when an all-letter motif contains a letter
// that is neither a DNA base nor an IUPAC ambiguity code.
type IllegalCharError struct {
	Motif string
	Char  rune
}

func (e *IllegalCharError) Error() string {
	return fmt.Sprintf("illegal character %q in motif %q", e.Char, e.Motif)
}

// Expand returns the regular expression for the motif m. If every rune of m
// is a letter, m is treated as an IUPAC motif: it is upper-cased and each
// ambiguity code is replaced by its bracketed base class. Otherwise m is
// returned unaltered to be used as a regular expression.
func Expand(m string) (string, error) {
	for _, r := range m {
		if !unicode.IsLetter(r) {
			return m, nil
		}
	}
	var buf strings.Builder
	for _, r := range m {
		re, ok := iupac[unicode.ToUpper(r)]
		if !ok {
			return "", &IllegalCharError{Motif: m, Char: r}
		}
		buf.WriteString(re)
	}
	return buf.String(), nil
}

// isDNA returns whether s is made only of the upper-case bases A, C, G and T.
func isDNA(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}

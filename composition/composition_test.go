// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package composition

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestAverageQuality(t *testing.T) {
	tests := []struct {
		qual string
		enc  Encoding
		want float64
	}{
		{qual: "IIIII", enc: Phred33, want: 40},
		{qual: "I", enc: Phred33, want: 40},
		{qual: strings.Repeat("I", 151), enc: Phred33, want: 40},
		{qual: "hhhhh", enc: Phred64, want: 40},
		{qual: "!I", enc: Phred33, want: 20},
		{qual: "", enc: Phred33, want: 0},
		{qual: "", enc: Phred64, want: 0},
	}
	for _, test := range tests {
		got := AverageQuality([]byte(test.qual), test.enc)
		if got != test.want {
			t.Errorf("unexpected average quality for %q %v: got:%v want:%v", test.qual, test.enc, got, test.want)
		}
	}
}

func TestParseEncoding(t *testing.T) {
	for _, test := range []struct {
		name string
		want Encoding
	}{
		{name: "Phred+33", want: Phred33},
		{name: "Phred+64", want: Phred64},
		{name: "Solexa", want: Phred33},
		{name: "", want: Phred33},
	} {
		if got := ParseEncoding(test.name); got != test.want {
			t.Errorf("unexpected encoding for %q: got:%v want:%v", test.name, got, test.want)
		}
	}
}

func TestGCContent(t *testing.T) {
	tests := []struct {
		seq  string
		want float64
	}{
		{seq: "GCGCGC", want: 100},
		{seq: "ATATAT", want: 0},
		{seq: "", want: 0},
		{seq: "NNNNRY", want: 0},
		{seq: "GCNNAT", want: 50},
		{seq: "GNNNNNNA", want: 50},
		{seq: "ACGTACGT", want: 50},
		{seq: "GGGA", want: 75},
	}
	for _, test := range tests {
		got := GCContent([]byte(test.seq))
		if got != test.want {
			t.Errorf("unexpected GC content for %q: got:%v want:%v", test.seq, got, test.want)
		}
	}
}

func TestRound4(t *testing.T) {
	tests := []struct {
		v    float64
		want float64
	}{
		{v: 0, want: 0},
		{v: 33.33333333, want: 33.33},
		{v: 14.285714, want: 14.29},
		{v: 100, want: 100},
		{v: 0.000123456, want: 0.0001235},
		{v: 1e-300, want: 1e-300},
		{v: 123456, want: 123500},
		{v: -2.718281, want: -2.718},
	}
	for _, test := range tests {
		got := Round4(test.v)
		if math.Abs(got-test.want) > math.Abs(test.want)*1e-12 {
			t.Errorf("unexpected rounding of %v: got:%v want:%v", test.v, got, test.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		kmer string
		want string
		ok   bool
	}{
		{kmer: "AAAA", want: "AAAA", ok: true},
		{kmer: "TTTT", want: "AAAA", ok: true},
		{kmer: "ACGT", want: "ACGT", ok: true},
		{kmer: "GGGC", want: "GCCC", ok: true},
		{kmer: "CATG", want: "CATG", ok: true},
		{kmer: "TGCA", want: "TGCA", ok: true},
		{kmer: "CTAG", want: "CTAG", ok: true},
		{kmer: "TCGA", want: "TCGA", ok: true},
		{kmer: "GATC", want: "GATC", ok: true},
		{kmer: "TACG", want: "CGTA", ok: true},
		{kmer: "acgt", ok: false},
		{kmer: "ACNT", ok: false},
		{kmer: "ACG", ok: false},
	}
	for _, test := range tests {
		got, ok := Canonical(test.kmer)
		if ok != test.ok || got != test.want {
			t.Errorf("unexpected canonical form of %q: got:%q,%t want:%q,%t", test.kmer, got, ok, test.want, test.ok)
		}
	}
}

func TestCanonicalTable(t *testing.T) {
	for k := 0; k < nKmers; k++ {
		w := kmers[k]
		rc := reverseComplement(w)
		c, ok := Canonical(w)
		if !ok {
			t.Fatalf("no canonical form for %q", w)
		}
		want := w
		if rc < w {
			want = rc
		}
		if c != want {
			t.Errorf("unexpected canonical form of %q: got:%q want:%q", w, c, want)
		}
		if crc, _ := Canonical(rc); crc != c {
			t.Errorf("reverse complement pair %q/%q disagree: %q != %q", w, rc, c, crc)
		}
	}
}

func reverseComplement(s string) string {
	comp := map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}
	b := make([]byte, len(s))
	for i := range s {
		b[len(s)-1-i] = comp[s[i]]
	}
	return string(b)
}

func TestTetranucleotides(t *testing.T) {
	tests := []struct {
		seq      string
		top      int
		windows  int
		unique   int
		wantJSON string
	}{
		{seq: "", wantJSON: `{}`},
		{seq: "ACG", wantJSON: `{}`},
		{seq: "ACNGT", wantJSON: `{}`},
		{seq: "ACGT", windows: 1, unique: 1, wantJSON: `{"ACGT":100}`},
		{seq: "AAAAAA", windows: 3, unique: 1, wantJSON: `{"AAAA":100}`},
		{seq: "ACGTAC", windows: 3, unique: 3, wantJSON: `{"ACGT":33.33,"CGTA":33.33,"GTAC":33.33}`},
		{seq: "ACGTAC", top: 1, windows: 1, unique: 3, wantJSON: `{"ACGT":33.33}`},
		{seq: "AAAAANCCCCCC", windows: 5, unique: 2, wantJSON: `{"CCCC":60,"AAAA":40}`},
		{seq: "GATTACAGATTACA", windows: 11, unique: 7},
	}
	for _, test := range tests {
		p := Tetranucleotides([]byte(test.seq), test.top)
		if p.Unique != test.unique {
			t.Errorf("unexpected unique count for %q: got:%d want:%d", test.seq, p.Unique, test.unique)
		}
		var n int
		for _, f := range p.Frequencies {
			n += f.Count
		}
		if n != test.windows {
			t.Errorf("unexpected window count for %q: got:%d want:%d", test.seq, n, test.windows)
		}
		if test.wantJSON != "" {
			b, err := json.Marshal(p)
			if err != nil {
				t.Errorf("unexpected error marshaling profile for %q: %v", test.seq, err)
				continue
			}
			if string(b) != test.wantJSON {
				t.Errorf("unexpected profile for %q: got:%s want:%s", test.seq, b, test.wantJSON)
			}
		}
	}
}

func TestTetranucleotideInvariants(t *testing.T) {
	seqs := []string{
		"GATTACAGATTACAGATTACA",
		"ACGTTGCAACGTTGCAAAAAACCCCCGGGGGTTTTT",
		strings.Repeat("ACGGTCA", 40),
		"TTTTTTTTTTAAAAAAAAAA",
	}
	for _, seq := range seqs {
		raw := Tetranucleotides([]byte(seq), 0)
		var n int
		var sum float64
		for i, f := range raw.Frequencies {
			n += f.Count
			sum += f.Percent
			if i > 0 && f.Count > raw.Frequencies[i-1].Count {
				t.Errorf("profile of %q not sorted at %d", seq, i)
			}
		}
		if n != len(seq)-K+1 {
			t.Errorf("unexpected window count for %q: got:%d want:%d", seq, n, len(seq)-K+1)
		}
		if math.Abs(sum-100) > 0.1 {
			t.Errorf("percentages for %q do not sum to 100: %v", seq, sum)
		}
		canon := CanonicalTetranucleotides([]byte(seq), 0)
		if canon.Unique > raw.Unique {
			t.Errorf("canonical unique count exceeds raw for %q: %d > %d", seq, canon.Unique, raw.Unique)
		}
	}
}

func TestCanonicalTetranucleotides(t *testing.T) {
	tests := []struct {
		seq      string
		wantJSON string
		unique   int
	}{
		// TTTTTAAAAA has windows TTTT, TTTA, TTAA, TAAA, AAAA
		// which merge into AAAA, TAAA and TTAA.
		{seq: "TTTTTAAAAA", unique: 3, wantJSON: `{"AAAA":40,"TAAA":40,"TTAA":20}`},
		// ACGT is its own reverse complement.
		{seq: "ACGT", unique: 1, wantJSON: `{"ACGT":100}`},
		{seq: "AC", unique: 0, wantJSON: `{}`},
	}
	for _, test := range tests {
		p := CanonicalTetranucleotides([]byte(test.seq), 0)
		if p.Unique != test.unique {
			t.Errorf("unexpected unique count for %q: got:%d want:%d", test.seq, p.Unique, test.unique)
		}
		b, err := json.Marshal(p)
		if err != nil {
			t.Errorf("unexpected error marshaling profile for %q: %v", test.seq, err)
			continue
		}
		if string(b) != test.wantJSON {
			t.Errorf("unexpected profile for %q: got:%s want:%s", test.seq, b, test.wantJSON)
		}
	}
}

func TestAnalyse(t *testing.T) {
	c := Analyse([]byte("GGCCAATT"), []byte("IIIIIIII"), Phred33, 2)
	if c.Length != 8 {
		t.Errorf("unexpected length: got:%d want:8", c.Length)
	}
	if c.GC != 50 {
		t.Errorf("unexpected GC content: got:%v want:50", c.GC)
	}
	if c.AverageQuality != 40 {
		t.Errorf("unexpected average quality: got:%v want:40", c.AverageQuality)
	}
	if len(c.Tetranucleotides.Frequencies) != 2 || c.Tetranucleotides.Unique != 5 {
		t.Errorf("unexpected raw profile: %+v", c.Tetranucleotides)
	}
	if c.CanonicalTetranucleotides.Unique > c.Tetranucleotides.Unique {
		t.Errorf("canonical unique count exceeds raw: %d > %d", c.CanonicalTetranucleotides.Unique, c.Tetranucleotides.Unique)
	}
}

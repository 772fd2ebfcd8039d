// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fqmotif is a FASTQ motif filter. It selects the records of a FASTQ file
// whose sequences match any of a set of DNA motifs, optionally restricted by
// header pattern, minimum sequence length and minimum average base quality.
//
// Motifs are given either as a text file with one motif per line or as a JSON
// definition. Motifs made only of letters are read as IUPAC nucleotide codes
// and expanded to regular expressions, for example GTCAGRTG is searched as
// GTCAG[AG]TG. All other motifs are used as regular expressions.
//
// By default matching sequences are written to stdout, one per line. The
// inverted command writes records that match none of the motifs. The tune
// command reports motif and variant match counts in a bounded sample of the
// input and the summarise command reports them over the whole input.
//
// Matching records may also be written to separate files for each motif
// name, and stored with their composition statistics in an SQLite or kv
// database.
package main

import (
	"log"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(0)
}

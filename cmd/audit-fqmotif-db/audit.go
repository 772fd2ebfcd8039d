// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The audit-fqmotif-db command allows the kv record stores written by
// fqmotif -writeSQL -store kv to be queried. Output from audit-fqmotif-db
// is a JSON stream on stdout, query lines first in definition order and
// then records in input order.
//
// Query lines are written as JSON corresponding to the following Go struct.
// QueriedFile is only set for the first query line.
//  struct {
//  	Query       string `json:"query"`
//  	QueriedFile string `json:"queried_file"`
//  }
//
// Records are written as JSON corresponding to the following Go struct.
// TNF and CTNF are objects mapping tetranucleotides to their percentage
// frequency in descending order of frequency, and AverageQuality is
// omitted unless the motif definition named a quality encoding.
//  struct {
//  	Index          int     `json:"index"`
//  	Header         string  `json:"header"`
//  	Sequence       string  `json:"sequence"`
//  	Quality        string  `json:"quality"`
//  	Length         int     `json:"length"`
//  	GC             float64 `json:"GC"`
//  	GCInt          int     `json:"GC_int"`
//  	NTN            int     `json:"nTN"`
//  	NCTN           int     `json:"nCTN"`
//  	TNF            object  `json:"TNF"`
//  	CTNF           object  `json:"CTNF"`
//  	AverageQuality float64 `json:"average_quality"`
//  	Variants       []struct {
//  		Pattern string `json:"pattern"`
//  		Start   int    `json:"start"`
//  		End     int    `json:"end"`
//  		Match   string `json:"match"`
//  	} `json:"variants"`
//  }
package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"github.com/kortschak/fqmotif/internal/store"
)

func main() {
	path := flag.String("db", "", "specify db file to audit")
	table := flag.String("table", "all", "specify the table to write (all, query or records)")
	flag.Parse()
	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}
	var want func(byte) bool
	switch *table {
	case "all":
		want = func(byte) bool { return true }
	case "query":
		want = func(t byte) bool { return t == store.QueryTable }
	case "records":
		want = func(t byte) bool { return t == store.RecordTable }
	default:
		flag.Usage()
		os.Exit(2)
	}

	w := bufio.NewWriter(os.Stdout)
	err := store.Walk(*path, func(k store.Key, v []byte) error {
		switch k.Table {
		case store.QueryTable, store.RecordTable:
			if !want(k.Table) {
				return nil
			}
			w.Write(v)
			return w.WriteByte('\n')
		default:
			panic("unreachable")
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	err = w.Flush()
	if err != nil {
		log.Fatal(err)
	}
}

// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

type mode int

const (
	direct mode = iota
	inverted
	tune
	summarise
)

func (m mode) String() string {
	switch m {
	case direct:
		return "direct"
	case inverted:
		return "inverted"
	case tune:
		return "tune"
	case summarise:
		return "summarise"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// options holds the command line options for all modes.
type options struct {
	withID bool
	record bool
	fasta  bool
	count  bool

	gzip bool
	zstd bool
	fast bool
	best bool

	output string

	bucket    bool
	bucketDir string

	writeSQL  bool
	storeKind string
	db        string
	top       int

	threads  int
	verbose  bool
	progress bool

	// Report mode options.
	matches     int
	names       bool
	jsonMatches string
	variants    int
	all         bool
	cooccur     string
}

func newRootCommand() *cobra.Command {
	var o options

	root := &cobra.Command{
		Use:   "fqmotif [flags] <motifs> <reads.fastq>",
		Short: "Filter FASTQ records by DNA motif",
		Long: `fqmotif writes the sequences of FASTQ records that match any motif in
the motif file. The motif file is either a text file with one motif per line
or a JSON definition. Reads are read from stdin if the FASTQ file is "-".`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &o, direct, args[0], args[1])
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&o.withID, "includeID", "I", false, "write the record header before each sequence")
	flags.BoolVarP(&o.record, "includeRecord", "R", false, "write whole FASTQ records")
	flags.BoolVarP(&o.fasta, "fasta", "F", false, "write FASTA records")
	flags.BoolVarP(&o.count, "count", "c", false, "write the number of matching records (include counts in reports)")
	flags.BoolVar(&o.gzip, "write-gzip", false, "write BGZF compressed output")
	flags.BoolVar(&o.zstd, "write-zstd", false, "write zstd compressed output")
	flags.BoolVarP(&o.fast, "fast", "f", false, "use fastest compression")
	flags.BoolVarP(&o.best, "best", "b", false, "use best compression")
	flags.StringVarP(&o.output, "output", "o", "-", "output file (- for stdout)")
	flags.BoolVar(&o.bucket, "bucket", false, "write matching records to a file for each motif name")
	flags.StringVar(&o.bucketDir, "bucket-dir", ".", "directory for bucket files")
	flags.BoolVar(&o.writeSQL, "writeSQL", false, "store matching records and their composition")
	flags.StringVar(&o.storeKind, "store", "sqlite", "record store kind (sqlite or kv)")
	flags.StringVar(&o.db, "db", "", "record store path (default fastq_<timestamp>.db)")
	flags.IntVarP(&o.top, "num-tetranucleotides", "N", 0, "number of most frequent tetranucleotides stored (0 for all)")
	flags.IntVarP(&o.threads, "threads", "j", runtime.NumCPU(), "number of matching workers")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log run details")
	flags.BoolVar(&o.progress, "progress", false, "show a progress counter on stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "inverted <motifs> <reads.fastq>",
			Short: "Write records that match none of the motifs",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, &o, inverted, args[0], args[1])
			},
		},
		reportCommand(&o, tune),
		reportCommand(&o, summarise),
	)

	return root
}

func reportCommand(o *options, m mode) *cobra.Command {
	cmd := &cobra.Command{
		Use:  m.String() + " <motifs> <reads.fastq>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if m == tune && o.matches <= 0 {
				return errors.New("number of matches must be positive")
			}
			return run(cmd, o, m, args[0], args[1])
		},
	}
	switch m {
	case tune:
		cmd.Short = "Report motif match counts in the first matching records"
		cmd.Flags().IntVarP(&o.matches, "num-matches", "n", 0, "stop after this many matches or records")
		cmd.MarkFlagRequired("num-matches")
	case summarise:
		cmd.Short = "Report motif match counts over all records"
	}
	flags := cmd.Flags()
	flags.BoolVar(&o.names, "names", false, "include the set name and all motif names")
	flags.StringVar(&o.jsonMatches, "json-matches", "", "write a JSON match report to the given file")
	flags.Lookup("json-matches").NoOptDefVal = "matches.json"
	flags.IntVar(&o.variants, "variants", 1, "number of most frequent variants per motif in the JSON report")
	flags.BoolVar(&o.all, "all", false, "include all variants in the JSON report")
	flags.StringVar(&o.cooccur, "cooccur", "", "write a DOT motif co-occurrence graph to the given file")
	return cmd
}

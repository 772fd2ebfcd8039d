// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/kortschak/fqmotif/fastq"
	"github.com/kortschak/fqmotif/filter"
	"github.com/kortschak/fqmotif/internal/store"
	"github.com/kortschak/fqmotif/motif"
	"github.com/kortschak/fqmotif/summary"
)

const progressTemplate = `{{string . "prefix"}}{{counters . }} records {{etime . }}`

func run(cmd *cobra.Command, o *options, m mode, patterns, reads string) error {
	if o.verbose {
		log.Println(os.Args)
	}
	start := time.Now()

	report := m == tune || m == summarise
	if m != direct && (o.bucket || o.writeSQL) {
		return fmt.Errorf("--bucket and --writeSQL are not valid in %s mode", m)
	}
	format, err := o.format(report)
	if err != nil {
		return err
	}
	codec, level, err := o.codec()
	if err != nil {
		return err
	}

	def, err := motif.Load(patterns)
	if err != nil {
		return err
	}
	set, pred, err := motif.Compile(def)
	if err != nil {
		return err
	}
	if o.verbose {
		log.Printf("%s mode: %d motifs from %s", m, set.Len(), patterns)
	}

	r, err := fastq.Open(reads)
	if err != nil {
		return err
	}
	defer r.Close()

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	cfg := &filter.Config{Set: set, Predicate: pred, Invert: m == inverted}
	opts := filter.Options{Workers: o.threads}
	var (
		sinks   []filter.Sink
		agg     *summary.Aggregate
		counter *filter.Counter
	)
	if o.progress {
		bar := pb.ProgressBarTemplate(progressTemplate).New(0).SetWriter(cmd.ErrOrStderr()).Start()
		bar.Set("prefix", m.String()+": ")
		sinks = append(sinks, filter.SinkFunc(func(filter.Result) error {
			bar.Increment()
			return nil
		}))
		closers = append(closers, func() error {
			bar.Finish()
			return nil
		})
	}
	switch {
	case report:
		agg = summary.NewAggregate(set)
		sinks = append(sinks, agg)
		opts.Matches = true
		if m == tune {
			opts.MatchLimit = o.matches
			opts.RecordLimit = o.matches
		}
	case o.count:
		counter = &filter.Counter{}
		sinks = append(sinks, counter)
	default:
		w, closeOut, err := o.openOutput(cmd.OutOrStdout(), format, codec, level)
		if err != nil {
			return err
		}
		closers = append(closers, closeOut)
		sinks = append(sinks, filter.Output{W: w})
	}

	var buckets *filter.Buckets
	if o.bucket {
		buckets, err = filter.NewBuckets(o.bucketDir, set, format, codec, level)
		if err != nil {
			return err
		}
		closers = append(closers, buckets.Close)
		sinks = append(sinks, buckets)
		opts.Matches = true
	}
	if o.writeSQL {
		s, path, err := o.openStore()
		if err != nil {
			return err
		}
		closers = append(closers, s.Close)
		if o.verbose {
			log.Printf("storing records in %s", path)
		}
		err = s.Query(def.Lines(), reads)
		if err != nil {
			return err
		}
		sinks = append(sinks, store.Sink{Store: s, Set: set, Predicate: pred})
		opts.Matches = true
		opts.Composition = true
		opts.TopKmers = o.top
	}

	stats, err := filter.Run(cmd.Context(), r, cfg, opts, filter.Multi(sinks...))
	cerr := closeAll(closers)
	closers = nil
	if err != nil {
		return err
	}
	if cerr != nil {
		return cerr
	}

	out := cmd.OutOrStdout()
	switch {
	case counter != nil:
		_, err = fmt.Fprintln(out, counter.N)
		if err != nil {
			return err
		}
	case agg != nil:
		err = o.writeReports(out, def, agg)
		if err != nil {
			return err
		}
	}

	if o.verbose {
		if buckets != nil {
			for name, path := range buckets.Paths {
				log.Printf("bucket %q: %s", name, path)
			}
		}
		log.Printf("read %d records, %d passed with %d matches in %v", stats.Records, stats.Passed, stats.Matches, time.Since(start))
	}
	return nil
}

// closeAll calls each of closers in reverse order and returns the
// first error.
func closeAll(closers []func() error) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		err := closers[i]()
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

// format returns the record output format. The count option is only
// exclusive of the record formats when report is false.
func (o *options) format(report bool) (fastq.Format, error) {
	f := fastq.Sequence
	var n int
	for _, opt := range []struct {
		set bool
		f   fastq.Format
	}{
		{set: o.withID, f: fastq.WithID},
		{set: o.record, f: fastq.FASTQ},
		{set: o.fasta, f: fastq.FASTA},
	} {
		if opt.set {
			n++
			f = opt.f
		}
	}
	if o.count && !report {
		n++
	}
	if n > 1 {
		return f, errors.New("at most one of --includeID, --includeRecord, --fasta and --count may be given")
	}
	return f, nil
}

func (o *options) codec() (fastq.Codec, fastq.Level, error) {
	if o.gzip && o.zstd {
		return 0, 0, errors.New("at most one of --write-gzip and --write-zstd may be given")
	}
	if o.fast && o.best {
		return 0, 0, errors.New("at most one of --fast and --best may be given")
	}
	c := fastq.Plain
	switch {
	case o.gzip:
		c = fastq.Gzip
	case o.zstd:
		c = fastq.Zstd
	}
	l := fastq.Default
	switch {
	case o.fast:
		l = fastq.Fast
	case o.best:
		l = fastq.Best
	}
	return c, l, nil
}

// openOutput returns the record writer for the output option and a
// function that closes it. Uncompressed output to a file is compressed
// according to the file name suffix.
func (o *options) openOutput(stdout io.Writer, f fastq.Format, c fastq.Codec, l fastq.Level) (*fastq.Writer, func() error, error) {
	var (
		dst     io.Writer
		closeFn = func() error { return nil }
	)
	switch {
	case o.output == "-":
		dst = stdout
	case c == fastq.Plain:
		xw, err := xopen.Wopen(o.output)
		if err != nil {
			return nil, nil, fmt.Errorf("could not create output: %w", err)
		}
		dst, closeFn = xw, xw.Close
	default:
		file, err := os.Create(o.output)
		if err != nil {
			return nil, nil, fmt.Errorf("could not create output: %w", err)
		}
		dst, closeFn = file, file.Close
	}
	w, err := fastq.NewWriter(dst, f, c, l)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return w, func() error {
		err := w.Close()
		cerr := closeFn()
		if err != nil {
			return err
		}
		return cerr
	}, nil
}

func (o *options) openStore() (store.Store, string, error) {
	path := o.db
	if path == "" {
		path = store.DefaultName(time.Now())
	}
	var (
		s   store.Store
		err error
	)
	switch o.storeKind {
	case "sqlite":
		s, err = store.CreateSQLite(path)
	case "kv":
		s, err = store.CreateKV(path)
	default:
		return nil, "", fmt.Errorf("unknown store kind: %q", o.storeKind)
	}
	if err != nil {
		return nil, "", err
	}
	return s, path, nil
}

func (o *options) writeReports(w io.Writer, def *motif.Definition, agg *summary.Aggregate) error {
	ropts := summary.Options{Counts: o.count, Names: o.names, Variants: o.variants}
	if o.all {
		ropts.Variants = 0
	}
	err := agg.WriteText(w, def.Structured, ropts)
	if err != nil {
		return err
	}
	if o.jsonMatches != "" {
		f, err := os.Create(o.jsonMatches)
		if err != nil {
			return fmt.Errorf("could not create match report: %w", err)
		}
		err = agg.WriteJSON(f, ropts)
		if err != nil {
			f.Close()
			return err
		}
		err = f.Close()
		if err != nil {
			return err
		}
	}
	if o.cooccur != "" {
		b, err := agg.CooccurrenceDOT()
		if err != nil {
			return err
		}
		err = os.WriteFile(o.cooccur, b, 0o664)
		if err != nil {
			return fmt.Errorf("could not write co-occurrence graph: %w", err)
		}
	}
	return nil
}

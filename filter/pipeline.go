// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"context"
	"errors"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/kortschak/fqmotif/composition"
	"github.com/kortschak/fqmotif/fastq"
)

// Source is a sequential source of records. Read returns io.EOF
// at the end of the stream.
type Source interface {
	Read() (fastq.Record, error)
}

// Sink receives pipeline results in input order. Sinks are called from
// a single goroutine.
type Sink interface {
	Collect(Result) error
}

// Result is the outcome of evaluating a single record.
type Result struct {
	// Index is the ordinal position of
	// the record in the input stream.
	Index  int
	Record fastq.Record

	// Pass is whether the record passed the filter.
	Pass bool

	// Matches and Composition are only
	// populated for passing records when
	// requested in the pipeline options.
	Matches     []Match
	Composition *composition.Composition
}

// Options holds pipeline options.
type Options struct {
	// Workers is the number of evaluation workers.
	// If not positive, runtime.NumCPU is used.
	Workers int

	// Matches requests pattern match positions
	// for passing records.
	Matches bool
	// Composition requests composition statistics
	// for passing records. TopKmers limits the
	// length of the k-mer profiles if positive.
	Composition bool
	TopKmers    int

	// MatchLimit and RecordLimit stop the pipeline
	// once the total number of pattern matches in
	// passing records or the number of records read
	// reach the limit. Limits are ignored unless
	// positive.
	MatchLimit  int
	RecordLimit int
}

// Stats holds pipeline counts.
type Stats struct {
	Records int
	Passed  int
	Matches int
}

var errStop = errors.New("limit reached")

// Run reads records from src, evaluates them against cfg on a pool
// of workers and passes the results to sink in input order. Run
// returns when src is exhausted, a configured limit is reached or an
// error occurs in reading or collection. Results collected before an
// error remain collected.
func Run(ctx context.Context, src Source, cfg *Config, opts Options, sink Sink) (Stats, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type job struct {
		index  int
		record fastq.Record
		result chan<- Result
	}
	jobs := make(chan job, workers*4)
	pending := make(chan chan Result, workers*4)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(pending)
		defer close(jobs)
		for i := 0; ; i++ {
			rec, err := src.Read()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
			// A result slot is only made visible to the
			// collector once its job has been queued.
			c := make(chan Result, 1)
			select {
			case jobs <- job{index: i, record: rec, result: c}:
			case <-ctx.Done():
				return ctx.Err()
			}
			select {
			case pending <- c:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				j.result <- cfg.evaluate(j.index, j.record, opts)
			}
			return nil
		})
	}

	var stats Stats
	g.Go(func() error {
		for c := range pending {
			r := <-c
			stats.Records++
			if r.Pass {
				stats.Passed++
				stats.Matches += len(r.Matches)
			}
			err := sink.Collect(r)
			if err != nil {
				return err
			}
			if opts.MatchLimit > 0 && stats.Matches >= opts.MatchLimit {
				return errStop
			}
			if opts.RecordLimit > 0 && stats.Records >= opts.RecordLimit {
				return errStop
			}
		}
		return nil
	})

	err := g.Wait()
	if err == errStop {
		err = nil
	}
	return stats, err
}

func (c *Config) evaluate(index int, rec fastq.Record, opts Options) Result {
	r := Result{Index: index, Record: rec, Pass: c.Passes(rec)}
	if !r.Pass {
		return r
	}
	if opts.Matches {
		r.Matches = c.Matches(rec.Seq)
	}
	if opts.Composition {
		enc := composition.Phred33
		if c.Predicate != nil {
			enc = c.Predicate.Encoding
		}
		comp := composition.Analyse(rec.Seq, rec.Qual, enc, opts.TopKmers)
		r.Composition = &comp
	}
	return r
}

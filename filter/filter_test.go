// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/kortschak/fqmotif/composition"
	"github.com/kortschak/fqmotif/fastq"
	"github.com/kortschak/fqmotif/motif"
)

// records is a Source over a slice of records. If err is not
// nil it is returned after the records are exhausted.
type records struct {
	recs []fastq.Record
	err  error
}

func (r *records) Read() (fastq.Record, error) {
	if len(r.recs) == 0 {
		if r.err != nil {
			return fastq.Record{}, r.err
		}
		return fastq.Record{}, io.EOF
	}
	rec := r.recs[0]
	r.recs = r.recs[1:]
	return rec, nil
}

func record(header, seq, qual string) fastq.Record {
	return fastq.Record{Header: []byte(header), Seq: []byte(seq), Qual: []byte(qual)}
}

func compile(t *testing.T, def string) (*motif.Set, *motif.Predicate) {
	t.Helper()
	name := "motifs.txt"
	if strings.HasPrefix(def, "{") {
		name = "motifs.json"
	}
	d, err := motif.Parse(name, []byte(def))
	if err != nil {
		t.Fatalf("failed to parse definition: %v", err)
	}
	set, pred, err := motif.Compile(d)
	if err != nil {
		t.Fatalf("failed to compile definition: %v", err)
	}
	return set, pred
}

func TestPasses(t *testing.T) {
	set, _ := compile(t, "GATTACA\n")
	tests := []struct {
		name   string
		pred   *motif.Predicate
		invert bool
		rec    fastq.Record
		want   bool
	}{
		{
			name: "match",
			rec:  record("r", "TTGATTACATT", "IIIIIIIIIII"),
			want: true,
		},
		{
			name: "no match",
			rec:  record("r", "TTTTTTTTTTT", "IIIIIIIIIII"),
			want: false,
		},
		{
			name:   "inverted match",
			invert: true,
			rec:    record("r", "TTGATTACATT", "IIIIIIIIIII"),
			want:   false,
		},
		{
			name:   "inverted no match",
			invert: true,
			rec:    record("r", "TTTTTTTTTTT", "IIIIIIIIIII"),
			want:   true,
		},
		{
			name: "too short",
			pred: &motif.Predicate{MinLength: 12},
			rec:  record("r", "TTGATTACATT", "IIIIIIIIIII"),
			want: false,
		},
		{
			name: "long enough",
			pred: &motif.Predicate{MinLength: 11},
			rec:  record("r", "TTGATTACATT", "IIIIIIIIIII"),
			want: true,
		},
		{
			name:   "inverted too short",
			pred:   &motif.Predicate{MinLength: 12},
			invert: true,
			rec:    record("r", "TTTTTTTTTTT", "IIIIIIIIIII"),
			want:   false,
		},
		{
			name: "header mismatch",
			pred: &motif.Predicate{Header: regexp.MustCompile("^run2")},
			rec:  record("run1.1", "TTGATTACATT", "IIIIIIIIIII"),
			want: false,
		},
		{
			name: "header match",
			pred: &motif.Predicate{Header: regexp.MustCompile("^run1")},
			rec:  record("run1.1", "TTGATTACATT", "IIIIIIIIIII"),
			want: true,
		},
		{
			name: "low quality",
			pred: &motif.Predicate{MinQuality: 30, CheckQuality: true, Encoding: composition.Phred33},
			rec:  record("r", "TTGATTACATT", "+++++++++++"),
			want: false,
		},
		{
			name: "quality at threshold",
			pred: &motif.Predicate{MinQuality: 40, CheckQuality: true, Encoding: composition.Phred33},
			rec:  record("r", "TTGATTACATT", "IIIIIIIIIII"),
			want: true,
		},
		{
			name: "legacy quality encoding",
			pred: &motif.Predicate{MinQuality: 40, CheckQuality: true, Encoding: composition.Phred64},
			rec:  record("r", "TTGATTACATT", "IIIIIIIIIII"),
			want: false,
		},
		{
			name: "empty quality",
			pred: &motif.Predicate{MinQuality: 1, CheckQuality: true, Encoding: composition.Phred33},
			rec:  record("r", "", ""),
			want: false,
		},
	}
	for _, test := range tests {
		cfg := &Config{Set: set, Predicate: test.pred, Invert: test.invert}
		got := cfg.Passes(test.rec)
		if got != test.want {
			t.Errorf("unexpected result for %s: got:%t want:%t", test.name, got, test.want)
		}
	}
}

func TestPassesEmptySet(t *testing.T) {
	set, pred := compile(t, "")
	rec := record("r", "ACGT", "IIII")
	if (&Config{Set: set, Predicate: pred}).Passes(rec) {
		t.Error("record passed empty motif set")
	}
	if !(&Config{Set: set, Predicate: pred, Invert: true}).Passes(rec) {
		t.Error("record failed inverted empty motif set")
	}
}

func TestMatches(t *testing.T) {
	set, _ := compile(t, "ACGT\nGGG\nTTTTT\nRCA\n")
	cfg := &Config{Set: set}
	got := cfg.Matches([]byte("AAACGTGGGGACA"))
	want := []Match{
		{Pattern: 0, Start: 2, End: 6, Substring: "ACGT"},
		{Pattern: 1, Start: 6, End: 9, Substring: "GGG"},
		{Pattern: 3, Start: 10, End: 13, Substring: "ACA"},
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("unexpected matches:\ngot: %+v\nwant:%+v", got, want)
	}
}

type collected struct {
	results []Result
}

func (c *collected) Collect(r Result) error {
	c.results = append(c.results, r)
	return nil
}

func randomRecords(n int, seed int64) []fastq.Record {
	rnd := rand.New(rand.NewSource(seed))
	recs := make([]fastq.Record, n)
	for i := range recs {
		l := 20 + rnd.Intn(100)
		seq := make([]byte, l)
		qual := make([]byte, l)
		for j := range seq {
			seq[j] = "ACGT"[rnd.Intn(4)]
			qual[j] = byte('!' + rnd.Intn(41))
		}
		recs[i] = fastq.Record{Header: []byte(fmt.Sprintf("read%d", i)), Seq: seq, Qual: qual}
	}
	return recs
}

func TestRunOrder(t *testing.T) {
	recs := randomRecords(2000, 1)
	set, pred := compile(t, "GATC\nAAAAA\nCCGG\n")
	cfg := &Config{Set: set, Predicate: pred}
	opts := Options{Matches: true, Composition: true, TopKmers: 5}

	var want []string
	for _, workers := range []int{1, 2, 8, 32} {
		opts.Workers = workers
		var got collected
		stats, err := Run(context.Background(), &records{recs: recs}, cfg, opts, &got)
		if err != nil {
			t.Fatalf("unexpected error with %d workers: %v", workers, err)
		}
		if stats.Records != len(recs) {
			t.Errorf("unexpected record count with %d workers: got:%d want:%d", workers, stats.Records, len(recs))
		}
		var headers []string
		for i, r := range got.results {
			if r.Index != i {
				t.Fatalf("result out of order with %d workers: index %d at position %d", workers, r.Index, i)
			}
			if r.Pass {
				headers = append(headers, string(r.Record.Header))
				if len(r.Matches) == 0 {
					t.Errorf("passing record %d has no matches", i)
				}
				if r.Composition == nil {
					t.Errorf("passing record %d has no composition", i)
				}
			}
		}
		if stats.Passed != len(headers) {
			t.Errorf("unexpected pass count with %d workers: got:%d want:%d", workers, stats.Passed, len(headers))
		}
		if want == nil {
			want = headers
			continue
		}
		if strings.Join(headers, " ") != strings.Join(want, " ") {
			t.Errorf("output with %d workers differs from single worker output", workers)
		}
	}
	if len(want) == 0 {
		t.Error("no records passed")
	}
}

func TestRunRecordLimit(t *testing.T) {
	recs := randomRecords(500, 2)
	set, pred := compile(t, "")
	cfg := &Config{Set: set, Predicate: pred, Invert: true}
	var c Counter
	stats, err := Run(context.Background(), &records{recs: recs}, cfg, Options{Workers: 4, RecordLimit: 10}, &c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Records != 10 || c.N != 10 {
		t.Errorf("unexpected counts: records:%d collected:%d want:10", stats.Records, c.N)
	}
}

func TestRunMatchLimit(t *testing.T) {
	recs := []fastq.Record{
		record("r1", "AAAA", "IIII"),
		record("r2", "ACGT", "IIII"),
		record("r3", "CCCC", "IIII"),
		record("r4", "ACGTGG", "IIIIII"),
		record("r5", "ACGT", "IIII"),
		record("r6", "ACGT", "IIII"),
	}
	set, pred := compile(t, "ACGT\nGG\n")
	cfg := &Config{Set: set, Predicate: pred}
	var got collected
	stats, err := Run(context.Background(), &records{recs: recs}, cfg, Options{Workers: 3, Matches: true, MatchLimit: 3}, &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Matches != 3 || stats.Records != 4 {
		t.Errorf("unexpected stop point: matches:%d records:%d want matches:3 records:4", stats.Matches, stats.Records)
	}
}

func TestRunSourceError(t *testing.T) {
	errBad := errors.New("bad record")
	recs := randomRecords(100, 3)
	set, pred := compile(t, "")
	cfg := &Config{Set: set, Predicate: pred, Invert: true}
	var c Counter
	stats, err := Run(context.Background(), &records{recs: recs, err: errBad}, cfg, Options{Workers: 4}, &c)
	if !errors.Is(err, errBad) {
		t.Errorf("expected source error, got:%v", err)
	}
	if stats.Records != len(recs) || c.N != len(recs) {
		t.Errorf("records preceding the error were not all collected: records:%d collected:%d want:%d", stats.Records, c.N, len(recs))
	}
}

func TestRunSinkError(t *testing.T) {
	errSink := errors.New("sink failed")
	recs := randomRecords(100, 4)
	set, pred := compile(t, "")
	cfg := &Config{Set: set, Predicate: pred, Invert: true}
	var n int
	sink := SinkFunc(func(Result) error {
		n++
		if n == 5 {
			return errSink
		}
		return nil
	})
	_, err := Run(context.Background(), &records{recs: recs}, cfg, Options{Workers: 4}, sink)
	if !errors.Is(err, errSink) {
		t.Errorf("expected sink error, got:%v", err)
	}
	if n != 5 {
		t.Errorf("sink called after error: %d calls", n)
	}
}

func TestOutput(t *testing.T) {
	recs := []fastq.Record{
		record("r1", "AAAAAAA", "IIIIIII"),
		record("r2", "TTGATTACA", "IIIIIIIII"),
		record("r3", "GATTACA", "IIIIIII"),
		record("r4", "CCCCCCC", "IIIIIII"),
		record("r5", "GATTACATT", "IIIIIIIII"),
	}
	set, pred := compile(t, "GATTACA\n")
	for _, test := range []struct {
		format fastq.Format
		want   string
	}{
		{format: fastq.Sequence, want: "TTGATTACA\nGATTACA\nGATTACATT\n"},
		{format: fastq.WithID, want: "@r2\nTTGATTACA\n@r3\nGATTACA\n@r5\nGATTACATT\n"},
	} {
		var buf bytes.Buffer
		w, err := fastq.NewWriter(&buf, test.format, fastq.Plain, fastq.Default)
		if err != nil {
			t.Fatalf("failed to create writer: %v", err)
		}
		_, err = Run(context.Background(), &records{recs: recs}, &Config{Set: set, Predicate: pred}, Options{Workers: 3}, Output{W: w})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		err = w.Close()
		if err != nil {
			t.Fatalf("unexpected error closing writer: %v", err)
		}
		if buf.String() != test.want {
			t.Errorf("unexpected %v output:\ngot:\n%s\nwant:\n%s", test.format, buf.String(), test.want)
		}
	}
}

func TestBuckets(t *testing.T) {
	const def = `{"regexSet":{"regex":[
	{"regexName":"first 'one'","regexString":"AAAA"},
	{"regexName":"second","regexString":"CCCC"},
	{"regexName":"first 'one'","regexString":"GGGG"}
]}}`
	set, pred := compile(t, def)
	dir := t.TempDir()
	b, err := NewBuckets(dir, set, fastq.WithID, fastq.Plain, fastq.Default)
	if err != nil {
		t.Fatalf("unexpected error creating buckets: %v", err)
	}
	if len(b.Paths) != 2 {
		t.Errorf("unexpected number of buckets: got:%d want:2", len(b.Paths))
	}
	recs := []fastq.Record{
		record("r1", "AAAAGGGG", "IIIIIIII"),
		record("r2", "CCCC", "IIII"),
		record("r3", "TTTT", "IIII"),
		record("r4", "GGGGCCCC", "IIIIIIII"),
	}
	_, err = Run(context.Background(), &records{recs: recs}, &Config{Set: set, Predicate: pred}, Options{Workers: 2, Matches: true}, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = b.Close()
	if err != nil {
		t.Fatalf("unexpected error closing buckets: %v", err)
	}

	for _, test := range []struct {
		file string
		want string
	}{
		{file: "firstone.txt", want: "@r1\nAAAAGGGG\n@r4\nGGGGCCCC\n"},
		{file: "second.txt", want: "@r2\nCCCC\n@r4\nGGGGCCCC\n"},
	} {
		got, err := os.ReadFile(filepath.Join(dir, test.file))
		if err != nil {
			t.Errorf("could not read bucket: %v", err)
			continue
		}
		if string(got) != test.want {
			t.Errorf("unexpected %s contents:\ngot:\n%s\nwant:\n%s", test.file, got, test.want)
		}
	}
}

func TestBucketName(t *testing.T) {
	for _, test := range []struct {
		name string
		want string
	}{
		{name: "plain", want: "plain"},
		{name: "with space", want: "withspace"},
		{name: `"quoted" 'name'`, want: "quotedname"},
		{name: "tab\there", want: "tabhere"},
	} {
		if got := BucketName(test.name); got != test.want {
			t.Errorf("unexpected bucket name for %q: got:%q want:%q", test.name, got, test.want)
		}
	}
}

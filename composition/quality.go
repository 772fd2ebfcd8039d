// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package composition

// Encoding is a FASTQ quality score encoding. Its value
// is the ASCII offset of a zero quality score.
type Encoding byte

const (
	Phred33 Encoding = 33
	Phred64 Encoding = 64
)

func (e Encoding) String() string {
	switch e {
	case Phred33:
		return "Phred+33"
	case Phred64:
		return "Phred+64"
	default:
		return "Phred+?"
	}
}

// ParseEncoding returns the encoding named by s. Only "Phred+64"
// is recognised as the legacy encoding; all other names give Phred33.
func ParseEncoding(s string) Encoding {
	if s == "Phred+64" {
		return Phred64
	}
	return Phred33
}

// AverageQuality returns the mean quality score of qual under the
// encoding e. The average quality of an empty quality string is zero.
func AverageQuality(qual []byte, e Encoding) float64 {
	if len(qual) == 0 {
		return 0
	}
	var sum int
	for _, q := range qual {
		sum += int(q) - int(e)
	}
	return float64(sum) / float64(len(qual))
}

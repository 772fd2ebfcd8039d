// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package motif loads and compiles motif definitions for filtering
// FASTQ records by sequence content.
//
// A definition is either a flat text file holding one motif per line or
// a JSON document describing a named set of motifs with optional variants
// and record predicates:
//
//	{
//	    "regexSet": {
//	        "regexSetName": "adapters",
//	        "regex": [
//	            {
//	                "regexName": "first",
//	                "regexString": "GTCAGRTG",
//	                "variants": [
//	                    {"variantName": "a", "variantString": "GTCAGATG"}
//	                ]
//	            }
//	        ],
//	        "headerRegex": "^@run",
//	        "minimumSequenceLength": 50,
//	        "minimumAverageQuality": 25,
//	        "qualityEncoding": "Phred+33"
//	    }
//	}
package motif

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Definition is a loaded motif definition.
type Definition struct {
	// Structured is true if the definition was
	// loaded from a JSON document.
	Structured bool

	// Source is the file name the definition
	// was loaded from.
	Source string
	// Raw is the unaltered definition text.
	Raw []byte

	SetName string
	Entries []Entry

	HeaderRegex           *string
	MinimumSequenceLength *float64
	MinimumAverageQuality *float64
	QualityEncoding       *string
}

// Entry is a single motif in a definition.
type Entry struct {
	Name     string
	Motif    string
	Variants []Variant
}

// Label returns the entry's display name, falling
// back to the motif text when the entry is unnamed.
func (e Entry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Motif
}

// Variant is a named literal DNA instance of a motif.
type Variant struct {
	Name   string `json:"variantName"`
	String string `json:"variantString"`
}

// document is the JSON form of a structured definition.
type document struct {
	RegexSet struct {
		Name  string `json:"regexSetName"`
		Regex []struct {
			Name     string    `json:"regexName"`
			String   string    `json:"regexString"`
			Variants []Variant `json:"variants"`
		} `json:"regex"`
		HeaderRegex           *string  `json:"headerRegex"`
		MinimumSequenceLength *float64 `json:"minimumSequenceLength"`
		MinimumAverageQuality *float64 `json:"minimumAverageQuality"`
		QualityEncoding       *string  `json:"qualityEncoding"`
	} `json:"regexSet"`
}

// Load reads the definition held in the file at path.
func Load(path string) (*Definition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read motif definition: %w", err)
	}
	return Parse(path, b)
}

// Parse parses a definition from data. The data are treated as a JSON
// document if name has a .json suffix or the first non-space byte of data
// is an opening brace. Otherwise each non-blank line of data is a motif.
func Parse(name string, data []byte) (*Definition, error) {
	if isJSON(name, data) {
		return parseJSON(name, data)
	}
	return parseFlat(name, data)
}

func isJSON(name string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return true
	}
	t := bytes.TrimSpace(data)
	return len(t) != 0 && t[0] == '{'
}

func parseJSON(name string, data []byte) (*Definition, error) {
	err := validate(data)
	if err != nil {
		return nil, fmt.Errorf("invalid motif definition %s: %w", name, err)
	}
	var doc document
	err = json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("could not parse motif definition %s: %w", name, err)
	}
	set := doc.RegexSet
	def := &Definition{
		Structured: true,
		Source:     name,
		Raw:        data,

		SetName: set.Name,

		HeaderRegex:           set.HeaderRegex,
		MinimumSequenceLength: set.MinimumSequenceLength,
		MinimumAverageQuality: set.MinimumAverageQuality,
		QualityEncoding:       set.QualityEncoding,
	}
	for _, r := range set.Regex {
		def.Entries = append(def.Entries, Entry{
			Name:     r.Name,
			Motif:    r.String,
			Variants: r.Variants,
		})
	}
	return def, nil
}

func parseFlat(name string, data []byte) (*Definition, error) {
	def := &Definition{Source: name, Raw: data}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		m := strings.TrimSpace(sc.Text())
		if m == "" {
			continue
		}
		def.Entries = append(def.Entries, Entry{Motif: m})
	}
	err := sc.Err()
	if err != nil {
		return nil, fmt.Errorf("could not read motif definition %s: %w", name, err)
	}
	return def, nil
}

// Lines returns the trimmed non-blank lines of a flat definition, or the
// whole definition text as a single element for a structured definition.
func (d *Definition) Lines() []string {
	if d.Structured {
		return []string{string(d.Raw)}
	}
	lines := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		lines[i] = e.Motif
	}
	return lines
}

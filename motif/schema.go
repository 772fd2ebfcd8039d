// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package motif

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// schemaText is the JSON schema for structured motif definitions.
const schemaText = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "title": "fqmotif",
    "type": "object",
    "properties": {
        "regexSet": {
            "type": "object",
            "properties": {
                "regexSetName": {"type": "string"},
                "regex": {
                    "type": "array",
                    "minItems": 1,
                    "items": {
                        "type": "object",
                        "properties": {
                            "regexName": {"type": "string"},
                            "regexString": {"type": "string"},
                            "variants": {
                                "type": "array",
                                "items": {
                                    "type": "object",
                                    "properties": {
                                        "variantName": {"type": "string"},
                                        "variantString": {"type": "string"}
                                    },
                                    "required": ["variantName", "variantString"]
                                }
                            }
                        },
                        "required": ["regexString"]
                    }
                },
                "headerRegex": {"type": "string"},
                "minimumSequenceLength": {"type": "number"},
                "minimumAverageQuality": {"type": "number"},
                "qualityEncoding": {"type": "string"}
            },
            "required": ["regex"]
        }
    },
    "required": ["regexSet"]
}`

var schema *gojsonschema.Schema

func init() {
	var err error
	schema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaText))
	if err != nil {
		panic(fmt.Sprintf("motif: invalid definition schema: %v", err))
	}
}

// SchemaError is returned when a structured definition does
// not conform to the definition schema. It holds every violation
// found in the document.
type SchemaError struct {
	Violations []Violation
}

// Violation is a single schema violation.
type Violation struct {
	// Field is the dotted path to the offending value.
	Field       string
	Description string
}

func (e *SchemaError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%d schema violation", len(e.Violations))
	if len(e.Violations) != 1 {
		buf.WriteByte('s')
	}
	for i, v := range e.Violations {
		if i == 0 {
			buf.WriteString(": ")
		} else {
			buf.WriteString("; ")
		}
		fmt.Fprintf(&buf, "%s: %s", v.Field, v.Description)
	}
	return buf.String()
}

// validate checks data against the definition schema.
func validate(data []byte) error {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	errs := res.Errors()
	v := make([]Violation, len(errs))
	for i, e := range errs {
		v[i] = Violation{Field: e.Field(), Description: e.Description()}
	}
	return &SchemaError{Violations: v}
}

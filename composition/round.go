// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package composition

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Round4 returns v rounded to four significant figures.
func Round4(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	mag := int(math.Floor(math.Log10(math.Abs(v))))
	return scalar.Round(v, 3-mag)
}

// Round2 returns v rounded to two decimal places.
func Round2(v float64) float64 {
	return scalar.Round(v, 2)
}

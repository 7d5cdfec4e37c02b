// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lapack

import "sort"

// Dlasrt sorts the first n elements of d in place, in increasing
// order if s == SortIncreasing and decreasing order if
// s == SortDecreasing.
func Dlasrt(s Sort, n int, d []float64) {
	d = d[:n]
	switch s {
	case SortIncreasing:
		sort.Float64s(d)
	case SortDecreasing:
		sort.Sort(sort.Reverse(sort.Float64Slice(d)))
	}
}

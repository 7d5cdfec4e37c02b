// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lapack

import "testing"

func TestDlasrt(t *testing.T) {
	for _, test := range []struct {
		s    Sort
		d    []float64
		want []float64
	}{
		{SortIncreasing, []float64{3, 1, 2}, []float64{1, 2, 3}},
		{SortDecreasing, []float64{3, 1, 2}, []float64{3, 2, 1}},
		{SortIncreasing, []float64{1}, []float64{1}},
		{SortDecreasing, []float64{}, []float64{}},
	} {
		d := append([]float64(nil), test.d...)
		Dlasrt(test.s, len(d), d)
		for i, v := range test.want {
			if d[i] != v {
				t.Errorf("Dlasrt(%v, %v) = %v, want %v", test.s, test.d, d, test.want)
				break
			}
		}
	}
}

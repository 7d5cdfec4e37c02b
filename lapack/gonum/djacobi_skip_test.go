// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

// TestDjacobiSkip checks the composition contract spec.md §4.2 names
// for JacobiSkipFirst/JacobiSkipLast: the excluded column of S never
// takes part in a rotation pivot, so it reaches the caller's U as its
// own original direction (normalized) while its column of V is left
// completely untouched for the caller (here, a sentinel vector) to
// have the final say over. (DivideAndConquer's own leaf solves pass
// JacobiSkipNone; the skip modes are exercised here directly.)
func TestDjacobiSkip(t *testing.T) {
	impl := Implementation{}
	rnd := rand.New(rand.NewSource(5))
	const n = 6
	for _, skip := range []JacobiSkip{JacobiSkipFirst, JacobiSkipLast} {
		excluded := 0
		if skip == JacobiSkipLast {
			excluded = n - 1
		}

		s := make([]float64, n*n)
		for i := 0; i < n; i++ {
			s[i*n+i] = 0.1 + rnd.Float64()
			if i < n-1 {
				s[i*n+i+1] = rnd.Float64() - 0.5
			}
		}
		origExcludedCol := make([]float64, n)
		for i := 0; i < n; i++ {
			origExcludedCol[i] = s[i*n+excluded]
		}

		u := make([]float64, n*n)
		v := make([]float64, n*n)
		for i := 0; i < n; i++ {
			v[i*n+excluded] = float64(i + 1) // sentinel, not a unit vector
		}
		work := make([]float64, n)

		impl.Djacobi(n, s, n, u, n, v, n, true, true, skip, dlamchE, dlamchS, work)

		for i := 0; i < n; i++ {
			if v[i*n+excluded] != float64(i+1) {
				t.Errorf("skip=%v: V's excluded column %d was written: v[%d,%d]=%v, want sentinel %v", skip, excluded, i, excluded, v[i*n+excluded], float64(i+1))
			}
		}

		sigma := s[excluded*n+excluded]
		if sigma <= 0 {
			t.Fatalf("skip=%v: excluded singular value %v not positive", skip, sigma)
		}
		var maxErr float64
		for i := 0; i < n; i++ {
			want := origExcludedCol[i] / sigma
			if d := math.Abs(u[i*n+excluded] - want); d > maxErr {
				maxErr = d
			}
		}
		if maxErr > 1e-9 {
			t.Errorf("skip=%v: U's excluded column does not match the normalized original S column, max err %v", skip, maxErr)
		}

		// The non-excluded columns of V must still be pairwise
		// orthonormal: the excluded column never entered any pivot, so
		// it cannot have spoiled the rest of the sweep.
		for p := 0; p < n; p++ {
			if p == excluded {
				continue
			}
			var norm float64
			for i := 0; i < n; i++ {
				norm += v[i*n+p] * v[i*n+p]
			}
			if d := math.Abs(norm - 1); d > 1e-9 {
				t.Errorf("skip=%v: V column %d not unit norm: %v", skip, p, norm)
			}
			for q := p + 1; q < n; q++ {
				if q == excluded {
					continue
				}
				var dot float64
				for i := 0; i < n; i++ {
					dot += v[i*n+p] * v[i*n+q]
				}
				if math.Abs(dot) > 1e-9 {
					t.Errorf("skip=%v: V columns %d,%d not orthogonal: dot=%v", skip, p, q, dot)
				}
			}
		}
	}
}

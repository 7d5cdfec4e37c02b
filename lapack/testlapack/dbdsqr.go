// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testlapack

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"golang.org/x/exp/rand"
)

// Dbdsqrer is the lapack/gonum method BidiagQR is tested through
// directly, bypassing EntryPoint's size-based dispatch.
type Dbdsqrer interface {
	Dbdsqr(n int, diag, subdiag, u []float64, ldu int, v []float64, ldv int, wantU, wantV bool, eps, tau float64)
}

// Dbdsqr1Test exercises BidiagQR directly (small/mid sizes only, the
// regime EntryPoint actually routes to it) the same way Dlasd0Test
// exercises EntryPoint as a whole.
func Dbdsqr1Test(t *testing.T, impl Dbdsqrer, eps, tau float64) {
	t.Helper()
	rnd := rand.New(rand.NewSource(2))
	for _, n := range []int{0, 1, 2, 3, 5, 8, 16, 40} {
		for typ := 0; typ < nTypes; typ++ {
			name := fmt.Sprintf("n=%d,typ=%d", n, typ)
			diag, subdiag := bidiagTestCase(n, typ, rnd)
			bOrig := denseBidiag(n, diag, subdiag)

			u := make([]float64, (n+1)*(n+1))
			for i := 0; i < n+1; i++ {
				u[i*(n+1)+i] = 1
			}
			v := make([]float64, n*n)
			for i := 0; i < n; i++ {
				v[i*n+i] = 1
			}

			impl.Dbdsqr(n, diag, subdiag, u, n+1, v, n, true, true, eps, tau)

			if n == 0 {
				continue
			}
			if !sort.IsSorted(sort.Reverse(sort.Float64Slice(diag))) {
				t.Errorf("%v: singular values not sorted descending: %v", name, diag)
			}

			var maxErr float64
			for i := 0; i <= n; i++ {
				for j := 0; j < n; j++ {
					var recon float64
					for k := 0; k < n; k++ {
						recon += u[i*(n+1)+k] * diag[k] * v[j*n+k]
					}
					if d := math.Abs(recon - bOrig[i*n+j]); d > maxErr {
						maxErr = d
					}
				}
			}
			scale := 1.0
			if len(diag) > 0 {
				scale = math.Max(1, math.Abs(diag[0]))
			}
			if maxErr > 1e-10*scale*float64(n+1) {
				t.Errorf("%v: reconstruction error %v (scale %v)", name, maxErr, scale)
			}
		}
	}
}

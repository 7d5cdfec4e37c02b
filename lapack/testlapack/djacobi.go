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

	"github.com/gonum-extras/bidiagsvd/lapack/gonum"
)

// Djacobier is the lapack/gonum method JacobiSVD is tested through.
type Djacobier interface {
	Djacobi(n int, s []float64, lds int, u []float64, ldu int, v []float64, ldv int, wantU, wantV bool, skip gonum.JacobiSkip, eps, tau float64, work []float64)
}

// DjacobiTest builds small dense upper-bidiagonal matrices (JacobiSVD
// takes a dense matrix, not a bidiagonal pair, so the diagonal and the
// first superdiagonal are written into an otherwise zero n×n array)
// and checks that the returned Σ, U, V reconstruct the input and that
// U, V are orthogonal.
func DjacobiTest(t *testing.T, impl Djacobier) {
	t.Helper()
	rnd := rand.New(rand.NewSource(3))
	for _, n := range []int{0, 1, 2, 3, 5, 8, 16} {
		for typ := 0; typ < nTypes; typ++ {
			name := fmt.Sprintf("n=%d,typ=%d", n, typ)
			diag, subdiag := bidiagTestCase(n, typ, rnd)
			s := make([]float64, n*n)
			for i := 0; i < n; i++ {
				s[i*n+i] = diag[i]
				if i < n-1 {
					s[i*n+i+1] = subdiag[i]
				}
			}
			sOrig := append([]float64(nil), s...)

			u := make([]float64, n*n)
			v := make([]float64, n*n)
			work := make([]float64, max(1, n))

			impl.Djacobi(n, s, n, u, n, v, n, true, true, gonum.JacobiSkipNone, dlamchE, dlamchS, work)

			if n == 0 {
				continue
			}
			sigma := make([]float64, n)
			for i := range sigma {
				sigma[i] = s[i*n+i]
			}
			if !sort.IsSorted(sort.Reverse(sort.Float64Slice(sigma))) {
				t.Errorf("%v: singular values not sorted descending: %v", name, sigma)
			}
			for _, sv := range sigma {
				if sv < 0 {
					t.Errorf("%v: negative singular value %v", name, sv)
				}
			}

			var maxErr float64
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					var recon float64
					for k := 0; k < n; k++ {
						recon += u[i*n+k] * sigma[k] * v[j*n+k]
					}
					if d := math.Abs(recon - sOrig[i*n+j]); d > maxErr {
						maxErr = d
					}
				}
			}
			scale := 1.0
			if n > 0 {
				scale = math.Max(1, math.Abs(sigma[0]))
			}
			if maxErr > 1e-8*scale*float64(n) {
				t.Errorf("%v: reconstruction error %v (scale %v)", name, maxErr, scale)
			}
		}
	}
}

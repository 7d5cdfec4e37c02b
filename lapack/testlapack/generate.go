// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testlapack holds generator tables and property checks for
// lapack/gonum's tests, the way the real gonum project's
// lapack/testlapack package is imported by lapack/gonum's test files.
// lapack64's tests do not import it; they carry their own checks.
package testlapack

import (
	"math"

	"golang.org/x/exp/rand"
)

const (
	dlamchE = 1.0 / (1 << 52)
	dlamchS = 2.2250738585072014e-308
)

// nTypes is the number of distinct diag/subdiag generator shapes
// bidiagTestCase understands, mirroring dlasq1.go's typ-indexed table.
const nTypes = 8

// bidiagTestCase builds the diag/subdiag arrays of an (n+1)×n
// lower-bidiagonal test matrix of the requested shape. Unlike
// dlasq1.go's generator (which builds a dense matrix via Dlagge and
// reduces it with Dgebrd), this module's scope starts at the
// bidiagonal level, so the shapes below are built directly.
func bidiagTestCase(n, typ int, rnd *rand.Rand) (diag, subdiag []float64) {
	diag = make([]float64, n)
	subdiag = make([]float64, n)
	if n == 0 {
		return diag, subdiag
	}
	switch typ {
	case 0:
		// The zero matrix.
	case 1:
		// Identity-like: unit diagonal, no coupling.
		for i := range diag {
			diag[i] = 1
		}
	case 2:
		// Evenly spaced singular values from 1 down to eps, no coupling
		// (already diagonal, exercises the trivial-deflation path).
		for i := range diag {
			if n == 1 {
				diag[i] = 1
			} else {
				diag[i] = 1 - (1-dlamchE)*float64(i)/float64(n-1)
			}
		}
	case 3:
		// Geometrically spaced diagonal with small random coupling.
		for i := range diag {
			if n == 1 {
				diag[i] = 1
			} else {
				diag[i] = math.Pow(dlamchE, float64(i)/float64(n-1))
			}
			if i < n-1 {
				subdiag[i] = 0.1 * diag[i] * rnd.Float64()
			}
		}
		subdiag[n-1] = 0.1 * diag[n-1] * rnd.Float64()
	case 4:
		// Clustered diagonal (exercises Deflation's Jacobi-collapse path)
		// with moderate coupling.
		for i := range diag {
			if i%2 == 0 {
				diag[i] = 1
			} else {
				diag[i] = 1 + 1e-12
			}
			if i < n-1 {
				subdiag[i] = 0.3 * rnd.Float64()
			}
		}
		subdiag[n-1] = 0.3 * rnd.Float64()
	case 5:
		// Random positive diagonal and coupling, O(1) scale.
		for i := range diag {
			diag[i] = 0.1 + rnd.Float64()
			if i < n-1 {
				subdiag[i] = rnd.Float64() - 0.5
			}
		}
		subdiag[n-1] = rnd.Float64() - 0.5
	case 6:
		// Random diagonal and coupling at a non-unit scale, to exercise
		// EntryPoint's normalize/denormalize pass.
		scale := math.Pow(10, 6*(rnd.Float64()-0.5))
		for i := range diag {
			diag[i] = scale * (0.1 + rnd.Float64())
			if i < n-1 {
				subdiag[i] = scale * (rnd.Float64() - 0.5)
			}
		}
		subdiag[n-1] = scale * (rnd.Float64() - 0.5)
	case 7:
		// Random diagonal with a zero subdiag entry in the interior,
		// splitting B into two independent bidiagonal blocks: exercises
		// BidiagQR's active-block location (step 3) and Dlasd1's split
		// landing exactly on a pre-existing zero coupling.
		for i := range diag {
			diag[i] = 0.1 + rnd.Float64()
			if i < n-1 {
				subdiag[i] = rnd.Float64() - 0.5
			}
		}
		subdiag[n-1] = rnd.Float64() - 0.5
		if n >= 4 {
			subdiag[n/2] = 0
		}
	}
	return diag, subdiag
}

// denseBidiag materializes the (n+1)×n lower-bidiagonal matrix with
// the given diag/subdiag into a dense row-major (n+1)×n slice.
func denseBidiag(n int, diag, subdiag []float64) []float64 {
	b := make([]float64, (n+1)*n)
	for i := 0; i < n; i++ {
		b[i*n+i] = diag[i]
		b[(i+1)*n+i] = subdiag[i]
	}
	return b
}

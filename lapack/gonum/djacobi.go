// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import (
	"math"

	"github.com/gonum-extras/bidiagsvd/blas64"
)

// maxJacobiSweeps bounds the one-sided Jacobi sweep loop; a sweep that
// finds nothing to rotate exits early, so this is a ceiling, not a
// target.
const maxJacobiSweeps = 30

// Djacobi computes the SVD of the n×n dense matrix S by one-sided
// Jacobi rotations (spec.md §4.2): S is overwritten with Σ (diagonal,
// non-negative, descending); U and V, when requested, are filled with
// the corresponding singular vectors. skip excludes one column of S
// from ever taking part in a rotation pivot and from the final sort,
// leaving the corresponding column of V untouched for the caller to
// fill in with the vector a parent DC merge already computed for it.
//
// work must have length at least n (used to hold column norms before
// they are written back into S's diagonal); Djacobi does not allocate.
func (impl Implementation) Djacobi(n int, s []float64, lds int, u []float64, ldu int, v []float64, ldv int, wantU, wantV bool, skip JacobiSkip, eps, tau float64, work []float64) {
	switch {
	case n < 0:
		panic(nLT0)
	case skip < JacobiSkipNone || skip > JacobiSkipLast:
		panic(badSkip)
	case len(work) < n:
		panic(shortWork)
	}
	if n == 0 {
		return
	}
	excluded := -1
	switch skip {
	case JacobiSkipFirst:
		excluded = 0
	case JacobiSkipLast:
		excluded = n - 1
	}
	if n == 1 {
		if wantU {
			u[0] = math.Copysign(1, s[0])
		}
		if wantV && excluded != 0 {
			v[0] = 1
		}
		s[0] = math.Abs(s[0])
		return
	}

	if wantV {
		for j := 0; j < n; j++ {
			if j == excluded {
				continue
			}
			for i := 0; i < n; i++ {
				v[i*ldv+j] = 0
			}
			v[j*ldv+j] = 1
		}
	}

	for sweep := 0; sweep < maxJacobiSweeps; sweep++ {
		converged := true
		for p := 0; p < n-1; p++ {
			if p == excluded {
				continue
			}
			for q := p + 1; q < n; q++ {
				if q == excluded {
					continue
				}
				app, aqq, apq := colGram(s, lds, n, p, q)
				// Relative test: columns of very different norms must be
				// orthogonal to each other's own scale, or the small
				// columns come out non-orthogonal in U.
				if apq*apq <= eps*eps*app*aqq || apq*apq <= tau {
					continue
				}
				converged = false
				_, _, c, sn := sym2x2Eig(app, apq, aqq)
				// sym2x2Eig's rotation R=[[c,-s],[s,c]] diagonalizes
				// the Gram matrix as R M Rᵀ. ApplyRight with (c,s)
				// post-multiplies the column pair by Rᵀ, which turns
				// the Gram matrix into exactly R M Rᵀ, so no extra
				// sign flip belongs here — see DESIGN.md.
				rot := PlaneRotation{C: c, S: sn}
				rot.ApplyRight(s[p:], s[q:], n, lds)
				if wantV {
					rot.ApplyRight(v[p:], v[q:], n, ldv)
				}
			}
		}
		if converged {
			break
		}
	}

	for j := 0; j < n; j++ {
		col := blas64.Vector{Inc: lds, Data: s[j:]}
		work[j] = blas64.Nrm2(n, col)
	}
	if wantU {
		for j := 0; j < n; j++ {
			sigma := work[j]
			for i := 0; i < n; i++ {
				if sigma > 0 {
					u[i*ldu+j] = s[i*lds+j] / sigma
				} else if i == j {
					u[i*ldu+j] = 1
				} else {
					u[i*ldu+j] = 0
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				s[i*lds+j] = work[j]
			} else {
				s[i*lds+j] = 0
			}
		}
	}

	// Selection-sort the free slots (every column but the excluded
	// one) into descending order, swapping S's diagonal, U's and V's
	// columns together; the excluded slot never moves.
	for slot := 0; slot < n; slot++ {
		if slot == excluded {
			continue
		}
		best := slot
		for j := slot + 1; j < n; j++ {
			if j == excluded {
				continue
			}
			if work[j] > work[best] {
				best = j
			}
		}
		if best == slot {
			continue
		}
		work[slot], work[best] = work[best], work[slot]
		s[slot*lds+slot], s[best*lds+best] = s[best*lds+best], s[slot*lds+slot]
		if wantU {
			blas64.Swap(n, blas64.Vector{Inc: ldu, Data: u[slot:]}, blas64.Vector{Inc: ldu, Data: u[best:]})
		}
		if wantV && slot != excluded && best != excluded {
			blas64.Swap(n, blas64.Vector{Inc: ldv, Data: v[slot:]}, blas64.Vector{Inc: ldv, Data: v[best:]})
		}
	}
}

// colGram returns the three distinct entries of the 2×2 Gram matrix
// of columns p and q of the n×n matrix a: (colP·colP, colQ·colQ, colP·colQ).
func colGram(a []float64, lda, n, p, q int) (app, aqq, apq float64) {
	colP := blas64.Vector{Inc: lda, Data: a[p:]}
	colQ := blas64.Vector{Inc: lda, Data: a[q:]}
	app = blas64.Dot(n, colP, colP)
	aqq = blas64.Dot(n, colQ, colQ)
	apq = blas64.Dot(n, colP, colQ)
	return app, aqq, apq
}

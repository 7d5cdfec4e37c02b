// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import (
	"math"

	"github.com/gonum-extras/bidiagsvd/blas64"
)

const (
	// DefaultJacobiThreshold is the jacobi_threshold spec.md §6 names
	// as an explicit parameter; this is the value EntryPoint's own
	// callers (lapack64) default to absent a reason to pick another.
	DefaultJacobiThreshold = 24
	// DefaultQRThreshold is the qr_threshold default companion to
	// DefaultJacobiThreshold.
	DefaultQRThreshold = 128
)

// BidiagRealSVDScratchSize reports how many float64s Dlasd0 needs from
// its caller to solve a problem of size n at the given jacobi_threshold
// (spec.md §6.3): every block DivideAndConquer solves directly as a
// leaf rather than recursing draws no scratch, so a higher threshold
// means a shallower, smaller arena. Sizing is its own fallible
// pre-pass, following faer-rs's `*_req` convention (see DESIGN.md),
// rather than something Dlasd0 works out lazily as it recurses: a
// caller that wants to reuse one buffer across many calls needs to
// know the size up front.
func BidiagRealSVDScratchSize(n, jacobiThreshold int) (int, error) {
	switch {
	case n < 0:
		panic(nLT0)
	case jacobiThreshold < 2:
		panic(badThresh)
	}
	need := scratchLen(n, jacobiThreshold)
	if need < 0 {
		// scratchLen is quadratic-free (each of the O(log n) recursion
		// levels adds about 2n), so this only fires if n itself is
		// already close to overflowing an int.
		return 0, scratchOverflowError{n}
	}
	return need, nil
}

type scratchOverflowError struct{ n int }

func (e scratchOverflowError) Error() string { return errSizeOverflow }

// Dlasd0 is EntryPoint (spec.md §4.8): depending on problem size it
// dispatches the (n+1)×n bidiagonal SVD to JacobiSVD, BidiagQR, or
// DivideAndConquer. Inputs are normalized by their largest-magnitude
// entry before dispatch and denormalized on the way out, so every
// downstream tolerance (eps, tau) is meaningful regardless of the
// caller's actual scale — SPEC_FULL.md's resolution of spec.md §9's
// open question on BidiagQR's normalization no-op (see DESIGN.md).
//
// u must be (n+1)×(n+1) and v must be n×n; scratch must have length at
// least BidiagRealSVDScratchSize(n, jacobiThreshold).
//
// jacobiThreshold and qrThreshold are spec.md §6's explicit
// jacobi_threshold/qr_threshold parameters; eps and tau are its
// epsilon/near_zero. None of the four are read from a package default
// once inside Dlasd0 — DefaultJacobiThreshold/DefaultQRThreshold and
// Epsilon()/SafeMin() exist purely as values lapack64 can hand back to
// a caller that has no reason to pick its own.
func (impl Implementation) Dlasd0(n int, diag, subdiag []float64, u, v blas64.General, wantU, wantV bool, jacobiThreshold, qrThreshold int, eps, tau float64, par Parallelism, scratch []float64) {
	switch {
	case n < 0:
		panic(nLT0)
	case len(diag) < n, len(subdiag) < n:
		panic(shortD)
	case jacobiThreshold < 2:
		panic(badThresh)
	case eps <= 0:
		panic(badEpsilon)
	case tau < 0:
		panic(badNearZero)
	}
	if wantU && (u.Rows != n+1 || u.Cols != n+1) {
		panic(shortU)
	}
	if wantV && (v.Rows != n || v.Cols != n) {
		panic(shortV)
	}
	if n == 0 {
		return
	}
	if wantU {
		zeroGeneral(u)
	}
	if wantV {
		zeroGeneral(v)
	}

	maxVal := math.Max(
		math.Abs(diag[blas64.Iamax(n, blas64.Vector{Inc: 1, Data: diag})]),
		math.Abs(subdiag[blas64.Iamax(n, blas64.Vector{Inc: 1, Data: subdiag})]),
	)
	if maxVal == 0 {
		if wantU {
			setIdentity(u)
		}
		if wantV {
			setIdentity(v)
		}
		return
	}
	inv := 1 / maxVal
	for i := 0; i < n; i++ {
		diag[i] *= inv
		subdiag[i] *= inv
	}

	switch {
	case n <= jacobiThreshold:
		impl.dcLeaf(0, n, diag, subdiag, u, v, wantU, wantV, eps, tau)
	case n <= qrThreshold:
		if wantU {
			setIdentity(u)
		}
		if wantV {
			setIdentity(v)
		}
		impl.Dbdsqr(n, diag, subdiag, u.Data, u.Stride, v.Data, v.Stride, wantU, wantV, eps, tau)
	default:
		impl.dispatchDC(n, diag, subdiag, u, v, wantU, wantV, jacobiThreshold, par, scratch, eps, tau)
	}

	for i := 0; i < n; i++ {
		diag[i] *= maxVal
	}
}

// dispatchDC runs DivideAndConquer on the whole (n+1)×n problem. The
// merge reads boundary rows of the left factor at every level, so
// when the caller declined U a full-size temporary stands in for it
// (the compact two-row variant spec.md §9 sketches was not adopted;
// see DESIGN.md).
func (impl Implementation) dispatchDC(n int, diag, subdiag []float64, u, v blas64.General, wantU, wantV bool, jacobiThreshold int, par Parallelism, scratch []float64, eps, tau float64) {
	uu := u
	if !wantU {
		uu = blas64.General{Rows: n + 1, Cols: n + 1, Stride: n + 1, Data: make([]float64, (n+1)*(n+1))}
	}
	arena := NewScratchArena(scratch)
	impl.Dlasd1(0, n, diag, subdiag, uu, v, wantV, jacobiThreshold, par, arena, eps, tau)
	if !sortedDescending(n, diag) {
		sortFinal(n, diag, uu, v, wantU, wantV)
	}
}

func zeroGeneral(a blas64.General) {
	for i := 0; i < a.Rows; i++ {
		row := a.Data[i*a.Stride : i*a.Stride+a.Cols]
		for j := range row {
			row[j] = 0
		}
	}
}

func setIdentity(a blas64.General) {
	zeroGeneral(a)
	for i := 0; i < a.Rows && i < a.Cols; i++ {
		a.Data[i*a.Stride+i] = 1
	}
}

func sortedDescending(n int, d []float64) bool {
	for i := 1; i < n; i++ {
		if d[i] > d[i-1] {
			return false
		}
	}
	return true
}

// sortFinal descending-sorts d[0:n], permuting u's columns (all n+1
// rows) and v's columns the same way — DivideAndConquer's merges never
// guarantee a globally sorted result (each level only sorts its own
// secular roots ahead of its own deflated tail), so EntryPoint does
// the one global pass BidiagQR and JacobiSVD already do internally.
func sortFinal(n int, d []float64, u, v blas64.General, wantU, wantV bool) {
	for i := 0; i < n; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if d[j] > d[best] {
				best = j
			}
		}
		if best == i {
			continue
		}
		d[i], d[best] = d[best], d[i]
		if wantU {
			blas64.Swap(u.Rows, blas64.Vector{Inc: u.Stride, Data: u.Data[i:]}, blas64.Vector{Inc: u.Stride, Data: u.Data[best:]})
		}
		if wantV {
			blas64.Swap(n, blas64.Vector{Inc: v.Stride, Data: v.Data[i:]}, blas64.Vector{Inc: v.Stride, Data: v.Data[best:]})
		}
	}
}

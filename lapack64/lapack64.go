// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lapack64 provides a typed, blas64.General-based interface to
// the bidiagonal SVD solver in lapack/gonum, the way the real gonum
// project's lapack64 package sits in front of lapack/gonum's raw-slice
// routines: one receiverless Implementation value, panics on
// caller-programming errors, and blas64.General factors in place of
// raw slices and strides; the flags and thresholds are the same bools
// and ints lapack/gonum takes.
package lapack64

import (
	"math"

	"github.com/gonum-extras/bidiagsvd/blas64"
	"github.com/gonum-extras/bidiagsvd/lapack/gonum"
)

var impl = gonum.Implementation{}

const (
	badU = "lapack64: u is not (n+1)×(n+1)"
	badV = "lapack64: v is not n×n"
)

// Parallelism re-exports lapack/gonum's worker-budget type so callers
// never need to import lapack/gonum directly.
type Parallelism = gonum.Parallelism

// NoParallelism and Parallel re-export lapack/gonum's constructors.
var (
	NoParallelism = gonum.NoParallelism
	Parallel      = gonum.Parallel
)

// DefaultJacobiThreshold and DefaultQRThreshold are the jacobi_threshold
// and qr_threshold values spec.md §6 names as explicit parameters of
// every call below; callers with no reason to pick their own pass
// these.
const (
	DefaultJacobiThreshold = gonum.DefaultJacobiThreshold
	DefaultQRThreshold     = gonum.DefaultQRThreshold
)

// Epsilon and SafeMin are the default epsilon/near_zero values spec.md
// §6 likewise names as explicit parameters.
func Epsilon() float64 { return gonum.Epsilon() }
func SafeMin() float64 { return gonum.SafeMin() }

// BidiagRealSVDScratchSize reports how many float64s
// ComputeBidiagRealSVD needs in its scratch argument to solve a
// problem of size n at the given jacobi_threshold, or an error if that
// size would overflow an int.
func BidiagRealSVDScratchSize(n, jacobiThreshold int) (int, error) {
	return gonum.BidiagRealSVDScratchSize(n, jacobiThreshold)
}

// ComputeBidiagRealSVD computes the SVD B = U·Σ·Vᵀ of the (n+1)×n
// lower-bidiagonal matrix with diagonal diag and sub-diagonal subdiag,
// routing to JacobiSVD, BidiagQR, or DivideAndConquer depending on n
// relative to jacobiThreshold and qrThreshold (spec.md §4.8, §6). diag
// is overwritten with the singular values in descending order.
//
// u must be a (n+1)×(n+1) blas64.General when wantU is true (the
// caller may pass a zero-valued blas64.General otherwise); v must be
// n×n when wantV is true. scratch must have length at least what
// BidiagRealSVDScratchSize(n, jacobiThreshold) returns. epsilon and
// nearZero are the convergence and near-zero-deflation tolerances
// every routine below them is driven by; epsilon must be positive and
// nearZero non-negative.
func ComputeBidiagRealSVD(diag, subdiag []float64, u, v blas64.General, wantU, wantV bool, jacobiThreshold, qrThreshold int, epsilon, nearZero float64, par Parallelism, scratch []float64) {
	n := len(diag)
	impl.Dlasd0(n, diag, subdiag, u, v, wantU, wantV, jacobiThreshold, qrThreshold, epsilon, nearZero, par, scratch)
}

// BidiagSVDQR computes the same decomposition as ComputeBidiagRealSVD
// but always by implicit-shift QR (BidiagQR, spec.md §4.3), bypassing
// EntryPoint's size-based dispatch but keeping its contract: u and v
// are initialized to the identity here and the inputs are normalized
// to unit scale around the solve, so the caller passes the same
// zero-valued factors it would pass ComputeBidiagRealSVD (the
// lower-level gonum.Dbdsqr, by contrast, accumulates onto whatever
// the caller put in u and v). It is most useful for testing BidiagQR
// in isolation against the same property tests DivideAndConquer is
// checked with.
func BidiagSVDQR(diag, subdiag []float64, u, v blas64.General, wantU, wantV bool, epsilon, nearZero float64) {
	n := len(diag)
	if wantU && (u.Rows != n+1 || u.Cols != n+1) {
		panic(badU)
	}
	if wantV && (v.Rows != n || v.Cols != n) {
		panic(badV)
	}
	if n == 0 {
		return
	}
	if wantU {
		setIdentity(u)
	}
	if wantV {
		setIdentity(v)
	}

	maxVal := math.Max(
		math.Abs(diag[blas64.Iamax(n, blas64.Vector{Inc: 1, Data: diag})]),
		math.Abs(subdiag[blas64.Iamax(n, blas64.Vector{Inc: 1, Data: subdiag})]),
	)
	if maxVal == 0 {
		return
	}
	inv := 1 / maxVal
	for i := 0; i < n; i++ {
		diag[i] *= inv
		subdiag[i] *= inv
	}

	var uData, vData []float64
	var ldu, ldv int
	if wantU {
		uData, ldu = u.Data, u.Stride
	}
	if wantV {
		vData, ldv = v.Data, v.Stride
	}
	impl.Dbdsqr(n, diag, subdiag, uData, ldu, vData, ldv, wantU, wantV, epsilon, nearZero)

	for i := 0; i < n; i++ {
		diag[i] *= maxVal
	}
}

func setIdentity(a blas64.General) {
	for i := 0; i < a.Rows; i++ {
		row := a.Data[i*a.Stride : i*a.Stride+a.Cols]
		for j := range row {
			row[j] = 0
		}
	}
	for i := 0; i < a.Rows && i < a.Cols; i++ {
		a.Data[i*a.Stride+i] = 1
	}
}

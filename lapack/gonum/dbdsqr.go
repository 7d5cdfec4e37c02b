// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import (
	"math"

	"github.com/gonum-extras/bidiagsvd/blas64"
	"github.com/gonum-extras/bidiagsvd/lapack"
)

// Dbdsqr computes the SVD of the (n+1)×n lower-bidiagonal matrix B
// with B[i,i]=diag[i], B[i+1,i]=subdiag[i], by the implicit
// Golub-Kahan QR algorithm with a Wilkinson shift (spec.md §4.3). It
// is BidiagQR, used as the mid-sized fallback by EntryPoint and
// exposed directly as spec.md §6's bidiag_svd_qr.
//
// diag is overwritten with the descending, non-negative singular
// values. If wantU, u must hold an (n+1)×(n+1) matrix that Dbdsqr
// updates in place (U ← U·Q for the accumulated rotation Q); likewise
// v for the n×n V ← V·P. Dbdsqr never returns without having made
// progress, but gives up and returns its best partial result after
// 30n² sweep steps (spec.md §5), since that is a quality-of-result
// condition, not an error (spec.md §7).
func (impl Implementation) Dbdsqr(n int, diag, subdiag []float64, u []float64, ldu int, v []float64, ldv int, wantU, wantV bool, eps, tau float64) {
	switch {
	case n < 0:
		panic(nLT0)
	case len(diag) < n:
		panic(shortD)
	case len(subdiag) < n:
		panic(shortE)
	}
	if n == 0 {
		return
	}
	if n == 1 {
		impl.dbdsqr1(diag, subdiag, u, ldu, v, ldv, wantU, wantV)
		return
	}

	// Reduce the (n+1)×n lower-bidiagonal problem to a square n×n
	// upper-bidiagonal one by a forward sweep of row rotations, each
	// mirrored onto U's columns. After the sweep diag holds the new
	// diagonal and subdiag[0:n-1] the fill-in superdiagonal, with
	// subdiag[n-1]=0; U's column n never takes part in the QR
	// iteration below.
	impl.reduceLowerToUpper(n, diag, subdiag, u, ldu, n+1, wantU)

	e := subdiag[:n-1]
	maxIter := 30 * n * n
	iter := 0
	for {
		// Step 1: deflate negligible off-diagonals.
		for i := range e {
			if math.Abs(e[i]) <= eps*(math.Abs(diag[i])+math.Abs(diag[i+1])) || math.Abs(e[i]) <= tau {
				e[i] = 0
			}
		}
		// Step 2: snap negligible diagonal entries to exactly zero.
		for i := 0; i < n; i++ {
			if math.Abs(diag[i]) <= tau {
				diag[i] = 0
			}
		}
		// Step 3: locate the active block [start,end).
		end := n
		for end > 1 && math.Abs(e[end-2]) <= math.Sqrt(tau) {
			end--
		}
		if end == 1 {
			break
		}
		start := end - 1
		for start > 0 && e[start-1] != 0 {
			start--
		}

		if iter >= maxIter {
			break
		}
		iter++

		// Step 4: a zero diagonal inside the active block needs its
		// off-diagonal chased out before a shifted sweep is safe.
		zi := -1
		for i := start; i < end; i++ {
			if diag[i] == 0 {
				zi = i
				break
			}
		}
		if zi >= 0 {
			impl.chaseZeroDiagonal(start, zi, end, diag, e, u, ldu, v, ldv, n, wantU, wantV)
			continue
		}

		// Step 5: Wilkinson shift from the trailing 2×2 of BᵀB.
		t11 := diag[end-1]*diag[end-1] + e[end-2]*e[end-2]
		t01 := diag[end-2] * e[end-2]
		t00 := diag[end-2] * diag[end-2]
		if end-2 > start {
			t00 += e[end-3] * e[end-3]
		}
		mu := wilkinsonShift(t00, t01, t11, tau)

		// Step 6: implicit chase (Golub-Kahan SVD step).
		impl.bidiagQRStep(start, end, mu, diag, e, u, ldu, v, ldv, n, wantU, wantV)
	}

	// Sign and sort.
	for i := 0; i < n; i++ {
		if diag[i] < 0 {
			diag[i] = -diag[i]
			if wantV {
				blas64.Scal(n, -1, blas64.Vector{Inc: ldv, Data: v[i:]})
			}
		}
	}
	impl.sortDescending(n, diag, u, ldu, n+1, v, ldv, wantU, wantV)
}

// reduceLowerToUpper transforms the (n+1)×n lower-bidiagonal matrix
// carried by diag/sub into the square n×n upper-bidiagonal matrix
// G·B = [R; 0] by a forward sweep of n row rotations, each zeroing
// sub[i] into diag[i] and spilling fill-in onto the superdiagonal.
// On return diag holds R's diagonal and sub[i] its superdiagonal
// entry (i < n-1), with sub[n-1] = 0. When wantU, every rotation is
// mirrored onto columns (i, i+1) of u (nu rows at stride ldu), so the
// caller's accumulated left factor absorbs Gᵀ.
func (impl Implementation) reduceLowerToUpper(n int, diag, sub []float64, u []float64, ldu, nu int, wantU bool) {
	for i := 0; i < n; i++ {
		rot, r := makeGivens(impl, diag[i], sub[i])
		diag[i] = r
		if i < n-1 {
			sub[i] = -rot.S * diag[i+1]
			diag[i+1] *= rot.C
		} else {
			sub[i] = 0
		}
		if wantU {
			rot.ApplyRight(u[i:], u[i+1:], nu, ldu)
		}
	}
}

// dbdsqr1 handles the trivial n=1 case directly: B is the 2×1 matrix
// [diag[0]; subdiag[0]].
func (impl Implementation) dbdsqr1(diag, subdiag []float64, u []float64, ldu int, v []float64, ldv int, wantU, wantV bool) {
	rot, r := makeGivens(impl, diag[0], subdiag[0])
	subdiag[0] = 0
	if wantU {
		rot.ApplyRight(u[0:], u[1:], 2, ldu)
	}
	if r < 0 {
		r = -r
		if wantV {
			blas64.Scal(1, -1, blas64.Vector{Inc: ldv, Data: v})
		}
	}
	diag[0] = r
}

// chaseZeroDiagonal removes the off-diagonal entry coupled to an
// exactly-zero diagonal entry at index zi of the active block
// [start,end). For an interior zero, row zi's superdiagonal e[zi] is
// chased rightward through rows (k, zi), k=zi+1..end-1, with the
// rotations mirrored onto U; row zi ends up all zero, splitting the
// block. A zero in the block's last diagonal slot instead has the
// column above it, e[end-2], chased upward through columns
// (k, end-1), with the rotations mirrored onto V.
func (impl Implementation) chaseZeroDiagonal(start, zi, end int, diag, e []float64, u []float64, ldu int, v []float64, ldv int, n int, wantU, wantV bool) {
	if zi == end-1 {
		f := e[end-2]
		e[end-2] = 0
		for k := end - 2; k >= start; k-- {
			rot, r := makeGivens(impl, diag[k], f)
			diag[k] = r
			if k > start {
				f = rot.S * e[k-1]
				e[k-1] = rot.C * e[k-1]
			}
			if wantV {
				rot.ApplyRight(v[k:], v[end-1:], n, ldv)
			}
		}
		return
	}
	f := e[zi]
	e[zi] = 0
	for k := zi + 1; k < end; k++ {
		rot, r := makeGivens(impl, diag[k], f)
		diag[k] = r
		if k < end-1 {
			f = rot.S * e[k]
			e[k] = rot.C * e[k]
		}
		if wantU {
			rot.ApplyRight(u[k:], u[zi:], n+1, ldu)
		}
	}
}

// bidiagQRStep performs one implicit Golub-Kahan QR sweep over the
// active block [start,end), chasing the bulge introduced by shift mu
// through alternating column rotations (applied to V) and row
// rotations (applied to U). This is the standard implicit bidiagonal
// SVD step (Golub & Van Loan, Matrix Computations, §8.6.2).
func (impl Implementation) bidiagQRStep(start, end int, mu float64, diag, e []float64, u []float64, ldu int, v []float64, ldv int, n int, wantU, wantV bool) {
	y := diag[start]*diag[start] - mu
	z := diag[start] * e[start]
	for k := start; k < end-1; k++ {
		rotV, r := makeGivens(impl, y, z)
		if k > start {
			e[k-1] = r
		}
		f := rotV.C*diag[k] - rotV.S*e[k]
		enew := rotV.S*diag[k] + rotV.C*e[k]
		g := -rotV.S * diag[k+1]
		dnew := rotV.C * diag[k+1]
		if wantV {
			rotV.ApplyRight(v[k:], v[k+1:], n, ldv)
		}

		rotU, r2 := makeGivens(impl, f, g)
		diag[k] = r2
		f2 := rotU.C*enew - rotU.S*dnew
		d2 := rotU.S*enew + rotU.C*dnew
		if wantU {
			rotU.ApplyRight(u[k:], u[k+1:], n+1, ldu)
		}

		if k < end-2 {
			g2 := -rotU.S * e[k+1]
			e[k+1] = rotU.C * e[k+1]
			diag[k+1] = d2
			y, z = f2, g2
		} else {
			e[k] = f2
			diag[k+1] = d2
		}
	}
}

// sortDescending sorts diag[0:n] into descending order, permuting the
// first nu rows' worth of u's columns and the first n of v's the same
// way via cooperative selection-sort swaps (the same pattern Djacobi's
// final sort uses). When neither factor is wanted there is nothing to
// carry along, so it defers to the plain lapack.Dlasrt the way real
// DBDSQR only sorts by cooperative swap when NCVT, NRU or NCC is
// nonzero and falls back to DLASRT otherwise.
func (impl Implementation) sortDescending(n int, diag []float64, u []float64, ldu, nu int, v []float64, ldv int, wantU, wantV bool) {
	if !wantU && !wantV {
		lapack.Dlasrt(lapack.SortDecreasing, n, diag)
		return
	}
	for i := 0; i < n; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if diag[j] > diag[best] {
				best = j
			}
		}
		if best == i {
			continue
		}
		diag[i], diag[best] = diag[best], diag[i]
		if wantU {
			blas64.Swap(nu, blas64.Vector{Inc: ldu, Data: u[i:]}, blas64.Vector{Inc: ldu, Data: u[best:]})
		}
		if wantV {
			blas64.Swap(n, blas64.Vector{Inc: ldv, Data: v[i:]}, blas64.Vector{Inc: ldv, Data: v[best:]})
		}
	}
}

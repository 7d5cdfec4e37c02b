// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import "math"

// sym2x2Eig returns the eigenvalues big ≥ small of the symmetric 2×2
// matrix [[a11,a12],[a12,a22]] and the rotation (c,s) that diagonalizes
// it: [c -s; s c] · M · [c s; -s c] = diag(big,small). It is the
// classical cyclic-Jacobi 2×2 rotation (Golub & Van Loan), shared by
// JacobiSVD's pivot step (the 2×2 Gram matrix of a column pair is
// exactly this shape) and Dlasv2's eigen-based reduction below.
func sym2x2Eig(a11, a12, a22 float64) (big, small, c, s float64) {
	if a12 == 0 {
		if a11 >= a22 {
			return a11, a22, 1, 0
		}
		return a22, a11, 0, 1
	}
	theta := (a22 - a11) / (2 * a12)
	t := math.Copysign(1, theta) / (math.Abs(theta) + math.Hypot(1, theta))
	c = 1 / math.Hypot(1, t)
	s = t * c
	// New diagonal entries after applying the rotation.
	d1 := a11 - t*a12
	d2 := a22 + t*a12
	if d1 >= d2 {
		return d1, d2, c, s
	}
	// Swap so big/small come out ordered; swapping the eigenvalues
	// corresponds to swapping the rotation's two output columns.
	return d2, d1, -s, c
}

// wilkinsonShift returns the eigenvalue of [[t00,t01],[t01,t11]]
// closer to t11, using the d-based stable formulation spec.md §4.3
// step 5 calls for (the numerically stable form; see DESIGN.md's Open
// Question note on the alternative delta-based formula).
func wilkinsonShift(t00, t01, t11, tau float64) float64 {
	if t01*t01 <= tau {
		return t11
	}
	d := (t00 - t11) / 2
	return t11 - t01*t01/(d+math.Copysign(math.Hypot(d, t01), d))
}

// Dlasv2 computes the SVD of the 2×2 upper triangular matrix
//
//	[f g]
//	[0 h]
//
// returning singular values ssmin ≤ ssmax and rotations (csl,snl),
// (csr,snr) such that
//
//	[ csl snl] [f g] [csr -snr]   [ssmax   0  ]
//	[-snl csl] [0 h] [snr  csr] = [  0   ssmin]
//
// when f·h ≥ 0; when f·h < 0 the (2,2) entry of that product is
// −ssmin, since both singular values are returned non-negative.
//
// This is the supplemented 2×2 shortcut of SPEC_FULL.md §5: rather
// than LAPACK's full safe-scaling case analysis, ssmax and the
// vectors are obtained from the eigendecomposition of AᵀA via
// sym2x2Eig, and ssmin as |f·h|/ssmax (|det A| = ssmax·ssmin), which
// keeps ssmin accurate even when it is far below ssmax for the
// O(1)-scaled inputs EntryPoint normalizes to (see DESIGN.md's Open
// Question note on normalization).
func (impl Implementation) Dlasv2(f, g, h float64) (ssmin, ssmax, csl, snl, csr, snr float64) {
	big, _, c, s := sym2x2Eig(f*f, f*g, g*g+h*h)
	ssmax = math.Sqrt(big)
	if ssmax > 0 {
		ssmin = math.Abs(f*h) / ssmax
	}
	// (c,s) diagonalizes AᵀA, i.e. is the right rotation (csr,snr) up
	// to the column ordering sym2x2Eig already normalized to
	// big-then-small — but sym2x2Eig's (c,s) is the first row of its
	// eigenvector matrix, not its first column, so the right rotation
	// this routine's own [[csl,snl],[-snl,csl]]·A·[[csr,-snr],[snr,csr]]
	// = diag(ssmax,ssmin) identity requires is (c,-s).
	csr, snr = c, -s
	// Left singular vector u1 = A·v1/ssmax, where v1=(csr,snr) is the
	// first column of V; read off its two components as (csl,snl).
	if ssmax > 0 {
		csl = (f*csr + g*snr) / ssmax
		snl = h * snr / ssmax
	} else {
		csl, snl = 1, 0
	}
	return ssmin, ssmax, csl, snl, csr, snr
}

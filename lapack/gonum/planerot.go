// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

// PlaneRotation is a Givens/Jacobi rotation (c,s) with c²+s²=1,
// spec.md §4.1. Dlartg constructs the rotation that zeros a given
// component; ApplyLeft and ApplyRight apply an existing one to a pair
// of rows or columns.
type PlaneRotation struct {
	C, S float64
}

// ApplyLeft updates the two row vectors x, y in place following
//
//	x ← c·x − s·y
//	y ← s·x + c·y
//
// using the original values of x and y, touching only the elements
// given. This is the transpose of blas64.Rot's sign convention, so it
// is not built on top of Rot directly (see DESIGN.md).
func (r PlaneRotation) ApplyLeft(x, y []float64) {
	for i := range x {
		xi, yi := x[i], y[i]
		x[i] = r.C*xi - r.S*yi
		y[i] = r.S*xi + r.C*yi
	}
}

// ApplyRight is ApplyLeft applied to two columns of a matrix instead
// of two rows. x and y must point at the first (row 0) element of
// each column; n is the number of rows to rotate and stride is the
// matrix's row stride.
func (r PlaneRotation) ApplyRight(x, y []float64, n, stride int) {
	ix := 0
	for k := 0; k < n; k++ {
		xi, yi := x[ix], y[ix]
		x[ix] = r.C*xi - r.S*yi
		y[ix] = r.S*xi + r.C*yi
		ix += stride
	}
}

// makeGivens constructs the PlaneRotation that sends (a,b) to (r,0)
// under ApplyLeft/ApplyRight's [[c,-s],[s,c]] convention. Dlartg's own
// contract is the matrix [[cs,sn],[-sn,cs]] (see its doc comment),
// which is [[c,-s],[s,c]] with s=-sn; the sign flip must happen here
// so every other caller of makeGivens can rely on ApplyLeft/ApplyRight
// actually zeroing b (Djacobi's sweep does not use makeGivens: its
// rotation comes from sym2x2Eig and is applied without a flip — see
// DESIGN.md).
func makeGivens(impl Implementation, a, b float64) (rot PlaneRotation, r float64) {
	c, s, r := impl.Dlartg(a, b)
	return PlaneRotation{C: c, S: -s}, r
}

// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blas64 provides a minimal, typed interface to the float64
// BLAS operations the bidiagonal SVD solver needs: vector scaling and
// rotation, and the general matrix-matrix product used to roll the
// divide-and-conquer merge's local rotations into the caller's
// outer singular-vector factors.
package blas64

// Transpose specifies whether a General argument to Gemm should be
// used as given or as its transpose.
type Transpose bool

const (
	NoTrans Transpose = false
	Trans   Transpose = true
)

var impl Float64 = Native{}

// Use sets the BLAS float64 implementation to be used by subsequent
// package-level calls. The default is Native, a plain Go
// implementation whose Dgemm parallelizes across block-partitioned
// submatrices.
func Use(b Float64) {
	impl = b
}

// Implementation returns the current BLAS float64 implementation,
// for callers that want to bypass the General/Vector wrappers.
func Implementation() Float64 {
	return impl
}

// Vector represents a vector with an associated element increment.
type Vector struct {
	Inc  int
	Data []float64
}

// General represents a matrix using the conventional row-major
// storage scheme: entry (i,j) lives at Data[i*Stride+j].
type General struct {
	Rows, Cols int
	Stride     int
	Data       []float64
}

// Float64 is the set of float64 BLAS operations this package requires
// of a backend. Native satisfies it; a caller may install a different
// backend (e.g. one that calls out to a vendor BLAS) via Use.
type Float64 interface {
	Ddot(n int, x []float64, incX int, y []float64, incY int) float64
	Dnrm2(n int, x []float64, incX int) float64
	Dscal(n int, alpha float64, x []float64, incX int)
	Daxpy(n int, alpha float64, x []float64, incX int, y []float64, incY int)
	Drot(n int, x []float64, incX int, y []float64, incY int, c, s float64)
	Dswap(n int, x []float64, incX int, y []float64, incY int)
	Dcopy(n int, x []float64, incX int, y []float64, incY int)
	Idamax(n int, x []float64, incX int) int
	Dgemm(tA, tB Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int)
}

const negInc = "blas64: negative vector increment"

func Dot(n int, x, y Vector) float64 {
	return impl.Ddot(n, x.Data, x.Inc, y.Data, y.Inc)
}

// Nrm2 will panic if the vector increment is negative.
func Nrm2(n int, x Vector) float64 {
	if x.Inc < 0 {
		panic(negInc)
	}
	return impl.Dnrm2(n, x.Data, x.Inc)
}

// Iamax will panic if the vector increment is negative.
func Iamax(n int, x Vector) int {
	if x.Inc < 0 {
		panic(negInc)
	}
	return impl.Idamax(n, x.Data, x.Inc)
}

func Swap(n int, x, y Vector) {
	impl.Dswap(n, x.Data, x.Inc, y.Data, y.Inc)
}

func Copy(n int, x, y Vector) {
	impl.Dcopy(n, x.Data, x.Inc, y.Data, y.Inc)
}

func Axpy(n int, alpha float64, x, y Vector) {
	impl.Daxpy(n, alpha, x.Data, x.Inc, y.Data, y.Inc)
}

// Rot applies the plane rotation (c,s) to x and y, in the BLAS
// convention x←cx+sy, y←cy−sx. Note this is the transpose of the
// convention PlaneRotation.ApplyLeft/ApplyRight use; callers in this
// module construct c,s accordingly rather than relying on Rot
// directly for the solver's own rotations.
func Rot(n int, x, y Vector, c, s float64) {
	impl.Drot(n, x.Data, x.Inc, y.Data, y.Inc, c, s)
}

// Scal will panic if the vector increment is negative.
func Scal(n int, alpha float64, x Vector) {
	if x.Inc < 0 {
		panic(negInc)
	}
	impl.Dscal(n, alpha, x.Data, x.Inc)
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C, where op(X) is X or
// Xᵀ according to tA, tB.
func Gemm(tA, tB Transpose, alpha float64, a, b General, beta float64, c General) {
	var m, n, k int
	if tA == NoTrans {
		m, k = a.Rows, a.Cols
	} else {
		m, k = a.Cols, a.Rows
	}
	if tB == NoTrans {
		n = b.Cols
	} else {
		n = b.Rows
	}
	impl.Dgemm(tA, tB, m, n, k, alpha, a.Data, a.Stride, b.Data, b.Stride, beta, c.Data, c.Stride)
}

// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blas64

import (
	"math"
	"runtime"
	"sync"
)

// Native is a plain Go implementation of the Float64 interface. Its
// Dgemm partitions C into row blocks and computes them concurrently
// once there are enough blocks to be worth the fork, the same
// block-then-fork shape goblas's Dgemm uses, simplified from a
// channel-fed worker pool to one goroutine per row block joined by a
// WaitGroup — this package only ever needs a single round of fork/join,
// not a pipelined stream of sub-blocks.
type Native struct{}

const (
	blockSize   = 64
	minParBlock = 2
)

func (Native) Ddot(n int, x []float64, incX int, y []float64, incY int) float64 {
	var sum float64
	ix, iy := 0, 0
	for i := 0; i < n; i++ {
		sum += x[ix] * y[iy]
		ix += incX
		iy += incY
	}
	return sum
}

func (Native) Dnrm2(n int, x []float64, incX int) float64 {
	if n < 1 || incX < 1 {
		return 0
	}
	if n == 1 {
		return math.Abs(x[0])
	}
	var scale float64
	ssq := 1.0
	ix := 0
	for i := 0; i < n; i++ {
		v := x[ix]
		if v != 0 {
			av := math.Abs(v)
			if scale < av {
				ssq = 1 + ssq*(scale/av)*(scale/av)
				scale = av
			} else {
				ssq += (av / scale) * (av / scale)
			}
		}
		ix += incX
	}
	return scale * math.Sqrt(ssq)
}

func (Native) Dscal(n int, alpha float64, x []float64, incX int) {
	ix := 0
	for i := 0; i < n; i++ {
		x[ix] *= alpha
		ix += incX
	}
}

func (Native) Daxpy(n int, alpha float64, x []float64, incX int, y []float64, incY int) {
	if alpha == 0 {
		return
	}
	ix, iy := 0, 0
	for i := 0; i < n; i++ {
		y[iy] += alpha * x[ix]
		ix += incX
		iy += incY
	}
}

func (Native) Drot(n int, x []float64, incX int, y []float64, incY int, c, s float64) {
	ix, iy := 0, 0
	for i := 0; i < n; i++ {
		xi, yi := x[ix], y[iy]
		x[ix] = c*xi + s*yi
		y[iy] = c*yi - s*xi
		ix += incX
		iy += incY
	}
}

func (Native) Dswap(n int, x []float64, incX int, y []float64, incY int) {
	ix, iy := 0, 0
	for i := 0; i < n; i++ {
		x[ix], y[iy] = y[iy], x[ix]
		ix += incX
		iy += incY
	}
}

func (Native) Dcopy(n int, x []float64, incX int, y []float64, incY int) {
	ix, iy := 0, 0
	for i := 0; i < n; i++ {
		y[iy] = x[ix]
		ix += incX
		iy += incY
	}
}

func (Native) Idamax(n int, x []float64, incX int) int {
	if n < 1 || incX < 0 {
		return -1
	}
	idx := 0
	max := math.Abs(x[0])
	ix := incX
	for i := 1; i < n; i++ {
		if v := math.Abs(x[ix]); v > max {
			max = v
			idx = i
		}
		ix += incX
	}
	return idx
}

func (Native) Dgemm(tA, tB Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) {
	if m == 0 || n == 0 {
		return
	}
	if beta != 1 {
		for i := 0; i < m; i++ {
			row := c[i*ldc : i*ldc+n]
			if beta == 0 {
				for j := range row {
					row[j] = 0
				}
			} else {
				for j := range row {
					row[j] *= beta
				}
			}
		}
	}
	if alpha == 0 || k == 0 {
		return
	}

	rowBlocks := (m + blockSize - 1) / blockSize
	if rowBlocks < minParBlock || runtime.GOMAXPROCS(0) < 2 {
		dgemmSerial(tA, tB, m, n, k, alpha, a, lda, b, ldb, c, ldc, 0, m)
		return
	}

	var wg sync.WaitGroup
	for i0 := 0; i0 < m; i0 += blockSize {
		i1 := i0 + blockSize
		if i1 > m {
			i1 = m
		}
		wg.Add(1)
		go func(i0, i1 int) {
			defer wg.Done()
			dgemmSerial(tA, tB, m, n, k, alpha, a, lda, b, ldb, c, ldc, i0, i1)
		}(i0, i1)
	}
	wg.Wait()
}

// dgemmSerial accumulates alpha*op(A)*op(B) into rows [rowLo,rowHi) of
// C; C is assumed already scaled by beta.
func dgemmSerial(tA, tB Transpose, m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, c []float64, ldc int, rowLo, rowHi int) {
	for i := rowLo; i < rowHi; i++ {
		crow := c[i*ldc : i*ldc+n]
		for p := 0; p < k; p++ {
			var aip float64
			if tA == NoTrans {
				aip = a[i*lda+p]
			} else {
				aip = a[p*lda+i]
			}
			if aip == 0 {
				continue
			}
			aip *= alpha
			if tB == NoTrans {
				brow := b[p*ldb : p*ldb+n]
				for j, bpj := range brow {
					crow[j] += aip * bpj
				}
			} else {
				for j := 0; j < n; j++ {
					crow[j] += aip * b[j*ldb+p]
				}
			}
		}
	}
}

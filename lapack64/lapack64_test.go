// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lapack64

import (
	"fmt"
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/gonum-extras/bidiagsvd/blas64"
)

func denseBidiag(n int, diag, subdiag []float64) []float64 {
	b := make([]float64, (n+1)*n)
	for i := 0; i < n; i++ {
		b[i*n+i] = diag[i]
		b[(i+1)*n+i] = subdiag[i]
	}
	return b
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
	if maxErr > 1e-9 {
		t.Errorf("%v: %s not orthogonal, max|AᵀA-I| = %v", name, label, maxErr)
	}
}

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
	if maxErr > 1e-10*math.Max(1, float64(n)) {
		t.Errorf("%v: reconstruction error %v", name, maxErr)
	}
}

// TestBidiagSVDQRFixed checks the n=4 fixed case: diag=[1,2,3,4],
// subdiag=[1,1,1] against the explicit 5×4 lower-bidiagonal matrix
// [[1,0,0,0],[1,2,0,0],[0,1,3,0],[0,0,1,4],[0,0,0,0]] (the transpose
// of [[1,1,0,0],[0,2,1,0],[0,0,3,1],[0,0,0,4]] with a zero row added).
func TestBidiagSVDQRFixed(t *testing.T) {
	diag := []float64{1, 2, 3, 4}
	subdiag := []float64{1, 1, 1, 0}
	n := len(diag)
	bOrig := denseBidiag(n, diag, subdiag)

	// Zero-valued factors: BidiagSVDQR owns the identity
	// initialization, the same as ComputeBidiagRealSVD.
	u := blas64.General{Rows: n + 1, Cols: n + 1, Stride: n + 1, Data: make([]float64, (n+1)*(n+1))}
	v := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}

	BidiagSVDQR(diag, subdiag, u, v, true, true, Epsilon(), SafeMin())

	checkOrthogonal(t, "n=4 fixed", "U", n+1, u)
	checkOrthogonal(t, "n=4 fixed", "V", n, v)
	checkReconstruction(t, "n=4 fixed", n, bOrig, u, diag, v)
}

// TestComputeBidiagRealSVDRandomSizes exercises EntryPoint's full size
// range at a below-default jacobi threshold and a zero qr threshold,
// forcing every n above 5 through DivideAndConquer.
func TestComputeBidiagRealSVDRandomSizes(t *testing.T) {
	const jacobiThreshold = 5
	const qrThreshold = 0
	rnd := rand.New(rand.NewSource(7))
	for _, n := range []int{9, 16, 32, 64, 128, 256, 512, 1024} {
		name := fmt.Sprintf("n=%d", n)
		diag := make([]float64, n)
		subdiag := make([]float64, n)
		for i := range diag {
			diag[i] = rnd.Float64()
			subdiag[i] = rnd.Float64()
		}
		subdiag[n-1] = rnd.Float64()
		bOrig := denseBidiag(n, diag, subdiag)

		u := blas64.General{Rows: n + 1, Cols: n + 1, Stride: n + 1, Data: make([]float64, (n+1)*(n+1))}
		v := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}
		scratchLen, err := BidiagRealSVDScratchSize(n, jacobiThreshold)
		if err != nil {
			t.Fatalf("%v: BidiagRealSVDScratchSize: %v", name, err)
		}
		scratch := make([]float64, scratchLen)

		ComputeBidiagRealSVD(diag, subdiag, u, v, true, true, jacobiThreshold, qrThreshold, Epsilon(), SafeMin(), NoParallelism, scratch)

		checkOrthogonal(t, name, "U", n+1, u)
		checkOrthogonal(t, name, "V", n, v)
		checkReconstruction(t, name, n, bOrig, u, diag, v)
	}
}

// TestComputeBidiagRealSVDClusteredThresholds repeats the same check
// at jacobi thresholds of 15 and 40 with the default qr threshold: n=64
// and n=128 are solved whole by BidiagQR, and n=1024 goes through
// DivideAndConquer recursion with JacobiSVD leaves.
func TestComputeBidiagRealSVDClusteredThresholds(t *testing.T) {
	for _, tc := range []struct {
		n, jacobiThreshold int
		seed               uint64
	}{
		{64, 15, 101},
		{128, 40, 102},
		{1024, 40, 103},
		{1024, 40, 104},
		{1024, 40, 105},
	} {
		name := fmt.Sprintf("n=%d,threshold=%d,seed=%d", tc.n, tc.jacobiThreshold, tc.seed)
		rnd := rand.New(rand.NewSource(tc.seed))
		n := tc.n
		diag := make([]float64, n)
		subdiag := make([]float64, n)
		for i := range diag {
			diag[i] = rnd.Float64()
			subdiag[i] = rnd.Float64()
		}
		subdiag[n-1] = rnd.Float64()
		bOrig := denseBidiag(n, diag, subdiag)

		u := blas64.General{Rows: n + 1, Cols: n + 1, Stride: n + 1, Data: make([]float64, (n+1)*(n+1))}
		v := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}
		scratchLen, err := BidiagRealSVDScratchSize(n, tc.jacobiThreshold)
		if err != nil {
			t.Fatalf("%v: BidiagRealSVDScratchSize: %v", name, err)
		}
		scratch := make([]float64, scratchLen)

		ComputeBidiagRealSVD(diag, subdiag, u, v, true, true, tc.jacobiThreshold, DefaultQRThreshold, Epsilon(), SafeMin(), NoParallelism, scratch)

		checkOrthogonal(t, name, "U", n+1, u)
		checkOrthogonal(t, name, "V", n, v)
		checkReconstruction(t, name, n, bOrig, u, diag, v)
	}
}

// TestComputeBidiagRealSVDDeflationCorner checks that a diag[0] many
// orders of magnitude below the rest of the spectrum still survives
// the near-zero guard in deflation rather than being lost, while the
// rest of the matrix deflates normally.
func TestComputeBidiagRealSVDDeflationCorner(t *testing.T) {
	const n = 32
	rnd := rand.New(rand.NewSource(42))
	diag := make([]float64, n)
	subdiag := make([]float64, n)
	diag[0] = 1e-20
	for i := 1; i < n; i++ {
		diag[i] = 1 + 0.01*rnd.Float64()
	}
	for i := 0; i < n; i++ {
		subdiag[i] = 0.5
	}
	bOrig := denseBidiag(n, diag, subdiag)

	u := blas64.General{Rows: n + 1, Cols: n + 1, Stride: n + 1, Data: make([]float64, (n+1)*(n+1))}
	v := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}
	scratchLen, err := BidiagRealSVDScratchSize(n, DefaultJacobiThreshold)
	if err != nil {
		t.Fatalf("BidiagRealSVDScratchSize: %v", err)
	}
	scratch := make([]float64, scratchLen)

	ComputeBidiagRealSVD(diag, subdiag, u, v, true, true, DefaultJacobiThreshold, 0, Epsilon(), SafeMin(), NoParallelism, scratch)

	checkOrthogonal(t, "deflation corner", "U", n+1, u)
	checkOrthogonal(t, "deflation corner", "V", n, v)
	checkReconstruction(t, "deflation corner", n, bOrig, u, diag, v)

	for _, s := range diag {
		if s < -1e-9 {
			t.Errorf("deflation corner: negative singular value %v", s)
		}
	}
}

// TestComputeBidiagRealSVDIdempotent feeds a solve's own singular
// values back in as a diagonal matrix (zero sub-diagonal): the output
// must be the same values in the same order, with U and V orthogonal —
// an already-diagonal input must survive re-solving untouched.
func TestComputeBidiagRealSVDIdempotent(t *testing.T) {
	const n = 24
	rnd := rand.New(rand.NewSource(9))
	diag := make([]float64, n)
	subdiag := make([]float64, n)
	for i := range diag {
		diag[i] = rnd.Float64()
		subdiag[i] = rnd.Float64()
	}
	u := blas64.General{Rows: n + 1, Cols: n + 1, Stride: n + 1, Data: make([]float64, (n+1)*(n+1))}
	v := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}
	scratchLen, err := BidiagRealSVDScratchSize(n, 5)
	if err != nil {
		t.Fatalf("BidiagRealSVDScratchSize: %v", err)
	}
	scratch := make([]float64, scratchLen)
	ComputeBidiagRealSVD(diag, subdiag, u, v, true, true, 5, 8, Epsilon(), SafeMin(), NoParallelism, scratch)

	again := append([]float64(nil), diag...)
	zero := make([]float64, n)
	u2 := blas64.General{Rows: n + 1, Cols: n + 1, Stride: n + 1, Data: make([]float64, (n+1)*(n+1))}
	v2 := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}
	ComputeBidiagRealSVD(again, zero, u2, v2, true, true, 5, 8, Epsilon(), SafeMin(), NoParallelism, scratch)

	for i := range diag {
		if math.Abs(again[i]-diag[i]) > 1e-12*math.Max(1, diag[i]) {
			t.Errorf("idempotence: singular value %d changed from %v to %v", i, diag[i], again[i])
		}
	}
	checkOrthogonal(t, "idempotence", "U", n+1, u2)
	checkOrthogonal(t, "idempotence", "V", n, v2)
}

// TestComputeBidiagRealSVDParallel re-runs a DivideAndConquer-sized
// problem with a worker budget and checks it against the sequential
// result: the fork/join sites must not change what is computed.
func TestComputeBidiagRealSVDParallel(t *testing.T) {
	const n = 200
	const jacobiThreshold = 8
	rnd := rand.New(rand.NewSource(17))
	diag := make([]float64, n)
	subdiag := make([]float64, n)
	for i := range diag {
		diag[i] = rnd.Float64()
		subdiag[i] = rnd.Float64()
	}
	bOrig := denseBidiag(n, diag, subdiag)
	seq := append([]float64(nil), diag...)
	seqSub := append([]float64(nil), subdiag...)

	u := blas64.General{Rows: n + 1, Cols: n + 1, Stride: n + 1, Data: make([]float64, (n+1)*(n+1))}
	v := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}
	scratchLen, err := BidiagRealSVDScratchSize(n, jacobiThreshold)
	if err != nil {
		t.Fatalf("BidiagRealSVDScratchSize: %v", err)
	}
	scratch := make([]float64, scratchLen)
	ComputeBidiagRealSVD(diag, subdiag, u, v, true, true, jacobiThreshold, jacobiThreshold, Epsilon(), SafeMin(), Parallel(4), scratch)

	checkOrthogonal(t, "parallel", "U", n+1, u)
	checkOrthogonal(t, "parallel", "V", n, v)
	checkReconstruction(t, "parallel", n, bOrig, u, diag, v)

	u2 := blas64.General{Rows: n + 1, Cols: n + 1, Stride: n + 1, Data: make([]float64, (n+1)*(n+1))}
	v2 := blas64.General{Rows: n, Cols: n, Stride: n, Data: make([]float64, n*n)}
	ComputeBidiagRealSVD(seq, seqSub, u2, v2, true, true, jacobiThreshold, jacobiThreshold, Epsilon(), SafeMin(), NoParallelism, scratch)
	for i := range diag {
		if diag[i] != seq[i] {
			t.Errorf("parallel: singular value %d differs from sequential run: %v vs %v", i, diag[i], seq[i])
		}
	}
}

// TestComputeBidiagRealSVDSingleColumn covers the n=1 trivial case: B
// is the 2×1 matrix [diag[0]; subdiag[0]].
func TestComputeBidiagRealSVDSingleColumn(t *testing.T) {
	diag := []float64{0.6}
	subdiag := []float64{0.8}
	bOrig := denseBidiag(1, diag, subdiag)

	u := blas64.General{Rows: 2, Cols: 2, Stride: 2, Data: make([]float64, 4)}
	v := blas64.General{Rows: 1, Cols: 1, Stride: 1, Data: make([]float64, 1)}
	ComputeBidiagRealSVD(diag, subdiag, u, v, true, true, DefaultJacobiThreshold, DefaultQRThreshold, Epsilon(), SafeMin(), NoParallelism, nil)

	if math.Abs(diag[0]-1) > 1e-14 {
		t.Errorf("single column: singular value %v, want 1", diag[0])
	}
	checkOrthogonal(t, "single column", "U", 2, u)
	checkReconstruction(t, "single column", 1, bOrig, u, diag, v)
}

// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import (
	"math"

	"github.com/gonum-extras/bidiagsvd/blas64"
)

// Dlasd1 is DivideAndConquer (spec.md §4.7): it computes the SVD of
// the (m+1)×m lower-bidiagonal block spanning columns [lo,hi) of the
// full problem, with diagonal diag[lo:hi] and sub-diagonal e[lo:hi]
// (e[hi-1] couples the block to its own extra row). The block's left
// factor occupies rows and columns [lo,hi+1) of u, its right factor
// rows and columns [lo,hi) of v; Dlasd1 never writes outside those
// ranges, so sibling subtrees cannot interfere even when run
// concurrently.
//
// The block is split around its middle column mid: the left child is
// the (k+1)×k lower bidiagonal on columns [lo,mid), the right child
// the one on columns [mid+1,hi), and column mid — with entries
// α=diag[mid] and β=e[mid] — is what couples them. Merging the two
// solved halves turns the block into a matrix whose squared singular
// values are the eigenvalues of diag(d)²+z·zᵀ, where d collects the
// children's singular values behind a leading zero pole and z is
// built from the children's boundary U rows; that rank-one form is
// what Dlasd2 (deflation), Dlasd4 (secular roots) and Dlasd3
// (perturbed update vector) are solved against, and the resulting
// inner factors are folded into u and v by dense multiplication.
//
// On return diag[lo:hi] holds the block's singular values,
// non-negative but only sorted per merge bucket; EntryPoint does the
// one global descending sort.
//
// arena supplies dcMerge's two block-sized working vectors at every
// level of the recursion; it is split between the two recursive calls
// before they run (scratchLen computes the exact split point), so
// concurrent siblings never write into each other's scratch.
//
// jacobiThreshold is the block size at and below which the recursion
// bottoms out into a direct leaf solve rather than splitting again,
// the same parameter EntryPoint (Dlasd0) uses for its own top-level
// dispatch — spec.md §6 names it as one explicit parameter threaded
// through every layer rather than a package-wide default, so
// scratchLen must agree with whatever value the caller passes to
// Dlasd0/BidiagRealSVDScratchSize.
func (impl Implementation) Dlasd1(lo, hi int, diag, e []float64, u, v blas64.General, wantV bool, jacobiThreshold int, par Parallelism, arena ScratchArena, eps, tau float64) {
	m := hi - lo
	if m <= jacobiThreshold {
		impl.dcLeaf(lo, hi, diag, e, u, v, true, wantV, eps, tau)
		return
	}

	own := arena.alloc(2 * m)
	mid := lo + m/2
	k := mid - lo
	arenaL, arenaR := arena.split(scratchLen(k, jacobiThreshold), scratchLen(m-k-1, jacobiThreshold))

	parL, parR := par.split()
	join(par, func() {
		impl.Dlasd1(lo, mid, diag, e, u, v, wantV, jacobiThreshold, parL, arenaL, eps, tau)
	}, func() {
		impl.Dlasd1(mid+1, hi, diag, e, u, v, wantV, jacobiThreshold, parR, arenaR, eps, tau)
	})

	impl.dcMerge(lo, mid, hi, diag, e, u, v, wantV, own, par, eps, tau)
}

// scratchLen returns the number of float64s Dlasd1 needs from its
// arena to process a block of size m: 2*m for dcMerge's own d,z
// vectors at this level, plus whatever the two recursive calls need
// below it. Leaves draw no scratch (dcLeaf's temporaries are small,
// block-local, and short-lived, so they are ordinary allocations
// rather than arena traffic — see DESIGN.md).
func scratchLen(m, jacobiThreshold int) int {
	if m <= jacobiThreshold {
		return 0
	}
	k := m / 2
	return 2*m + scratchLen(k, jacobiThreshold) + scratchLen(m-k-1, jacobiThreshold)
}

// dcLeaf solves an (m+1)×m lower-bidiagonal block directly: a forward
// rotation sweep reduces it to a square upper-bidiagonal matrix, the
// square problem is solved in closed form for m ≤ 2 (inline for m = 1,
// by the supplemented Dlasv2 shortcut of SPEC_FULL.md §5 for m = 2) or
// by JacobiSVD otherwise, and the
// sweep rotations are folded back into the (m+1)×(m+1) left factor.
func (impl Implementation) dcLeaf(lo, hi int, diag, e []float64, u, v blas64.General, wantU, wantV bool, eps, tau float64) {
	m := hi - lo
	rots := make([]PlaneRotation, m)
	for i := 0; i < m; i++ {
		rot, r := makeGivens(impl, diag[lo+i], e[lo+i])
		diag[lo+i] = r
		if i < m-1 {
			e[lo+i] = -rot.S * diag[lo+i+1]
			diag[lo+i+1] *= rot.C
		} else {
			e[lo+i] = 0
		}
		rots[i] = rot
	}

	var usq []float64
	if wantU {
		usq = make([]float64, m*m)
	}
	switch m {
	case 1:
		if wantU {
			usq[0] = math.Copysign(1, diag[lo])
		}
		if wantV {
			v.Data[lo*v.Stride+lo] = 1
		}
		diag[lo] = math.Abs(diag[lo])
	case 2:
		// Dlasv2 returns ssmin ≥ 0; when f·h < 0 the rotated block's
		// (2,2) entry is −ssmin, which the sign of U's second column
		// absorbs.
		neg := diag[lo]*diag[lo+1] < 0
		ssmin, ssmax, csl, snl, csr, snr := impl.Dlasv2(diag[lo], e[lo], diag[lo+1])
		diag[lo], diag[lo+1] = ssmax, ssmin
		e[lo] = 0
		if wantU {
			usq[0], usq[1] = csl, -snl
			usq[2], usq[3] = snl, csl
			if neg {
				usq[1], usq[3] = snl, -csl
			}
		}
		if wantV {
			v.Data[lo*v.Stride+lo] = csr
			v.Data[lo*v.Stride+lo+1] = -snr
			v.Data[(lo+1)*v.Stride+lo] = snr
			v.Data[(lo+1)*v.Stride+lo+1] = csr
		}
	default:
		s := make([]float64, m*m)
		for i := 0; i < m; i++ {
			s[i*m+i] = diag[lo+i]
			if i < m-1 {
				s[i*m+i+1] = e[lo+i]
			}
		}
		var vblk []float64
		ldv := 1
		if wantV {
			vblk = v.Data[lo*v.Stride+lo:]
			ldv = v.Stride
		}
		work := make([]float64, m)
		impl.Djacobi(m, s, m, usq, m, vblk, ldv, wantU, wantV, JacobiSkipNone, eps, tau, work)
		for i := 0; i < m; i++ {
			diag[lo+i] = s[i*m+i]
			if i < m-1 {
				e[lo+i] = 0
			}
		}
	}

	if !wantU {
		return
	}
	// Rebuild the (m+1)×(m+1) left factor: embed the square solve's
	// factor, then unwind the sweep by left-multiplying the transposed
	// rotations in reverse order.
	full := make([]float64, (m+1)*(m+1))
	for i := 0; i < m; i++ {
		copy(full[i*(m+1):i*(m+1)+m], usq[i*m:i*m+m])
	}
	full[m*(m+1)+m] = 1
	for i := m - 1; i >= 0; i-- {
		inv := PlaneRotation{C: rots[i].C, S: -rots[i].S}
		inv.ApplyLeft(full[i*(m+1):(i+1)*(m+1)], full[(i+1)*(m+1):(i+2)*(m+1)])
	}
	copyBlock(u, lo, lo, m+1, m+1, full, m+1)
}

// copyBlock writes the m×n dense matrix src (row-major, stride ld)
// into dst's m×n block starting at (row0,col0).
func copyBlock(dst blas64.General, row0, col0, m, n int, src []float64, ld int) {
	for i := 0; i < m; i++ {
		copy(dst.Data[(row0+i)*dst.Stride+col0:(row0+i)*dst.Stride+col0+n], src[i*ld:i*ld+n])
	}
}

// dcMerge combines the already-solved children on columns [lo,mid)
// and [mid+1,hi) across the middle column mid, whose entries
// α=diag[mid], β=e[mid] couple them: one rotation of u's columns
// (mid, hi) empties the block's extra row, after which the block is
// orthogonally equivalent to the m×m matrix with first column
// z=(r0,z₁,…) and diagonal d=(0,d₁,…) — the diagonal-plus-rank-one
// form Deflation, the secular solver and the vector construction
// (spec.md §4.5, §4.4, §4.6) are run against. The resulting inner
// factors are folded into u and v's block columns by dense
// multiplication, concurrently when par allows and v is wanted.
func (impl Implementation) dcMerge(lo, mid, hi int, diag, e []float64, u, v blas64.General, wantV bool, own []float64, par Parallelism, eps, tau float64) {
	m := hi - lo
	k := mid - lo
	alpha, beta := diag[mid], e[mid]

	lambda := u.Data[mid*u.Stride+mid]
	phi := u.Data[(mid+1)*u.Stride+hi]

	d, z := own[:m], own[m:2*m]
	d[0] = 0
	for p := 1; p <= k; p++ {
		d[p] = diag[lo+p-1]
		z[p] = alpha * u.Data[mid*u.Stride+lo+p-1]
	}
	for p := k + 1; p < m; p++ {
		d[p] = diag[mid+p-k]
		z[p] = beta * u.Data[(mid+1)*u.Stride+mid+p-k]
	}

	// Empty the extra row: the two rows of the merge frame that carry
	// only a z-component (the children's extra columns mid and hi)
	// collapse into one, leaving r0 as the surviving leading weight.
	rot0, r0 := makeGivens(impl, alpha*lambda, beta*phi)
	z[0] = r0
	rot0.ApplyRight(u.Data[lo*u.Stride+mid:], u.Data[lo*u.Stride+hi:], m+1, u.Stride)

	// Column mid of the block is untouched by either child, so its
	// right-factor basis vector is materialized here.
	if wantV {
		v.Data[mid*v.Stride+mid] = 1
	}

	// gcol maps an index of the merge frame to the u/v column holding
	// its singular vector: 0 is the collapsed middle column, 1..k the
	// left child's columns, and the rest the right child's.
	gcol := func(p int) int {
		switch {
		case p == 0:
			return mid
		case p <= k:
			return lo + p - 1
		default:
			return mid + p - k
		}
	}

	var maxd, maxz float64
	for i := 0; i < m; i++ {
		if a := math.Abs(d[i]); a > maxd {
			maxd = a
		}
		if a := math.Abs(z[i]); a > maxz {
			maxz = a
		}
	}
	tol := 8 * eps * math.Max(maxd, maxz)
	if tol < tau {
		tol = tau
	}
	// The leading weight is floored rather than ever deflated: with
	// z[0] pinned away from zero the secular problem stays well-posed
	// no matter how degenerate the coupling is (spec.md §4.5 step 4.1).
	if math.Abs(z[0]) < tol {
		z[0] = math.Copysign(tol, z[0])
	}

	def := impl.Dlasd2(m, d, z, tol)

	// Fold deflation's collapse rotations into the actual factor
	// columns before they are read for the active-part reconstruction.
	// A rotation against the leading index only touches the left
	// factor; a rotation between two interior near-equal poles touches
	// both (spec.md §4.5's two deferred-rotation kinds).
	for i, pair := range def.RotPairs {
		rot := def.Rotations[i]
		c0, c1 := gcol(pair[0]), gcol(pair[1])
		rot.ApplyRight(u.Data[lo*u.Stride+c0:], u.Data[lo*u.Stride+c1:], m+1, u.Stride)
		if wantV && pair[0] != 0 {
			rot.ApplyRight(v.Data[lo*v.Stride+c0:], v.Data[lo*v.Stride+c1:], m, v.Stride)
		}
	}

	K := def.K
	sigmas := make([]float64, K)
	deltas := make([][]float64, K)
	for j := 0; j < K; j++ {
		deltas[j] = make([]float64, K)
		sigmas[j], _ = impl.Dlasd4(K, j, def.D[:K], def.Z, 1, eps, deltas[j])
	}
	zhat := impl.Dlasd3(K, def.D[:K], def.Z, sigmas, deltas)

	// Inner factor coefficients, one column per secular root: the
	// left vector is zhat_i/(d_i²−σ²), the right d_i·zhat_i/(d_i²−σ²)
	// with the leading slot pinned at −1, both normalized (spec.md
	// §4.6). The difference d_i−σ comes from the solver's delta output
	// rather than a fresh subtraction.
	uCoef := make([]float64, K*K)
	vCoef := make([]float64, K*K)
	ucol := make([]float64, K)
	vcol := make([]float64, K)
	for j := 0; j < K; j++ {
		if zhat[j] == 0 {
			for i := 0; i < K; i++ {
				ucol[i], vcol[i] = 0, 0
			}
			ucol[j], vcol[j] = 1, 1
		} else {
			for i := 0; i < K; i++ {
				ucol[i] = zhat[i] / (deltas[j][i] * (def.D[i] + sigmas[j]))
				vcol[i] = def.D[i] * ucol[i]
			}
			vcol[0] = -1
			normalizeVec(ucol)
			normalizeVec(vcol)
		}
		for i := 0; i < K; i++ {
			uCoef[i*K+j] = ucol[i]
			vCoef[i*K+j] = vcol[i]
		}
	}

	activeCols := make([]int, K)
	for i := 0; i < K; i++ {
		activeCols[i] = gcol(def.Perm[i])
	}
	tailCols := make([]int, m-K)
	for i := K; i < m; i++ {
		tailCols[i-K] = gcol(def.Perm[i])
	}

	updateU := func() {
		tail := gatherCols(u, lo, m+1, tailCols)
		gathered := gatherCols(u, lo, m+1, activeCols)
		mixed := blas64.General{Rows: m + 1, Cols: K, Stride: K, Data: make([]float64, (m+1)*K)}
		blas64.Gemm(blas64.NoTrans, blas64.NoTrans, 1, gathered, blas64.General{Rows: K, Cols: K, Stride: K, Data: uCoef}, 0, mixed)
		placeCols(u, lo, lo, mixed)
		placeCols(u, lo, lo+K, tail)
	}
	updateV := func() {
		tail := gatherCols(v, lo, m, tailCols)
		gathered := gatherCols(v, lo, m, activeCols)
		mixed := blas64.General{Rows: m, Cols: K, Stride: K, Data: make([]float64, m*K)}
		blas64.Gemm(blas64.NoTrans, blas64.NoTrans, 1, gathered, blas64.General{Rows: K, Cols: K, Stride: K, Data: vCoef}, 0, mixed)
		placeCols(v, lo, lo, mixed)
		placeCols(v, lo, lo+K, tail)
	}
	if wantV {
		join(par, updateV, updateU)
	} else {
		updateU()
	}

	for i := 0; i < K; i++ {
		diag[lo+i] = sigmas[i]
	}
	for i := K; i < m; i++ {
		diag[lo+i] = def.D[i]
	}
	e[mid] = 0
}

func normalizeVec(x []float64) {
	var s float64
	for _, xi := range x {
		s += xi * xi
	}
	s = math.Sqrt(s)
	if s == 0 {
		return
	}
	for i := range x {
		x[i] /= s
	}
}

// gatherCols collects the nrows×len(cols) sub-matrix formed by the
// given columns of a, over rows [row0,row0+nrows), into a freshly
// allocated, densely-packed General.
func gatherCols(a blas64.General, row0, nrows int, cols []int) blas64.General {
	stride := len(cols)
	if stride == 0 {
		stride = 1
	}
	g := blas64.General{Rows: nrows, Cols: len(cols), Stride: stride, Data: make([]float64, nrows*stride)}
	for j, c := range cols {
		blas64.Copy(nrows,
			blas64.Vector{Inc: a.Stride, Data: a.Data[row0*a.Stride+c:]},
			blas64.Vector{Inc: g.Stride, Data: g.Data[j:]})
	}
	return g
}

// placeCols writes src's columns into a starting at (row0, col0).
func placeCols(a blas64.General, row0, col0 int, src blas64.General) {
	for i := 0; i < src.Rows; i++ {
		for j := 0; j < src.Cols; j++ {
			a.Data[(row0+i)*a.Stride+col0+j] = src.Data[i*src.Stride+j]
		}
	}
}

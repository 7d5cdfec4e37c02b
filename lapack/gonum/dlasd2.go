// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import (
	"math"
	"sort"
)

// Deflation is the output of Dlasd2: the reduced secular-equation
// problem DivideAndConquer's merge step actually has to solve, plus
// enough bookkeeping to fold the result back into the merged U/V's
// original column numbering.
//
// D and Perm both have length n: the first K entries of D are the
// active, ascending poles the secular equation still needs to be
// solved against (Z holds the K matching rank-one-update weights);
// the remaining n-K are already-final singular values that need no
// further root-finding. Perm[i] names which index of the caller's
// merge frame contributed D[i].
//
// Rotations and RotPairs record the collapse rotations in the order
// they were generated; a pair whose first index is 0 acted against
// the leading zero pole and belongs only on the left factor, every
// other pair belongs on both factors (spec.md §4.5's jacobi_0i /
// jacobi_ij split).
type Deflation struct {
	K         int
	D         []float64
	Z         []float64
	Perm      []int
	Rotations []PlaneRotation
	RotPairs  [][2]int
}

// Dlasd2 deflates the rank-one-updated problem diag(d)²+z·zᵀ
// (spec.md §4.5). d[0] must be the merge frame's leading zero pole;
// it is pinned in place and never deflated (the caller floors z[0]
// away from zero beforehand). Two kinds of interior entries need no
// secular-equation root at all:
//
//   - an entry whose z-component is already within tol of zero
//     contributes nothing to the update, so its singular value is
//     already d[i] and its vector needs no change (the "prune" step);
//   - an entry whose pole is within tol of a surviving pole can be
//     rotated into it so that its own z-component becomes exactly
//     zero by construction, and is then prunable the same way (the
//     "Jacobi collapse" step). Scanning the sorted poles against the
//     last survivor lets a run of clustered poles collapse into a
//     single representative, including a cluster hugging zero, which
//     collapses into the pinned leading index.
//
// Dlasd2 only ever touches the compact (d,z) arrays; it returns the
// rotations rather than applying them, since applying a rotation to
// the actual singular vectors is the caller's job once it knows which
// columns of its merged U/V those indices correspond to.
func (impl Implementation) Dlasd2(n int, d, z []float64, tol float64) Deflation {
	switch {
	case n < 1:
		panic(nLT0)
	case len(d) < n:
		panic(shortD)
	case len(z) < n:
		panic(shortZ)
	}
	type entry struct {
		d, z float64
		col  int
	}
	rest := make([]entry, 0, n-1)
	for i := 1; i < n; i++ {
		rest = append(rest, entry{d: d[i], z: z[i], col: i})
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].d < rest[j].d })

	var def Deflation
	tailD := make([]float64, 0, n)
	tailPerm := make([]int, 0, n)
	active := make([]entry, 1, n)
	active[0] = entry{d: d[0], z: z[0], col: 0}
	for _, e := range rest {
		if math.Abs(e.z) <= tol {
			tailD = append(tailD, e.d)
			tailPerm = append(tailPerm, e.col)
			continue
		}
		active = append(active, e)
	}

	surv := active[:1]
	for j := 1; j < len(active); j++ {
		last := &surv[len(surv)-1]
		if active[j].d-last.d <= tol {
			rot, r := makeGivens(impl, last.z, active[j].z)
			def.Rotations = append(def.Rotations, rot)
			def.RotPairs = append(def.RotPairs, [2]int{last.col, active[j].col})
			// makeGivens sends (z_last,z_j) to (r,0): the survivor
			// absorbs the pair's combined weight and active[j] is left
			// with nothing to contribute to the secular equation.
			last.z = r
			tailD = append(tailD, active[j].d)
			tailPerm = append(tailPerm, active[j].col)
			continue
		}
		surv = append(surv, active[j])
	}

	def.K = len(surv)
	def.D = make([]float64, 0, n)
	def.Z = make([]float64, 0, def.K)
	def.Perm = make([]int, 0, n)
	for _, e := range surv {
		def.D = append(def.D, e.d)
		def.Z = append(def.Z, e.z)
		def.Perm = append(def.Perm, e.col)
	}
	def.D = append(def.D, tailD...)
	def.Perm = append(def.Perm, tailPerm...)

	return def
}

// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import (
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDlasd2(t *testing.T) {
	impl := Implementation{}

	// Beyond the pinned leading zero pole, the input has one prunable
	// entry (index 2, near-zero z), one near-equal pair (indices 3,4,
	// Jacobi-collapsible into each other) and one near-zero pole
	// (index 5, collapsible into the leading index).
	d := []float64{0, 3, 1, 2, 2 + 1e-14, 1e-15, 5}
	z := []float64{0.9, 0.5, 1e-16, 0.7, 0.3, 0.2, 0.4}
	const tol = 1e-9

	def := impl.Dlasd2(len(d), d, z, tol)

	if len(def.D) != len(d) || len(def.Perm) != len(d) {
		t.Fatalf("Dlasd2: D/Perm length mismatch, got %d/%d want %d", len(def.D), len(def.Perm), len(d))
	}
	if def.K < 1 || def.K > len(d) {
		t.Fatalf("Dlasd2: K=%d out of range", def.K)
	}
	if len(def.Z) != def.K {
		t.Fatalf("Dlasd2: Z length %d != K %d", len(def.Z), def.K)
	}

	// The leading zero pole is pinned: never deflated, never moved.
	if def.Perm[0] != 0 || def.D[0] != 0 {
		t.Fatalf("Dlasd2: leading index not pinned, Perm[0]=%d D[0]=%v", def.Perm[0], def.D[0])
	}

	// def.Perm must be a permutation of 0..len(d)-1: sorting a copy of
	// it must reproduce the identity sequence exactly.
	gotPerm := append([]int(nil), def.Perm...)
	sort.Ints(gotPerm)
	wantPerm := make([]int, len(d))
	for i := range wantPerm {
		wantPerm[i] = i
	}
	if diff := cmp.Diff(wantPerm, gotPerm); diff != "" {
		t.Fatalf("Dlasd2: Perm is not a permutation of 0..%d (-want +got):\n%s", len(d)-1, diff)
	}

	// The active (first K) poles must be sorted ascending with gaps
	// above tol, and each active z-weight must be above tol.
	for i := 0; i < def.K; i++ {
		if math.Abs(def.Z[i]) <= tol {
			t.Errorf("Dlasd2: active entry %d has |z|=%v <= tol", i, def.Z[i])
		}
		if i > 0 && def.D[i]-def.D[i-1] <= tol {
			t.Errorf("Dlasd2: active poles %d,%d closer than tol: %v %v", i-1, i, def.D[i-1], def.D[i])
		}
	}

	if len(def.RotPairs) != len(def.Rotations) {
		t.Fatalf("Dlasd2: %d RotPairs but %d Rotations", len(def.RotPairs), len(def.Rotations))
	}
	// Index 5's pole hugs zero, so one recorded pair must act against
	// the pinned leading index (the left-factor-only kind); the 3,4
	// cluster must produce an interior pair.
	var sawLeading, sawInterior bool
	for i, pair := range def.RotPairs {
		rot := def.Rotations[i]
		if d := math.Abs(rot.C*rot.C + rot.S*rot.S - 1); d > 1e-9 {
			t.Errorf("Dlasd2: collapse rotation not unit norm: c=%v s=%v", rot.C, rot.S)
		}
		if pair[0] == 0 {
			sawLeading = true
		} else {
			sawInterior = true
		}
	}
	if !sawLeading {
		t.Error("Dlasd2: no collapse against the leading zero pole recorded")
	}
	if !sawInterior {
		t.Error("Dlasd2: no interior collapse recorded")
	}

	// The collapses conserve the total squared z-weight of the entries
	// they merged.
	var zin, zout float64
	for _, zi := range z {
		zin += zi * zi
	}
	for _, zi := range def.Z {
		zout += zi * zi
	}
	zin -= 1e-16 * 1e-16 // the pruned entry's weight is discarded, not merged
	if math.Abs(zin-zout) > 1e-12*zin {
		t.Errorf("Dlasd2: squared z-weight not conserved by collapses: in %v out %v", zin, zout)
	}
}

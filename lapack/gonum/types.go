// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import "sync"

// Implementation holds the bidiagonal SVD routines. It carries no
// state; the zero value is ready to use. A single receiver type
// (rather than free functions) mirrors every other routine in
// lapack/gonum and leaves room for a second, alternate backend
// (vendor LAPACK, SIMD-dispatched) to satisfy the same method set
// later without changing call sites.
type Implementation struct{}

// Parallelism bounds how many of the recursive DC-SVD subproblems and
// block updates may run concurrently. It generalizes spec.md §5's
// informal "mode ∈ {sequential, parallel}" into a worker budget that
// is halved across each join, the way faer-rs's Parallelism value is
// threaded through its own recursive calls (see SPEC_FULL.md §4).
type Parallelism struct {
	workers int
}

// NoParallelism runs the recursion and the merge's factor updates on
// the calling goroutine. The GEMM inside each factor update goes
// through blas64, whose Native Dgemm splits large products across
// goroutines on its own, whatever the Parallelism value.
var NoParallelism = Parallelism{workers: 1}

// Parallel allows up to n goroutines (including the caller's) to be
// active across the whole call.
func Parallel(n int) Parallelism {
	if n < 1 {
		n = 1
	}
	return Parallelism{workers: n}
}

func (p Parallelism) allowed() bool { return p.workers > 1 }

// split returns the two parallelism budgets to hand to the children
// of a join: the left gets half the workers, rounded down (at least
// one), and the right gets the rest.
func (p Parallelism) split() (left, right Parallelism) {
	if !p.allowed() {
		return NoParallelism, NoParallelism
	}
	half := p.workers / 2
	if half < 1 {
		half = 1
	}
	return Parallelism{workers: half}, Parallelism{workers: p.workers - half}
}

// join runs taskA and taskB to completion, concurrently when par
// allows it and sequentially otherwise. It is the fork point for the
// two DC recursion halves and for the V/U block updates of the merge;
// the block update's own GEMM is split by blas64's Native Dgemm, which
// does not go through join.
func join(par Parallelism, taskA, taskB func()) {
	if !par.allowed() {
		taskA()
		taskB()
		return
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		taskA()
	}()
	taskB()
	wg.Wait()
}

// ScratchArena is a caller-provided buffer from which every recursive
// call draws disjoint typed slices: each merge level takes its d and z
// vectors from it. The other temporaries of the merge and of the leaf
// solves (root and delta arrays, inner factors, gathered columns) are
// ordinary heap allocations, not arena slices. It mirrors faer-rs's
// DynStack/GlobalMemBuffer split-arena pattern (see SPEC_FULL.md §4
// and DESIGN.md): split() carves the remaining buffer into two
// disjoint pieces, one per child, so neither child can observe the
// other's scratch.
type ScratchArena struct {
	buf []float64
}

// NewScratchArena wraps buf as a scratch arena. len(buf) must be at
// least the value BidiagRealSVDScratchSize returns for the intended
// problem.
func NewScratchArena(buf []float64) ScratchArena { return ScratchArena{buf: buf} }

// alloc carves off and returns the next n float64s. It panics if the
// arena is exhausted, which indicates the caller under-sized the
// buffer relative to what BidiagRealSVDScratchSize reported.
func (a *ScratchArena) alloc(n int) []float64 {
	if n > len(a.buf) {
		panic(shortWork)
	}
	s := a.buf[:n:n]
	a.buf = a.buf[n:]
	return s
}

// split divides the remaining arena into two disjoint halves of sizes
// nLeft and nRight, for handing to the two sides of a DC recursion
// join before either child runs.
func (a *ScratchArena) split(nLeft, nRight int) (left, right ScratchArena) {
	if nLeft+nRight > len(a.buf) {
		panic(shortWork)
	}
	return ScratchArena{buf: a.buf[:nLeft:nLeft]}, ScratchArena{buf: a.buf[nLeft : nLeft+nRight : nLeft+nRight]}
}

// JacobiSkip selects which column of V JacobiSVD must leave untouched,
// so the caller can fill it in with the sign-flipped vector coming out
// of a DC merge (spec.md §4.2).
type JacobiSkip int

const (
	JacobiSkipNone JacobiSkip = iota
	JacobiSkipFirst
	JacobiSkipLast
)

// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

// Machine constants, set once at init: dlamchE by halving until 1+eps/2
// rounds to 1 (giving 2⁻⁵²), dlamchS as the smallest positive normal
// float64, written as a literal.
var (
	dlamchE = epsilon()
	dlamchS = tinyNormal()
)

// Epsilon returns the machine epsilon this package's routines use as
// their default convergence tolerance, for callers (such as lapack64)
// that need to drive a routine directly rather than through EntryPoint.
func Epsilon() float64 { return dlamchE }

// SafeMin returns the smallest positive normalized float64 this
// package's routines use as their default near-zero guard.
func SafeMin() float64 { return dlamchS }

func epsilon() float64 {
	var eps float64 = 1
	for 1+eps/2 != 1 {
		eps /= 2
	}
	return eps
}

func tinyNormal() float64 {
	// Smallest positive normalized float64.
	return 2.2250738585072014e-308
}

const (
	nLT0        = "lapack: n < 0"
	nhLT0       = "lapack: number of columns in U/V < 0"
	badLdA      = "lapack: index of a out of range"
	shortD      = "lapack: diag slice shorter than n"
	shortE      = "lapack: subdiag slice shorter than n"
	shortU      = "lapack: u slice too short for n"
	shortV      = "lapack: v slice too short for n"
	shortWork   = "lapack: work slice too short"
	shortZ      = "lapack: z slice shorter than n"
	badEpsilon  = "lapack: epsilon <= 0"
	badNearZero = "lapack: near-zero tolerance < 0"
	badSkip     = "lapack: invalid jacobi skip mode"
	badThresh   = "lapack: jacobi threshold < 2"
	badShift    = "lapack: root index k out of [0,n)"

	// errSizeOverflow is the message of the error
	// BidiagRealSVDScratchSize returns when the required scratch length
	// overflows an int; it is the one condition spec.md §7 asks to be
	// reported rather than asserted away, so it is an error return, not
	// a panic.
	errSizeOverflow = "lapack: scratch size overflows int"
)

// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lapack holds the small set of enumerated types shared by
// the lapack/gonum bidiagonal SVD routines, mirroring how the
// upstream lapack package separates these from the routines
// themselves so more than one implementation package could reuse them.
package lapack

// Sort specifies the order in which Dlasrt and the final descending
// pass of the solver should arrange a list of values.
type Sort bool

const (
	SortIncreasing Sort = false
	SortDecreasing Sort = true
)

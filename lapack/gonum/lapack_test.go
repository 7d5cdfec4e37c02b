// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum_test

import (
	"testing"

	"github.com/gonum-extras/bidiagsvd/lapack/gonum"
	"github.com/gonum-extras/bidiagsvd/lapack/testlapack"
)

func TestDlasd0(t *testing.T) {
	testlapack.Dlasd0Test(t, gonum.Implementation{})
}

func TestDbdsqr(t *testing.T) {
	testlapack.Dbdsqr1Test(t, gonum.Implementation{}, gonum.Epsilon(), gonum.SafeMin())
}

func TestDjacobi(t *testing.T) {
	testlapack.DjacobiTest(t, gonum.Implementation{})
}

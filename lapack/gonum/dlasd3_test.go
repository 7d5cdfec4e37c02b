// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
)

// TestDlasd3 checks that the zhat vector SVDOfM reconstructs satisfies
// the same secular equation the original z and the roots Dlasd4 found
// do — that is the defining property of zhat (spec.md §4.6): it is not
// a copy of z, but it must produce the same roots when plugged back
// into the secular equation.
func TestDlasd3(t *testing.T) {
	impl := Implementation{}
	rnd := rand.New(rand.NewSource(13))
	for _, k := range []int{1, 2, 4, 8} {
		d := make([]float64, k)
		d[0] = 1
		for i := 1; i < k; i++ {
			d[i] = d[i-1] + 1 + rnd.Float64()
		}
		z := make([]float64, k)
		for i := range z {
			z[i] = 0.1 + rnd.Float64()
			if rnd.Intn(2) == 0 {
				z[i] = -z[i]
			}
		}
		const rho = 1.0
		sigmas := make([]float64, k)
		deltas := make([][]float64, k)
		for j := 0; j < k; j++ {
			deltas[j] = make([]float64, k)
			sigmas[j], _ = impl.Dlasd4(k, j, d, z, rho, dlamchE, deltas[j])
		}
		zhat := impl.Dlasd3(k, d, z, sigmas, deltas)

		for i, zi := range z {
			if math.Signbit(zi) != math.Signbit(zhat[i]) && zhat[i] != 0 {
				t.Errorf("k=%d: zhat[%d]=%v has different sign than z[%d]=%v", k, i, zhat[i], i, zi)
			}
		}
		for j := 0; j < k; j++ {
			f, _ := secularEquation(k, d, zhat, rho, sigmas[j])
			if math.Abs(f) > 1e-3 {
				t.Errorf("k=%d,j=%d: secular residual with zhat %v at sigma=%v", k, j, f, sigmas[j])
			}
		}
	}
}

// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import "math"

// Dlasd3 is the zhat step of SVDOfM (spec.md §4.6): given the k roots
// sigma of the deflated secular equation and the per-root delta arrays
// Dlasd4 produced (delta[j][i] = d[i]-sigma[j]), it reconstructs the
// rank-one-update vector the singular vectors are actually built from,
// rather than reusing the original z.
//
// The formula is the interlacing-theorem identity
//
//	zhat[i]² = (sigma[k-1]²-d[i]²) · Π_{j<i} (sigma[j]²-d[i]²)/(d[j]²-d[i]²)
//	                               · Π_{j>i} (sigma[j-1]²-d[i]²)/(d[j]²-d[i]²)
//
// with sign(zhat[i]) = sign(z[i]). Both sides are non-negative by the
// interlacing of sigma with d, and the expression stays accurate even
// once a sigma sits extremely close to some d[i] — unlike evaluating
// the secular residual there, which cancels to noise in exactly that
// regime. The products are accumulated ratio-by-ratio (each pole j
// paired with the root sharing its interval) so every factor is O(1)
// and the running product cannot overflow or underflow no matter how
// large k grows; each squared difference is computed in factored form,
// with sigma[j]-d[i] taken from delta rather than re-subtracted.
func (impl Implementation) Dlasd3(k int, d, z []float64, sigma []float64, delta [][]float64) []float64 {
	switch {
	case k < 0:
		panic(nLT0)
	case len(d) < k, len(z) < k, len(sigma) < k, len(delta) < k:
		panic(shortZ)
	}
	zhat := make([]float64, k)
	for i := 0; i < k; i++ {
		// sigma[j]²-d[i]² in factored form via delta.
		rootFactor := func(j int) float64 {
			return -delta[j][i] * (sigma[j] + d[i])
		}
		prod := rootFactor(k - 1)
		singular := false
		for j := 0; j < k; j++ {
			if j == i {
				continue
			}
			poleDiff := (d[j] - d[i]) * (d[j] + d[i])
			if poleDiff == 0 {
				singular = true
				break
			}
			jj := j
			if j > i {
				jj = j - 1
			}
			prod *= rootFactor(jj) / poleDiff
		}
		if singular || prod < 0 {
			zhat[i] = 0
			continue
		}
		zhat[i] = math.Copysign(math.Sqrt(prod), z[i])
	}
	return zhat
}

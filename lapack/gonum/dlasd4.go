// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gonum

import "math"

// maxSecularIter bounds the root-finding loop below; the bracket
// shrinks on every iteration regardless of how the rational step
// behaves, so this is a generous ceiling on top of a method that
// always converges.
const maxSecularIter = 400

// secularEquation evaluates, at a point sigma strictly inside one of
// the n+1 intervals the poles d[0]<...<d[n-1] cut the positive real
// line into, the secular function spec.md §4.4 roots are defined by
//
//	f(sigma) = 1 + rho * Σ_i z[i]² / (d[i]² - sigma²)
//
// together with its derivative. f is strictly increasing in sigma on
// every such interval (away from the poles), which is what makes the
// bracketed solve in Dlasd4 unconditionally convergent.
func secularEquation(n int, d, z []float64, rho, sigma float64) (f, df float64) {
	f = 1
	for i := 0; i < n; i++ {
		denom := (d[i] - sigma) * (d[i] + sigma)
		t := z[i] * z[i] / denom
		f += rho * t
		df += rho * t * 2 * sigma / denom
	}
	return f, df
}

// secularShifted evaluates the same function at sigma = shift+mu
// without ever forming sigma: dshift[i] holds the exact double
// difference d[i]-shift, so the pole-adjacent factor (dshift[i]-mu)
// stays fully accurate even when mu is many orders of magnitude below
// shift. The second return is the absolute-term sum used as the
// convergence scale (a residual below eps times it is noise).
func secularShifted(n int, dshift, d, z []float64, rho, shift, mu float64) (f, scale float64) {
	f = 1
	scale = 1
	for i := 0; i < n; i++ {
		t := rho * z[i] * z[i] / ((dshift[i] - mu) * (d[i] + shift + mu))
		f += t
		scale += math.Abs(t)
	}
	return f, scale
}

// Dlasd4 is SecularSolver (spec.md §4.4): it finds the root of the
// secular equation that lies in (d[k],d[k+1]) — or, for k==n-1, the
// root beyond d[n-1] — and returns it as sigma, along with
// delta[i]=d[i]-sigma for every i.
//
// Internally the root is represented as shift+μ (spec.md §4.4's
// shifted frame), with shift the bracket pole the root is closer to,
// decided by the sign of f at the bracket midpoint. This is not an
// accuracy nicety but load-bearing: an active weight near the
// deflation floor puts the root within ~z[k]² of its pole, far below
// the spacing of doubles around the pole itself, so only the offset μ
// can represent it — and only the exact differences d[i]-shift keep
// the returned deltas (which the vector construction divides by)
// meaningful there. Each iteration tries the rational model a/μ+b
// through the last two iterates (the secular function is
// pole-dominated, so the model is nearly exact near the root) and
// falls back to a bisection step — geometric when the bracket
// excludes zero, halving toward the pole otherwise — whenever the
// rational step leaves the bracket.
//
// Dlasd4 reports ok=false if it exhausts its iteration budget or the
// bracket is degenerate; the returned sigma is still its best
// estimate in that case.
//
// eps is the convergence tolerance spec.md §6 threads through every
// layer as an explicit parameter rather than a package default, so
// that a caller computing in a non-default precision (or wanting
// looser convergence for speed) can drive the root finder directly.
func (impl Implementation) Dlasd4(n, k int, d, z []float64, rho, eps float64, delta []float64) (sigma float64, ok bool) {
	switch {
	case n < 1:
		panic(nLT0)
	case k < 0 || k >= n:
		panic(badShift)
	case len(z) < n, len(d) < n, len(delta) < n:
		panic(shortZ)
	case eps <= 0:
		panic(badEpsilon)
	}
	if n == 1 {
		sigma = math.Hypot(d[0], math.Sqrt(rho)*z[0])
		// d-sigma by its rationalized form rather than subtraction.
		delta[0] = -rho * z[0] * z[0] / (d[0] + sigma)
		return sigma, true
	}

	dk := d[k]
	last := k == n-1
	var dk1 float64
	if last {
		var znorm2 float64
		for _, zi := range z[:n] {
			znorm2 += zi * zi
		}
		dk1 = d[n-1] + math.Sqrt(rho*znorm2)
	} else {
		dk1 = d[k+1]
	}
	width := dk1 - dk
	if width <= 0 {
		sigma = dk
		for i := range d[:n] {
			delta[i] = d[i] - sigma
		}
		return sigma, false
	}

	// Probe the midpoint in the lower frame to pick the shift: f>0 at
	// the midpoint puts the root in the lower half. The last interval
	// always shifts from its (only) pole on the left.
	for i := 0; i < n; i++ {
		delta[i] = d[i] - dk
	}
	fmid, _ := secularShifted(n, delta, d, z, rho, dk, width/2)
	below := last || fmid > 0
	shift := dk
	if !below {
		shift = dk1
		for i := 0; i < n; i++ {
			delta[i] = d[i] - dk1
		}
	}

	// Bracket μ with f(a) < 0 < f(b). The endpoint at 0 is the pole,
	// never evaluated: the pole term dominates there with known sign.
	// The midpoint probe seeds both the finite endpoint and the first
	// rational-fit iterate.
	var a, b, mu1, f1 float64
	if below {
		if last && fmid <= 0 {
			a, b = width/2, width
		} else {
			a, b = 0, width/2
		}
		mu1, f1 = width/2, fmid
	} else {
		a, b = -width/2, 0
		mu1, f1 = -width/2, fmid
	}
	if f1 == 0 {
		sigma = shift + mu1
		for i := 0; i < n; i++ {
			delta[i] -= mu1
		}
		return sigma, true
	}

	var mu0, f0 float64
	have2 := false
	mu := mu1
	converged := false
	for iter := 0; iter < maxSecularIter; iter++ {
		muc := math.NaN()
		if have2 && f0 != f1 {
			afit := (f1 - f0) * mu1 * mu0 / (mu0 - mu1)
			bfit := f1 - afit/mu1
			muc = -afit / bfit
		}
		if !(muc > a && muc < b) || muc == 0 {
			switch {
			case below && a == 0:
				muc = b / 2
			case below:
				muc = math.Sqrt(a * b)
			case b == 0:
				muc = a / 2
			default:
				muc = -math.Sqrt(a * b)
			}
		}
		fc, scale := secularShifted(n, delta, d, z, rho, shift, muc)
		mu = muc
		if math.Abs(fc) <= 8*eps*scale {
			converged = true
			break
		}
		if fc < 0 {
			a = muc
		} else {
			b = muc
		}
		if b-a <= 2*eps*math.Max(math.Abs(a), math.Abs(b)) {
			converged = true
			break
		}
		mu0, f0 = mu1, f1
		mu1, f1 = muc, fc
		have2 = true
	}

	sigma = shift + mu
	for i := 0; i < n; i++ {
		delta[i] -= mu
	}
	return sigma, converged
}

// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/giecli/adjointPerm/inp"
)

// Oracle supplies residual/Jacobian closures for the discretized transport
// equation, parameterized per outer step by the bound context
type Oracle interface {
	Residual(r, s, s0 []float64, dt float64)         // r = F(s; s0, dt)
	Jacobian(J *la.Triplet, s []float64, dt float64) // J = ∂F/∂s
	JacobianSize() (n, nnz int)                      // system size and nonzero count
}

// SolverImplicit advances saturation across [0,tf] with a bounded
// Newton-Raphson method: per-iteration line search on the residual
// infinity-norm, and sub-step bisection on Newton failure up to the
// configured refinement depth
type SolverImplicit struct {

	// input
	Orc Oracle          // residual/Jacobian oracle
	Dat *inp.SolverData // tolerances and budgets

	// scratchpad
	r    []float64  // residual
	neg  []float64  // negative of residual
	cand []float64  // line-search candidate saturation
	snew []float64  // accepted saturation of current sub-step
	tri  la.Triplet // Jacobian
}

// NewSolverImplicit returns a transport solver bound to one oracle
func NewSolverImplicit(orc Oracle, dat *inp.SolverData) (o *SolverImplicit) {
	o = &SolverImplicit{Orc: orc, Dat: dat}
	n, nnz := orc.JacobianSize()
	o.r = make([]float64, n)
	o.neg = make([]float64, n)
	o.cand = make([]float64, n)
	o.snew = make([]float64, n)
	o.tri.Init(n, n, nnz)
	return
}

// Advance advances s in place over [0,tf] through internal sub-steps.
// On a fatal convergence failure the returned error is non-nil and s must
// not be trusted.
func (o *SolverImplicit) Advance(s []float64, tf float64) (err error) {

	// check
	if tf <= 0 {
		chk.Panic("advance interval must be positive: tf=%g", tf)
	}

	// time loop
	depth := o.Dat.Refinements(tf)
	t := 0.0
	dt := tf
	nhalve := 0
	for t < tf {
		if dt > tf-t {
			dt = tf - t
		}

		// attempt one sub-step
		copy(o.snew, s)
		converged := o.newton(o.snew, s, dt)

		// refine on failure
		if !converged {
			if nhalve >= depth {
				return chk.Err("convergence failure: transport step did not converge after %d sub-step halvings (refinement depth %d)", nhalve, depth)
			}
			dt *= 0.5
			nhalve++
			if o.Dat.Verbose {
				io.Pfyel(". . . transport sub-step halved to %g . . .\n", dt)
			}
			continue
		}

		// accept
		copy(s, o.snew)
		t += dt
	}

	// bound assertion (physical inconsistency, not convergence)
	for c, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return chk.Err("physical inconsistency: saturation of cell %d is not finite after transport solve", c)
		}
		if v < -1e-12 || v > 1.0+1e-12 {
			return chk.Err("physical inconsistency: saturation %g of cell %d is out of [0,1]", v, c)
		}
	}
	return
}

// newton runs bounded Newton-Raphson iterations for one sub-step, updating
// s in place. A false return means the iteration or line-search budget was
// exhausted without convergence.
func (o *SolverImplicit) newton(s, s0 []float64, dt float64) (converged bool) {

	// initial residual
	o.Orc.Residual(o.r, s, s0, dt)
	res := la.VecLargest(o.r, 1)

	// iterations
	for it := 0; it < o.Dat.MaxIt; it++ {

		// converged on residual norm
		if res < o.Dat.Nltol {
			return true
		}

		// solve J·δs = -r
		o.Orc.Jacobian(&o.tri, s, dt)
		for i := range o.r {
			o.neg[i] = -o.r[i]
		}
		ds, err := LUSolve(&o.tri, o.neg, false)
		if err != nil {
			return false
		}

		// line search: candidate = clamp(s + 2^α·δs), α = 0, -1, -2, ...
		alp := 1.0
		ok := false
		for trial := 0; trial < o.Dat.Lstrials; trial++ {
			for i := range s {
				o.cand[i] = s[i] + alp*ds[i]
				if o.cand[i] < 0 {
					o.cand[i] = 0
				}
				if o.cand[i] > 1 {
					o.cand[i] = 1
				}
			}
			o.Orc.Residual(o.r, o.cand, s0, dt)
			newres := la.VecLargest(o.r, 1)
			if newres < o.Dat.Resred*res {
				copy(s, o.cand)
				res = newres
				ok = true
				break
			}
			alp *= 0.5
		}

		// exhausting the trial budget marks this iteration non-convergent
		if !ok {
			return false
		}

		// message
		if o.Dat.Verbose {
			io.Pf("%4d%23.15e\n", it, res)
		}
	}
	return res < o.Dat.Nltol
}

// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package adjoint implements the discrete adjoint (backward) sensitivity
// solver: it propagates dual states in reverse chronological order through
// the transposed transport and pressure relations of the forward run
package adjoint

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/giecli/adjointPerm/flow"
	"github.com/giecli/adjointPerm/mfluid"
	"github.com/giecli/adjointPerm/obj"
	"github.com/giecli/adjointPerm/transport"
)

// Step holds the forward data of one accepted outer step, recorded during
// the forward run and consumed backwards by the adjoint solver
type Step struct {
	T0, T1 float64            // bracketing times
	Ctx    *transport.Context // bound pressure/flux/well snapshot of the step
	S0, S1 []float64          // saturations at the bracketing time levels
}

// State holds the dual quantities of one time level. Following the forward
// solver's sign convention, the adjoint pressure and the adjoint well rates
// are emitted with negated sign relative to the raw transposed solution;
// this asymmetry is deliberate and mirrored by the gradient accumulation.
type State struct {
	LamS  []float64 // [nc] adjoint saturation multiplier
	Padj  []float64 // [nc] adjoint cell pressure (negated)
	Vadj  []float64 // [nf] adjoint face flux
	Qadj  []float64 // [nperf] adjoint perforation rate (negated)
	Qwadj []float64 // [nw] adjoint well rate (negated)
}

// Solver runs the backward pass. It emits one dual state per forward step;
// accumulating gradients across steps is the caller's responsibility.
type Solver struct {
	Fl   mfluid.Model  // fluid model (same as forward)
	Prov flow.Provider // pressure provider exposing the transposed solve
}

// Run processes the forward trajectory strictly in reverse chronological
// order. parts[k] holds the objective partials of step k (nil means all
// zero). The returned states are indexed like traj.
func (o *Solver) Run(traj []*Step, parts []*obj.Partials) (states []*State, err error) {

	// check
	ns := len(traj)
	if ns < 1 {
		chk.Panic("adjoint solver needs at least one forward step")
	}
	if len(parts) != ns {
		chk.Panic("got %d objective partial sets for %d forward steps", len(parts), ns)
	}

	// backward loop
	states = make([]*State, ns)
	var tri la.Triplet
	for k := ns - 1; k >= 0; k-- {
		stp := traj[k]
		up := transport.NewUpstream(stp.Ctx, o.Fl)
		nc := len(stp.S1)
		dt := stp.T1 - stp.T0

		// adjoint transport right-hand side: objective saturation partials,
		// the multiplier one step later, and the later pressure system's
		// mobility dependence on this step's saturation
		rhsS := make([]float64, nc)
		if parts[k] != nil {
			copy(rhsS, parts[k].Sat)
		}
		if k < ns-1 {
			nxt := states[k+1]
			for c := 0; c < nc; c++ {
				rhsS[c] += nxt.LamS[c]
			}
			mob := make([]float64, nc)
			o.Prov.MobilityPartialT(stp.S1, traj[k+1].Ctx.Flux, traj[k+1].Ctx.Qperf, nxt.Vadj, nxt.Qadj, mob)
			for c := 0; c < nc; c++ {
				rhsS[c] -= mob[c]
			}
		}

		// transposed transport solve: (∂F/∂s)ᵀ·λ = rhs
		n, nnz := up.JacobianSize()
		tri.Init(n, n, nnz)
		up.Jacobian(&tri, stp.S1, dt)
		lam, e := transport.LUSolve(&tri, rhsS, true)
		if e != nil {
			err = chk.Err("adjoint transport solve of step %d failed:\n%v", k, e)
			return
		}

		// adjoint pressure right-hand side: transposed transport operator
		// applied to λ combined with the stored flux partials; well entries
		// from the objective's well-rate partials
		rhsFace := make([]float64, len(stp.Ctx.Flux))
		rhsCell := make([]float64, nc)
		rhsPerf := make([]float64, len(stp.Ctx.Qperf))
		up.FluxPartialT(lam, stp.S1, dt, rhsFace)
		up.SourcePartialT(lam, stp.S1, dt, rhsPerf)
		for i := range rhsFace {
			rhsFace[i] = -rhsFace[i]
		}
		for i := range rhsPerf {
			rhsPerf[i] = -rhsPerf[i]
		}
		if parts[k] != nil {
			for i := range rhsFace {
				rhsFace[i] += parts[k].Flux[i]
			}
			for i := range rhsPerf {
				rhsPerf[i] += parts[k].Perf[i]
			}
			copy(rhsCell, parts[k].Pres)
		}

		// transposed pressure solve over the discretization assembled from
		// the step's initial saturation (as the forward solve was)
		vadj, padj, qadj, qwadj, e := o.Prov.SolveTranspose(stp.S0, rhsFace, rhsCell, rhsPerf)
		if e != nil {
			err = chk.Err("adjoint pressure solve of step %d failed:\n%v", k, e)
			return
		}

		states[k] = &State{LamS: lam, Padj: padj, Vadj: vadj, Qadj: qadj, Qwadj: qwadj}
	}

	// negate pressure and well-rate duals (forward-convention asymmetry);
	// this must only happen after the backward recursion consumed the raw
	// values of the later steps
	for _, st := range states {
		for i := range st.Padj {
			st.Padj[i] = -st.Padj[i]
		}
		for i := range st.Qadj {
			st.Qadj[i] = -st.Qadj[i]
		}
		for i := range st.Qwadj {
			st.Qwadj[i] = -st.Qwadj[i]
		}
	}
	return
}

// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"github.com/cpmech/gosl/la"

	"github.com/giecli/adjointPerm/mfluid"
)

// Upstream is the discrete upstream-weighted transport operator bound to one
// context. It exposes both the forward residual/Jacobian used by the Newton
// solver and the transposed partial derivatives consumed by the adjoint
// solver, so the two directions share one discretization.
type Upstream struct {
	Ctx *Context     // bound context (immutable)
	Fl  mfluid.Model // fluid model

	// scratchpad
	fw  []float64 // fractional flow per cell
	dfw []float64 // its derivative per cell
	h   []float64 // divergence of water flux
}

// NewUpstream returns the transport operator for one outer step
func NewUpstream(ctx *Context, fl mfluid.Model) (o *Upstream) {
	nc := len(ctx.Pv)
	return &Upstream{Ctx: ctx, Fl: fl, fw: make([]float64, nc), dfw: make([]float64, nc), h: make([]float64, nc)}
}

// upcell returns the upstream cell of face f under the fixed flux field
func (o *Upstream) upcell(f int) int {
	fc := o.Ctx.Faces[f]
	if o.Ctx.Flux[f] >= 0 {
		return fc.L
	}
	return fc.R
}

// Apply computes out = H(fw): the divergence of the upstream-weighted water
// flux plus well sources, for a given per-cell fractional flow. Positive
// sources inject the context composition; negative sources produce fw.
func (o *Upstream) Apply(fw, out []float64) {
	la.VecFill(out, 0)
	for f, fc := range o.Ctx.Faces {
		wf := o.Ctx.Flux[f] * fw[o.upcell(f)]
		out[fc.L] += wf
		out[fc.R] -= wf
	}
	for c := range out {
		q := o.Ctx.Qcell[c]
		if q > 0 {
			out[c] -= q * o.Ctx.Compi[c]
		} else {
			out[c] -= q * fw[c]
		}
	}
}

// ApplyTranspose computes out = Hᵀ(lam) for the linearized operator: the
// transpose of ∂H/∂s applied to a multiplier field, at saturation s
func (o *Upstream) ApplyTranspose(lam, s, out []float64) {
	la.VecFill(out, 0)
	for c := range out {
		o.dfw[c] = o.Fl.DfwDs(s[c])
	}
	for f, fc := range o.Ctx.Faces {
		u := o.upcell(f)
		out[u] += o.Ctx.Flux[f] * o.dfw[u] * (lam[fc.L] - lam[fc.R])
	}
	for c := range out {
		if q := o.Ctx.Qcell[c]; q < 0 {
			out[c] -= q * o.dfw[c] * lam[c]
		}
	}
}

// Residual computes r = s - s0 + (dt/pv)·H(fw(s))
func (o *Upstream) Residual(r, s, s0 []float64, dt float64) {
	for c := range s {
		o.fw[c] = o.Fl.Fw(s[c])
	}
	o.Apply(o.fw, o.h)
	for c := range s {
		r[c] = s[c] - s0[c] + dt/o.Ctx.Pv[c]*o.h[c]
	}
}

// Jacobian assembles J = ∂r/∂s into the triplet
func (o *Upstream) Jacobian(J *la.Triplet, s []float64, dt float64) {
	nc := len(s)
	for c := 0; c < nc; c++ {
		o.dfw[c] = o.Fl.DfwDs(s[c])
	}
	J.Start()
	for c := 0; c < nc; c++ {
		d := 1.0
		if q := o.Ctx.Qcell[c]; q < 0 {
			d -= dt / o.Ctx.Pv[c] * q * o.dfw[c]
		}
		J.Put(c, c, d)
	}
	for f, fc := range o.Ctx.Faces {
		u := o.upcell(f)
		g := o.Ctx.Flux[f] * o.dfw[u]
		J.Put(fc.L, u, dt/o.Ctx.Pv[fc.L]*g)
		J.Put(fc.R, u, -dt/o.Ctx.Pv[fc.R]*g)
	}
}

// JacobianSize returns the number of nonzeros to reserve for the Jacobian
func (o *Upstream) JacobianSize() (n, nnz int) {
	return len(o.Ctx.Pv), len(o.Ctx.Pv) + 2*len(o.Ctx.Faces)
}

// FluxPartialT computes rhs_f = (∂r/∂v)ᵀ·lam: the transpose of the residual
// flux-dependence applied to the adjoint saturation multiplier. The upstream
// orientation is frozen at the context flux field.
func (o *Upstream) FluxPartialT(lam, s []float64, dt float64, rhsFace []float64) {
	for c := range s {
		o.fw[c] = o.Fl.Fw(s[c])
	}
	for f, fc := range o.Ctx.Faces {
		fwu := o.fw[o.upcell(f)]
		rhsFace[f] += dt * fwu * (lam[fc.L]/o.Ctx.Pv[fc.L] - lam[fc.R]/o.Ctx.Pv[fc.R])
	}
}

// SourcePartialT computes rhs_q = (∂r/∂q)ᵀ·lam per perforation: injectors
// carry the injected composition, producers the produced fractional flow
func (o *Upstream) SourcePartialT(lam, s []float64, dt float64, rhsPerf []float64) {
	for i, c := range o.Ctx.PerfCell {
		var frac float64
		if o.Ctx.Qperf[i] > 0 {
			frac = o.Ctx.CompiWell[o.Ctx.PerfWell[i]]
		} else {
			frac = o.Fl.Fw(s[c])
		}
		rhsPerf[i] -= dt / o.Ctx.Pv[c] * frac * lam[c]
	}
}

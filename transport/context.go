// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package transport implements the implicit (Newton-Raphson) solver for the
// water transport equation, advancing saturation over one outer interval
// with line-search globalization and adaptive sub-step bisection
package transport

import (
	"github.com/cpmech/gosl/chk"

	"github.com/giecli/adjointPerm/flow"
	"github.com/giecli/adjointPerm/grd"
	"github.com/giecli/adjointPerm/inp"
	"github.com/giecli/adjointPerm/wel"
)

// Context is the immutable per-outer-step snapshot binding the transport
// residual/Jacobian to the fixed pressure/flux and well data of that step.
// It is built once after each pressure solve and passed by value into the
// oracle; nothing here is mutated afterwards.
type Context struct {

	// geometry
	Faces []grd.Face // internal faces (left/right adjacency)
	Pv    []float64  // [nc] pore volumes

	// fixed flow data
	Flux  []float64 // [nf] face fluxes, positive from left to right cell
	Qcell []float64 // [nc] net well source per cell
	Compi []float64 // [nc] injected water composition of positive sources

	// perforation-level data (for sensitivity partials)
	PerfCell  []int     // [nperf] perforated cell
	PerfWell  []int     // [nperf] well id
	Qperf     []float64 // [nperf] perforation rates
	CompiWell []float64 // [nw] injected composition per well
}

// NewContext builds the bound context for one outer step from the state
// produced by the pressure solve
func NewContext(g *grd.Grid, rock *inp.Rock, wells []*wel.Well, st *flow.State) (o *Context) {

	// geometry
	o = new(Context)
	o.Faces = g.Faces
	o.Pv = g.PoreVolumes(rock.Phi)

	// copy fluxes (the state is mutated between steps; the context is not)
	o.Flux = make([]float64, len(st.Flux))
	copy(o.Flux, st.Flux)

	// perforations
	pwell, pcell, _ := flow.Perfs(wells)
	o.PerfCell = pcell
	o.PerfWell = pwell
	o.Qperf = make([]float64, len(st.Qperf))
	copy(o.Qperf, st.Qperf)
	o.CompiWell = make([]float64, len(wells))
	for iw, w := range wells {
		o.CompiWell[iw] = w.Compi
	}

	// per-cell net sources and flux-weighted injected composition
	nc := g.N
	o.Qcell = make([]float64, nc)
	o.Compi = make([]float64, nc)
	qplus := make([]float64, nc)
	for i, c := range pcell {
		q := st.Qperf[i]
		o.Qcell[c] += q
		if q > 0 {
			qplus[c] += q
			o.Compi[c] += q * wells[pwell[i]].Compi
		}
	}
	for c := 0; c < nc; c++ {
		if qplus[c] > 0 {
			o.Compi[c] /= qplus[c]
		}
		if o.Pv[c] <= 0 {
			chk.Panic("pore volume of cell %d is not positive: %g", c, o.Pv[c])
		}
	}
	return
}

// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package flow implements the pressure-discretization collaborator: given
// rock, fluid and well data it assembles a linear pressure system and
// exposes forward and transposed direct solves over the same discretization
package flow

import (
	"github.com/cpmech/gosl/chk"
	"github.com/giecli/adjointPerm/wel"
)

// State holds the reservoir state mutated between outer steps: saturation,
// pressures, face fluxes and well rates
type State struct {
	Sat   []float64 // [nc] water saturation, bounded [0,1]
	Pcell []float64 // [nc] cell pressures
	Flux  []float64 // [nf] face fluxes, positive from left to right cell
	Qperf []float64 // [nperf] perforation rates, positive into the reservoir
	Qwell []float64 // [nw] total well rates
	Pbh   []float64 // [nw] bottom-hole pressures
}

// NewState allocates a state for nc cells, nf faces and the given wells
func NewState(nc, nf int, wells []*wel.Well) (o *State) {
	nperf := 0
	for _, w := range wells {
		nperf += len(w.Cells)
	}
	return &State{
		Sat:   make([]float64, nc),
		Pcell: make([]float64, nc),
		Flux:  make([]float64, nf),
		Qperf: make([]float64, nperf),
		Qwell: make([]float64, len(wells)),
		Pbh:   make([]float64, len(wells)),
	}
}

// Clone returns a deep copy of the state
func (o *State) Clone() (c *State) {
	c = &State{
		Sat:   make([]float64, len(o.Sat)),
		Pcell: make([]float64, len(o.Pcell)),
		Flux:  make([]float64, len(o.Flux)),
		Qperf: make([]float64, len(o.Qperf)),
		Qwell: make([]float64, len(o.Qwell)),
		Pbh:   make([]float64, len(o.Pbh)),
	}
	copy(c.Sat, o.Sat)
	copy(c.Pcell, o.Pcell)
	copy(c.Flux, o.Flux)
	copy(c.Qperf, o.Qperf)
	copy(c.Qwell, o.Qwell)
	copy(c.Pbh, o.Pbh)
	return
}

// Provider is the pressure-discretization/solve collaborator. The adjoint
// solver requires SolveTranspose to reuse the exact discretization of Solve
// so the transpose relationship is exact.
type Provider interface {

	// Solve assembles the pressure system from st.Sat at time t and fills
	// st.Pcell, st.Flux, st.Qperf, st.Qwell and st.Pbh
	Solve(st *State, t float64) (err error)

	// SolveTranspose solves the transposed pressure system assembled from
	// the given (forward) saturation. The right-hand side carries the
	// objective/transport partials: rhsFace pairs with the flux unknowns,
	// rhsCell with the cell pressures and rhsPerf with the perforation
	// rates. It returns the duals paired with the face-Darcy equations
	// (vadj), cell balances (padj), perforation relations (qadj) and
	// rate-well closures (qwadj).
	SolveTranspose(sat, rhsFace, rhsCell, rhsPerf []float64) (vadj, padj, qadj, qwadj []float64, err error)

	// MobilityPartialT accumulates into out the transpose of the pressure
	// system's saturation dependence (through mobilities) applied to the
	// duals: out[c] += Σ μᵀ·∂M(sat)/∂s_c·x, with x the forward solution
	// (flux, qperf) and μ the duals (vadj, qadj) of the same step
	MobilityPartialT(sat, flux, qperf, vadj, qadj, out []float64)
}

// Perfs flattens the perforations of all wells preserving well order.
//  Output:
//   pwell -- [nperf] well id of each perforation
//   pcell -- [nperf] perforated cell
//   pwi   -- [nperf] effective well index
func Perfs(wells []*wel.Well) (pwell, pcell []int, pwi []float64) {
	for iw, w := range wells {
		if len(w.WI) != len(w.Cells) {
			chk.Panic("well %q has %d well-index values for %d perforations", w.Name, len(w.WI), len(w.Cells))
		}
		for i, c := range w.Cells {
			pwell = append(pwell, iw)
			pcell = append(pcell, c)
			pwi = append(pwi, w.WI[i])
		}
	}
	return
}

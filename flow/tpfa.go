// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"

	"github.com/giecli/adjointPerm/grd"
	"github.com/giecli/adjointPerm/inp"
	"github.com/giecli/adjointPerm/mfluid"
	"github.com/giecli/adjointPerm/wel"
)

// TPFA implements Provider with a two-point flux approximation written in
// mixed form. The unknowns are face fluxes, cell pressures, perforation
// rates and the bottom-hole pressures of rate-controlled wells, so the
// transposed system yields flux, pressure and well-rate duals directly.
type TPFA struct {

	// input
	G     *grd.Grid    // grid
	Rock  *inp.Rock    // rock properties
	Fl    mfluid.Model // fluid model
	Wells []*wel.Well  // wells
	Gamma float64      // specific weight used with the well elevation offset

	// derived
	nf, nc, nperf, nrw, n int       // system partition sizes
	pwell, pcell          []int     // flattened perforations
	pwi                   []float64 // well index per perforation
	rateIdx               []int     // [nw] rate-well unknown offset or -1
	tgeo                  []float64 // [nf] geometric×harmonic-permeability factor

	// scratchpad
	tri la.Triplet // assembled coefficients
	lu  mat.LU     // dense factorization
	rhs []float64  // right-hand side
}

// NewTPFA builds the discretization object. The face transmissibility
// geometric factors (harmonic permeability included) are computed once.
func NewTPFA(g *grd.Grid, rock *inp.Rock, fl mfluid.Model, wells []*wel.Well) (o *TPFA) {
	o = &TPFA{G: g, Rock: rock, Fl: fl, Wells: wells}
	o.nf = len(g.Faces)
	o.nc = g.N
	o.pwell, o.pcell, o.pwi = Perfs(wells)
	o.nperf = len(o.pwell)
	o.rateIdx = make([]int, len(wells))
	off := o.nf + o.nc + o.nperf
	for iw, w := range wells {
		if w.RateControlled() {
			o.rateIdx[iw] = off
			off++
			o.nrw++
		} else {
			o.rateIdx[iw] = -1
		}
	}
	o.n = o.nf + o.nc + o.nperf + o.nrw
	o.rhs = make([]float64, o.n)
	o.tri.Init(o.n, o.n, 6*o.nf+5*o.nperf+1)

	// geometric transmissibility factors with harmonic permeability
	o.tgeo = make([]float64, o.nf)
	kdir := func(c, dir int) float64 {
		switch dir {
		case 0:
			return rock.Kxx(c)
		case 1:
			return rock.Kyy(c)
		}
		return rock.Kzz(c)
	}
	for f, fc := range g.Faces {
		kl := kdir(fc.L, fc.Dir)
		kr := kdir(fc.R, fc.Dir)
		if kl <= 0 || kr <= 0 {
			chk.Panic("permeability must be positive: face %d has kl=%g kr=%g", f, kl, kr)
		}
		o.tgeo[f] = fc.Geom * 2.0 * kl * kr / (kl + kr)
	}
	return
}

// assemble builds and factorizes the mixed system from the given saturation
func (o *TPFA) assemble(sat []float64) (err error) {

	// mobilities
	if len(sat) != o.nc {
		chk.Panic("saturation array length %d differs from number of cells %d", len(sat), o.nc)
	}
	lam := make([]float64, o.nc)
	for c := 0; c < o.nc; c++ {
		lam[c] = o.Fl.Mobt(sat[c])
	}

	// assemble
	o.tri.Start()
	vcol := func(f int) int { return f }
	pcol := func(c int) int { return o.nf + c }
	qcol := func(i int) int { return o.nf + o.nc + i }

	// face Darcy relations: v/(T·λ) - pL + pR = 0
	for f, fc := range o.G.Faces {
		lamf := 0.5 * (lam[fc.L] + lam[fc.R])
		o.tri.Put(f, vcol(f), 1.0/(o.tgeo[f]*lamf))
		o.tri.Put(f, pcol(fc.L), -1.0)
		o.tri.Put(f, pcol(fc.R), 1.0)
	}

	// cell balances: div(v) - Σ q = 0
	for f, fc := range o.G.Faces {
		o.tri.Put(o.nf+fc.L, vcol(f), 1.0)
		o.tri.Put(o.nf+fc.R, vcol(f), -1.0)
	}
	for i, c := range o.pcell {
		o.tri.Put(o.nf+c, qcol(i), -1.0)
	}

	// perforation relations: q/(WI·λ) + pc - pbh = γ·dref (rate wells carry
	// pbh as an unknown; bhp wells carry it on the right-hand side)
	for i, c := range o.pcell {
		row := o.nf + o.nc + i
		o.tri.Put(row, qcol(i), 1.0/(o.pwi[i]*lam[c]))
		o.tri.Put(row, pcol(c), 1.0)
		iw := o.pwell[i]
		if j := o.rateIdx[iw]; j >= 0 {
			o.tri.Put(row, j, -1.0)
		}
	}

	// rate-well closures: Σ q = Q
	for i := range o.pcell {
		iw := o.pwell[i]
		if j := o.rateIdx[iw]; j >= 0 {
			o.tri.Put(j, qcol(i), 1.0)
		}
	}

	// pin pressure when no bhp well closes the system
	if o.nrw == len(o.Wells) && o.nc > 0 {
		o.tri.Put(o.nf+0, pcol(0), 1.0)
	}

	// factorize
	dn := o.tri.ToMatrix(nil).ToDense()
	A := mat.NewDense(o.n, o.n, nil)
	for i := 0; i < o.n; i++ {
		for j := 0; j < o.n; j++ {
			A.Set(i, j, dn[i][j])
		}
	}
	o.lu.Factorize(A)
	return
}

// Solve assembles the pressure system from st.Sat at time t and fills the
// pressure, flux and well-rate fields of st
func (o *TPFA) Solve(st *State, t float64) (err error) {

	// assemble and factorize
	err = o.assemble(st.Sat)
	if err != nil {
		return
	}

	// right-hand side
	la.VecFill(o.rhs, 0)
	for i := range o.pcell {
		iw := o.pwell[i]
		w := o.Wells[iw]
		row := o.nf + o.nc + i
		o.rhs[row] = o.Gamma * w.Dref
		if !w.RateControlled() {
			o.rhs[row] += w.Target.F(t, nil)
		}
	}
	for iw, w := range o.Wells {
		if j := o.rateIdx[iw]; j >= 0 {
			o.rhs[j] = w.Target.F(t, nil)
		}
	}

	// direct solve
	var x mat.VecDense
	err = o.lu.SolveVecTo(&x, false, mat.NewVecDense(o.n, o.rhs))
	if err != nil {
		return chk.Err("pressure solve failed:\n%v", err)
	}

	// extract
	for f := 0; f < o.nf; f++ {
		st.Flux[f] = x.AtVec(f)
	}
	for c := 0; c < o.nc; c++ {
		st.Pcell[c] = x.AtVec(o.nf + c)
	}
	la.VecFill(st.Qwell, 0)
	for i := range o.pcell {
		st.Qperf[i] = x.AtVec(o.nf + o.nc + i)
		st.Qwell[o.pwell[i]] += st.Qperf[i]
	}
	for iw, w := range o.Wells {
		if j := o.rateIdx[iw]; j >= 0 {
			st.Pbh[iw] = x.AtVec(j)
		} else {
			st.Pbh[iw] = w.Target.F(t, nil)
		}
	}
	return
}

// MobilityPartialT accumulates the transposed saturation-dependence of the
// system coefficients (face and perforation inverse mobilities) applied to
// the duals. See Provider.
func (o *TPFA) MobilityPartialT(sat, flux, qperf, vadj, qadj, out []float64) {
	lam := make([]float64, o.nc)
	dlam := make([]float64, o.nc)
	for c := 0; c < o.nc; c++ {
		lam[c] = o.Fl.Mobt(sat[c])
		dlam[c] = o.Fl.DmobtDs(sat[c])
	}
	for f, fc := range o.G.Faces {
		lamf := 0.5 * (lam[fc.L] + lam[fc.R])
		g := -vadj[f] * flux[f] / (o.tgeo[f] * lamf * lamf)
		out[fc.L] += g * 0.5 * dlam[fc.L]
		out[fc.R] += g * 0.5 * dlam[fc.R]
	}
	for i, c := range o.pcell {
		out[c] -= qadj[i] * qperf[i] * dlam[c] / (o.pwi[i] * lam[c] * lam[c])
	}
}

// SolveTranspose solves the transposed system assembled from the given
// forward saturation. See Provider for the pairing of inputs and outputs.
func (o *TPFA) SolveTranspose(sat, rhsFace, rhsCell, rhsPerf []float64) (vadj, padj, qadj, qwadj []float64, err error) {
	return o.SolveLinear(sat, rhsFace, rhsCell, rhsPerf, true)
}

// SolveLinear solves the assembled operator (or its transpose) against an
// arbitrary right-hand side partitioned as faces, cells and perforations
func (o *TPFA) SolveLinear(sat, rhsFace, rhsCell, rhsPerf []float64, trans bool) (vadj, padj, qadj, qwadj []float64, err error) {

	// assemble and factorize
	err = o.assemble(sat)
	if err != nil {
		return
	}

	// right-hand side indexed by forward unknowns
	la.VecFill(o.rhs, 0)
	copy(o.rhs[:o.nf], rhsFace)
	copy(o.rhs[o.nf:o.nf+o.nc], rhsCell)
	copy(o.rhs[o.nf+o.nc:o.nf+o.nc+o.nperf], rhsPerf)

	// direct solve
	var x mat.VecDense
	err = o.lu.SolveVecTo(&x, trans, mat.NewVecDense(o.n, o.rhs))
	if err != nil {
		err = chk.Err("pressure solve failed:\n%v", err)
		return
	}

	// duals indexed by forward equations
	vadj = make([]float64, o.nf)
	padj = make([]float64, o.nc)
	qadj = make([]float64, o.nperf)
	qwadj = make([]float64, len(o.Wells))
	for f := 0; f < o.nf; f++ {
		vadj[f] = x.AtVec(f)
	}
	for c := 0; c < o.nc; c++ {
		padj[c] = x.AtVec(o.nf + c)
	}
	for i := range o.pcell {
		qadj[i] = x.AtVec(o.nf + o.nc + i)
	}
	for iw := range o.Wells {
		if j := o.rateIdx[iw]; j >= 0 {
			qwadj[iw] = x.AtVec(j)
		}
	}
	return
}

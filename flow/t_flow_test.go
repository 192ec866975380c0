// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"

	"github.com/giecli/adjointPerm/grd"
	"github.com/giecli/adjointPerm/inp"
	"github.com/giecli/adjointPerm/mfluid"
	"github.com/giecli/adjointPerm/wel"
)

// chain builds a homogeneous 1D model with an injector in the first cell and
// a producer in the last one
func chain(nc int, prdCtrl string, prdTarget float64) (g *grd.Grid, rock *inp.Rock, fl mfluid.Model, wells []*wel.Well) {
	g = grd.NewCartesian(nc, 1, 1, 1.0, 1.0, 1.0)
	phi := make([]float64, nc)
	perm := make([][]float64, nc)
	for c := 0; c < nc; c++ {
		phi[c] = 0.2
		perm[c] = []float64{1.0}
	}
	rock = inp.NewRock(phi, perm)
	fl, err := mfluid.New("cor")
	if err != nil {
		chk.Panic("cannot allocate fluid model: %v", err)
	}
	err = fl.Init(fun.Prms{
		&fun.Prm{N: "muw", V: 1},
		&fun.Prm{N: "muo", V: 1},
	})
	if err != nil {
		chk.Panic("cannot initialize fluid model: %v", err)
	}
	for _, wd := range []*inp.WellData{
		{Name: "inj", Ctrl: "rate", Target: 1.0, Cells: []int{0}, Radius: 0.1, Dir: "z", Sign: 1, Compi: 1, IpKind: "tpf"},
		{Name: "prd", Ctrl: prdCtrl, Target: prdTarget, Cells: []int{nc - 1}, Radius: 0.1, Dir: "z", Sign: -1, IpKind: "tpf"},
	} {
		w, err := wel.NewWell(g, rock, wd)
		if err != nil {
			chk.Panic("cannot build well: %v", err)
		}
		wells = append(wells, w)
	}
	return
}

func Test_tpfa01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tpfa01. rate/rate chain: unit flux and closure")

	g, rock, fl, wells := chain(4, "rate", -1.0)
	prov := NewTPFA(g, rock, fl, wells)
	st := NewState(g.N, len(g.Faces), wells)
	for c := 0; c < g.N; c++ {
		st.Sat[c] = 0.3
	}
	err := prov.Solve(st, 0)
	if err != nil {
		tst.Errorf("Solve failed: %v\n", err)
		return
	}
	io.Pforan("flux  = %v\n", st.Flux)
	io.Pforan("pcell = %v\n", st.Pcell)
	io.Pforan("qwell = %v\n", st.Qwell)

	// all of the injected volume crosses every face of the chain
	chk.Vector(tst, "flux ", 1e-12, st.Flux, []float64{1, 1, 1})
	chk.Vector(tst, "qperf", 1e-12, st.Qperf, []float64{1, -1})
	chk.Vector(tst, "qwell", 1e-12, st.Qwell, []float64{1, -1})

	// pinned pressure and monotone decay towards the producer
	chk.Scalar(tst, "p0", 1e-12, st.Pcell[0], 0)
	for c := 1; c < g.N; c++ {
		if st.Pcell[c] >= st.Pcell[c-1] {
			tst.Errorf("pressure must decrease along the chain")
			return
		}
	}

	// bottom-hole pressures straddle the cell pressures
	lam := fl.Mobt(0.3)
	chk.Scalar(tst, "pbh inj", 1e-12, st.Pbh[0], st.Pcell[0]+1.0/(wells[0].WI[0]*lam))
	chk.Scalar(tst, "pbh prd", 1e-12, st.Pbh[1], st.Pcell[3]-1.0/(wells[1].WI[0]*lam))
}

func Test_tpfa02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tpfa02. rate/bhp chain: producer rate from balance")

	pbh := -5.0
	g, rock, fl, wells := chain(4, "bhp", pbh)
	prov := NewTPFA(g, rock, fl, wells)
	st := NewState(g.N, len(g.Faces), wells)
	for c := 0; c < g.N; c++ {
		st.Sat[c] = 0.3
	}
	err := prov.Solve(st, 0)
	if err != nil {
		tst.Errorf("Solve failed: %v\n", err)
		return
	}
	io.Pforan("qwell = %v\n", st.Qwell)
	io.Pforan("pbh   = %v\n", st.Pbh)

	// incompressibility forces the producer to take the injected volume
	chk.Scalar(tst, "qwell prd", 1e-12, st.Qwell[1], -1.0)
	chk.Scalar(tst, "pbh   prd", 1e-15, st.Pbh[1], pbh)

	// perforation relation of the bhp producer
	lam := fl.Mobt(0.3)
	chk.Scalar(tst, "p3", 1e-12, st.Pcell[3], pbh+1.0/(wells[1].WI[0]*lam))
}

func Test_tpfa03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tpfa03. transpose duality of the direct solves")

	g, rock, fl, wells := chain(5, "rate", -1.0)
	prov := NewTPFA(g, rock, fl, wells)
	nc, nf := g.N, len(g.Faces)
	sat := make([]float64, nc)
	for c := 0; c < nc; c++ {
		sat[c] = 0.1 + 0.15*float64(c)
	}

	// two deterministic right-hand sides
	bFace, gFace := make([]float64, nf), make([]float64, nf)
	bCell, gCell := make([]float64, nc), make([]float64, nc)
	bPerf, gPerf := []float64{0.7, -1.3}, []float64{-0.2, 0.9}
	for f := 0; f < nf; f++ {
		bFace[f] = 1.0 / float64(f+1)
		gFace[f] = float64(f) - 1.5
	}
	for c := 0; c < nc; c++ {
		bCell[c] = 0.5 * float64(c+1)
		gCell[c] = 1.0 / float64(c+2)
	}

	// x = M⁻¹b against y = M⁻ᵀg: gᵀx must equal yᵀb
	xv, xp, xq, _, err := prov.SolveLinear(sat, bFace, bCell, bPerf, false)
	if err != nil {
		tst.Errorf("forward solve failed: %v\n", err)
		return
	}
	yv, yp, yq, _, err := prov.SolveTranspose(sat, gFace, gCell, gPerf)
	if err != nil {
		tst.Errorf("transposed solve failed: %v\n", err)
		return
	}
	lhs, rhs := 0.0, 0.0
	for f := 0; f < nf; f++ {
		lhs += gFace[f] * xv[f]
		rhs += yv[f] * bFace[f]
	}
	for c := 0; c < nc; c++ {
		lhs += gCell[c] * xp[c]
		rhs += yp[c] * bCell[c]
	}
	for i := 0; i < 2; i++ {
		lhs += gPerf[i] * xq[i]
		rhs += yq[i] * bPerf[i]
	}
	io.Pforan("gᵀx = %v\n", lhs)
	io.Pforan("yᵀb = %v\n", rhs)
	chk.Scalar(tst, "duality", 1e-10, lhs, rhs)
}
